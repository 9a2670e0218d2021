// Package types defines the Model contract, the mart entity types, the
// change-tracking states, the Repository interface, and the standard errors
// shared by the store, the tracking session, and the repositories.
package types
