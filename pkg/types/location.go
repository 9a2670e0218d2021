package types

// Location is a store front. Name is unique across locations.
type Location struct {
	LocationID int64  `db:"location_id" key:"true" json:"location_id"`
	Name       string `db:"name" json:"name" validate:"required,min=2"`
}

func (l *Location) GetID() int64      { return l.LocationID }
func (l *Location) SetID(id int64)    { l.LocationID = id }
func (l *Location) TableName() string { return LocationsTable }
