// Command mart is the command-line interface to the mart store.
package main

import "github.com/mesh-intelligence/mart/internal/cli"

func main() {
	cli.Execute()
}
