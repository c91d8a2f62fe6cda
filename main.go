// The main package for the logofetch executable.
package main

import (
	"github.com/airborne-data/logofetch/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
