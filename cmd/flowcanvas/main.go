// Command flowcanvas edits workflow canvases from the terminal.
package main

import (
	"os"

	"github.com/randalmurphal/flowcanvas/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
