// streamfilter - Substring Line Filter
//
// streamfilter loads a text file into memory and shows the lines that
// contain a search string, either as grep-style output or in a
// side-by-side terminal view.
package main

import (
	"os"

	"github.com/ccollicutt/streamfilter/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
