// Command codewiki scans a local repository checkout and generates a
// structured wiki for it, driving the same staged pipeline a hosted
// service would, with progress rendered to the terminal.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
