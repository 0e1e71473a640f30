// Command gesturecards runs a standalone table: the recognizer listener, the
// game loop and the browser view in one process.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
