// Command querycheck validates list queries against the resource rules
// offline, printing the built query or every violation.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
