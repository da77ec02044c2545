// Command ecmodp is a reference orchestrator for the engine: it generates
// domain parameters and keys into YAML files and encrypts, decrypts, signs
// and verifies with them.
package main

import (
	"os"
)

func main() {
	// On failure Cobra prints the usage message and error string, so we only
	// need to exit with a non-0 status
	if newRootCmd(os.Stdin, os.Stdout).Execute() != nil {
		os.Exit(1)
	}
}
