// Command contactctl inspects and manages contact submissions, either through
// a running server or directly against a local store with --offline.
package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	a := &app{}
	defer a.close()

	if err := newRootCmd(a).Execute(); err != nil {
		a.close()
		os.Exit(1)
	}
}
