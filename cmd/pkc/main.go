// Command pkc generates keys and runs encryption round trips with the rsa,
// elgamal and ecc engines.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
