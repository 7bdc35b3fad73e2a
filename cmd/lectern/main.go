// Command lectern inspects e-book libraries the way plugins see them.
package main

import (
	"os"

	"github.com/lectern-dev/lectern/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
