// Command omakase-shuffle serves the Omakase Shuffle API and picks random
// tracks from the command line.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, styles.failure(err))
		os.Exit(1)
	}
}
