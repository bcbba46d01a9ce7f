// Command pagekit probes web pages against declarative page descriptions.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/entrhq/pagekit/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		if !errors.Is(err, cli.ErrProbeFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
