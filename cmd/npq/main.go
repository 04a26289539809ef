package main

import (
	"context"
	"fmt"
	"os"
)

var version = "dev"

func main() {
	cmd := newRootCmd(os.Stdout, os.Stderr)
	cmd.SetContext(context.Background())

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
