// colorpal - Dominant colour picker
//
// colorpal extracts the dominant colours of an image with k-means
// clustering and shows them as hex and RGB swatches, on a web page or
// from the command line.
//
// Copyright (c) 2025 John Mylchreest
// Licensed under the MIT License
package main

import (
	"os"

	"github.com/jmylchreest/colorpal/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
