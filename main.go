package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/TFMV/witness/cmd"
	"github.com/TFMV/witness/internal/witness"
)

func main() {
	if err := cmd.Execute(); err != nil {
		var accessErr *witness.DirectoryAccessError
		if errors.As(err, &accessErr) {
			fmt.Fprintf(os.Stderr, "cannot witness what does not exist: %s\n", accessErr.Path)
		} else {
			fmt.Fprintf(os.Stderr, "witness: %v\n", err)
		}
		os.Exit(1)
	}
}
