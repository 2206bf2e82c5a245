package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ppiankov/evalia/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		if errors.Is(err, cli.ErrPoorQuality) {
			// Evaluation succeeded; the draft just scored poorly
			fmt.Fprintln(os.Stderr, "Warning: overall score below 3.0 (poor quality)")
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
