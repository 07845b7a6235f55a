// file: main.go
// version: 2.0.0
// guid: 0f4c2b7e-9a13-4d68-b5e1-7c3a8d2f6e90

package main

import (
	"fmt"
	"os"

	"github.com/jdfalk/cfr-navigator/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
