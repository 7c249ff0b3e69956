// sheetctl resolves sheets from the command line using the same
// configuration as the server.
//
// Usage: sheetctl <command> [options]
package main

import (
	"fmt"
	"os"

	"github.com/JonMunkholm/sheetresolver/internal/core"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", core.FormatUserError(err))
		os.Exit(1)
	}
}
