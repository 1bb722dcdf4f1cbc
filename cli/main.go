package main

import (
	"errors"
	"fmt"
	"os"

	cli "github.com/sagar-developer08/admin-ecom-sub000/cli/internal"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/client"
)

func main() {
	rootCmd := cli.NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		// The session-terminated hook already told the user what to do
		if !errors.Is(err, client.ErrSessionTerminated) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
