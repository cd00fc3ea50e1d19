package main

import (
	"fmt"
	"os"

	"gallery-be/internal/logger"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gallery",
		Short:         "Browse the content gallery from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newBrowseCmd())
	return root
}

func main() {
	logger.Init(os.Getenv("APP_ENV"))
	defer logger.Sync()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
