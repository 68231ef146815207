package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	var root = &cobra.Command{
		Use:          "roomfinder",
		Short:        "Room listings with validated forms and free-text ranking",
		SilenceUsage: true,
	}

	root.AddCommand(serveCMD(), validateCMD())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
