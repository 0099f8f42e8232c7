package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "navstatectl",
		Short: "Inspect and serve a navstate route manifest",
		Long: `navstatectl loads a route manifest and runs match/build
queries against it, or serves it behind the devtools and
inspect-http plugins for local debugging.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		matchCmd(),
		buildCmd(),
		serveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// addManifestFlag registers the --manifest flag shared by every subcommand that
// needs a route forest to operate against.
func addManifestFlag(cmd *cobra.Command, dest *string) {
	cmd.Flags().StringVarP(dest, "manifest", "m", "routes.json", "path to a JSON route manifest")
}
