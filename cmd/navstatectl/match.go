package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	navstate "github.com/vango-dev/navstate"
	"github.com/vango-dev/navstate/pkg/manifest"
)

func matchCmd() *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "match <path>",
		Short: "Match a URL against a route manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRouter(manifestPath)
			if err != nil {
				return err
			}
			defer rt.Dispose()

			result, err := rt.MatchPath(args[0])
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}

	addManifestFlag(cmd, &manifestPath)
	return cmd
}

// loadRouter reads a manifest file and builds an unstarted Router over
// it, suitable for no-side-effect matchPath/buildPath queries.
func loadRouter(manifestPath string) (*navstate.Router, error) {
	routes, err := manifest.LoadFile(manifestPath)
	if err != nil {
		return nil, err
	}
	opts := navstate.DefaultOptions()
	opts.AllowNotFound = true
	return navstate.New(routes, opts)
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
