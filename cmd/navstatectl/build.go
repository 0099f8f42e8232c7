package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/navstate/pkg/params"
)

func buildCmd() *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "build <name> [k=v ...]",
		Short: "Build the URL for a route name and params",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRouter(manifestPath)
			if err != nil {
				return err
			}
			defer rt.Dispose()

			p, err := parseParamArgs(args[1:])
			if err != nil {
				return err
			}

			path, err := rt.BuildPath(args[0], p)
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}

	addManifestFlag(cmd, &manifestPath)
	return cmd
}

// parseParamArgs turns a list of "key=value" CLI arguments into a
// Params bag. Every value is kept as a string; a manifest-driven guard
// or codec that expects a different type converts it downstream.
func parseParamArgs(args []string) (params.Params, error) {
	p := params.Params{}
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("invalid param %q: expected key=value", arg)
		}
		p[k] = v
	}
	return p, nil
}
