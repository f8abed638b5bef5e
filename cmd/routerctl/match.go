package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/riogod/router-sub000/pkg/routetree"
)

func matchCmd() *cobra.Command {
	var routesPath string
	var caseSensitive bool
	var strictSlash bool

	cmd := &cobra.Command{
		Use:   "match <path>",
		Short: "Match a URL path against the route table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := loadTree(routesPath)
			if err != nil {
				return err
			}

			state := tree.MatchPath(args[0], routetree.MatchOptions{
				CaseSensitive:       caseSensitive,
				StrictTrailingSlash: strictSlash,
			})
			if state == nil {
				return fmt.Errorf("no route matches %q", args[0])
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"name":   state.Name,
				"params": state.Params,
				"path":   state.Path,
			})
		},
	}

	cmd.Flags().StringVarP(&routesPath, "routes", "r", "routes.yaml", "Route table file (YAML or JSON)")
	cmd.Flags().BoolVar(&caseSensitive, "case-sensitive", false, "Match paths case sensitively")
	cmd.Flags().BoolVar(&strictSlash, "strict-trailing-slash", false, "Make trailing slashes significant")

	return cmd
}
