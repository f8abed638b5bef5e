package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/riogod/router-sub000/pkg/routetree"
)

func buildCmd() *cobra.Command {
	var routesPath string

	cmd := &cobra.Command{
		Use:   "build <route> [key=value ...]",
		Short: "Build a URL from a route name and parameters",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := loadTree(routesPath)
			if err != nil {
				return err
			}

			params := routetree.Params{}
			for _, arg := range args[1:] {
				key, value, ok := strings.Cut(arg, "=")
				if !ok {
					return fmt.Errorf("parameter %q is not key=value", arg)
				}
				params[key] = value
			}

			path, err := tree.BuildPath(args[0], params, routetree.BuildOptions{})
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&routesPath, "routes", "r", "routes.yaml", "Route table file (YAML or JSON)")

	return cmd
}
