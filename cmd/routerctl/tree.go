package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/riogod/router-sub000/pkg/routetree"
)

func treeCmd() *cobra.Command {
	var routesPath string

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the compiled route tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := loadTree(routesPath)
			if err != nil {
				return err
			}
			for _, node := range tree.Roots() {
				printNode(node, 0)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&routesPath, "routes", "r", "routes.yaml", "Route table file (YAML or JSON)")

	return cmd
}

func printNode(node *routetree.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	line := fmt.Sprintf("%s%s  %s", indent, node.Name(), node.Path())
	if title := node.Definition().Title; title != "" {
		line += fmt.Sprintf("  (%s)", title)
	}
	fmt.Println(line)
	for _, child := range node.Children() {
		printNode(child, depth+1)
	}
}
