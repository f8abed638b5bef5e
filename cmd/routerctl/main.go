package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/riogod/router-sub000/pkg/routeconfig"
	"github.com/riogod/router-sub000/pkg/routetree"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "routerctl",
		Short: "Inspect declarative route tables",
		Long: `routerctl loads a declarative route table (YAML or JSON) and lets you
exercise it from the command line:

  • match a URL against the table and print the resolved state
  • build a URL from a route name and parameters
  • print the compiled route tree`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		matchCmd(),
		buildCmd(),
		treeCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// loadTree reads a route table and compiles it into a tree.
func loadTree(path string) (*routetree.Tree, error) {
	defs, err := routeconfig.Load(path)
	if err != nil {
		return nil, err
	}
	tree := routetree.New()
	if err := tree.Add(defs, nil, true); err != nil {
		return nil, err
	}
	return tree, nil
}
