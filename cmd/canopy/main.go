package main

import (
	"os"

	"github.com/spf13/cobra"
)

type rootCmdConfig struct {
	logger
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "canopy",
		Short: "canopy is a tool to train boosted decision-tree ensembles",
		Long:  `A tool to train boosted or bagged ensembles of decision trees from your data, use them to classify events as signal or background, and rank the input variables by importance`,
	}
	config := &rootCmdConfig{}
	rootCmd.PersistentFlags().BoolVarP((*bool)(&(config.logger)), "verbose", "v", false, "")
	rootCmd.AddCommand(versionCmd(), trainCmd(config), predictCmd(config), rankCmd(config))
	return rootCmd
}
