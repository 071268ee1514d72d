package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/pbanos/canopy"
	yamlmd "github.com/pbanos/canopy/event/yaml"
	"github.com/spf13/cobra"
)

type rankCmdConfig struct {
	*rootCmdConfig
	ensembleInput string
	metadataInput string
}

func rankCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &rankCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank input variables by importance",
		Long:  `Rank the input variables of a trained ensemble by the share of split gain its trees attribute to them, most important first`,
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			config.Logf("Reading ensemble...")
			forest := canopy.NewForest(true, true)
			err = readForest(ctx, config.ensembleInput, forest)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			importance, err := forest.Importance()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			names, err := config.variableNames(len(importance))
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			ranking := make([]int, len(importance))
			for i := range ranking {
				ranking[i] = i
			}
			sort.SliceStable(ranking, func(i, j int) bool {
				return importance[ranking[i]] > importance[ranking[j]]
			})
			for _, v := range ranking {
				fmt.Printf("%s: %g\n", names[v], importance[v])
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.ensembleInput), "ensemble", "e", "", "path to a file or a redis://host:port/name URL with the trained ensemble (required)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file naming the ensemble's input variables (defaults to positional names)")
	return cmd
}

/*
variableNames returns the names for the given number of variables: the
names declared in the metadata file when one is given, positional names
otherwise.
*/
func (rcc *rankCmdConfig) variableNames(n int) ([]string, error) {
	if rcc.metadataInput == "" {
		names := make([]string, n)
		for i := range names {
			names[i] = fmt.Sprintf("var%d", i)
		}
		return names, nil
	}
	metadata, err := yamlmd.ReadMetadataFromFile(rcc.metadataInput)
	if err != nil {
		return nil, err
	}
	if len(metadata.Variables) != n {
		return nil, fmt.Errorf("metadata declares %d variables, ensemble has %d", len(metadata.Variables), n)
	}
	return metadata.Variables, nil
}

func (rcc *rankCmdConfig) Validate() error {
	if rcc.ensembleInput == "" {
		return fmt.Errorf("required ensemble flag was not set")
	}
	return nil
}
