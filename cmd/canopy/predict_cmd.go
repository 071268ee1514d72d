package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pbanos/canopy"
	"github.com/spf13/cobra"
)

type predictCmdConfig struct {
	*dataCmdConfig
	ensembleInput   string
	purityLeaves    bool
	unweightedTrees bool
}

func predictCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &predictCmdConfig{dataCmdConfig: &dataCmdConfig{rootCmdConfig: rootConfig}}
	defaults := canopy.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Score events with a trained ensemble",
		Long:  `Score a set of events with a previously trained ensemble, writing one score per event to STDOUT in input order`,
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			metadata, err := config.metadata()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			config.Logf("Reading ensemble...")
			forest := canopy.NewForest(!config.purityLeaves, !config.unweightedTrees)
			err = readForest(ctx, config.ensembleInput, forest)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			src, closer, err := config.source(metadata)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			defer closer.Close()
			events, err := src.Events(ctx)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(5)
			}
			config.Logf("Scoring %d events with %d trees...", len(events), forest.Count())
			for _, e := range events {
				score, err := forest.Score(e)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(6)
				}
				fmt.Println(score)
			}
		},
	}
	config.declareFlags(cmd)
	cmd.PersistentFlags().StringVarP(&(config.ensembleInput), "ensemble", "e", "", "path to a file or a redis://host:port/name URL with the trained ensemble (required)")
	cmd.PersistentFlags().BoolVar(&(config.purityLeaves), "purity-leaves", !defaults.UseYesNoLeaf, "make leaves answer with their signal fraction instead of their majority class")
	cmd.PersistentFlags().BoolVar(&(config.unweightedTrees), "unweighted-trees", !defaults.UseWeightedTrees, "average tree scores plainly instead of weighting them by their round weights")
	return cmd
}

func (pcc *predictCmdConfig) Validate() error {
	if pcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if pcc.ensembleInput == "" {
		return fmt.Errorf("required ensemble flag was not set")
	}
	return nil
}
