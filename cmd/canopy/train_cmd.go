package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pbanos/canopy"
	"github.com/pbanos/canopy/tree"
	"github.com/spf13/cobra"
)

type trainCmdConfig struct {
	*dataCmdConfig
	output          string
	treeCount       int
	boosting        string
	separation      string
	nodeMinEvents   int
	cutCount        int
	backgroundScale float64
	pruneStrength   float64
	purityLeaves    bool
	unweightedTrees bool
}

func trainCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &trainCmdConfig{dataCmdConfig: &dataCmdConfig{rootCmdConfig: rootConfig}}
	defaults := canopy.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a decision-tree ensemble",
		Long:  `Train a boosted or bagged ensemble of decision trees from a set of labeled events`,
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
			trainer, err := canopy.New(tree.Builder{}, config.trainingConfig())
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			src, closer, err := config.source(metadata)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			defer closer.Close()
			sample, err := trainer.NewSample(ctx, src)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			config.Logf("Training %d trees over %d events...", config.treeCount, sample.Count())
			trainer.Monitor = func(r canopy.RoundRecord) {
				config.Logf("Round %d: error fraction %g, round weight %g, %d nodes (%d before pruning)",
					r.Round, r.ErrorFraction, r.Weight, r.Nodes, r.NodesBeforePruning)
			}
			forest, err := trainer.Train(ctx, sample)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(5)
			}
			config.Logf("Writing ensemble...")
			err = outputForest(ctx, config.output, forest)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(6)
			}
			config.Logf("Done")
		},
	}
	config.declareFlags(cmd)
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", "path to a file or a redis://host:port/name URL to store the trained ensemble at (defaults to STDOUT)")
	cmd.PersistentFlags().IntVarP(&(config.treeCount), "trees", "t", defaults.TreeCount, "number of trees to grow")
	cmd.PersistentFlags().StringVarP(&(config.boosting), "boosting", "b", defaults.Boosting, "boosting strategy to apply between rounds: AdaBoost or Bagging")
	cmd.PersistentFlags().StringVarP(&(config.separation), "separation", "s", defaults.Separation, "separation criterion guiding node splits: MisclassificationError, GiniIndex, CrossEntropy or SignalOverSqrtSPlusB")
	cmd.PersistentFlags().IntVar(&(config.nodeMinEvents), "node-min-events", defaults.NodeMinEvents, "minimum number of events in a node below which it is not split")
	cmd.PersistentFlags().IntVar(&(config.cutCount), "cuts", defaults.CutCount, "number of candidate thresholds searched per variable per node")
	cmd.PersistentFlags().Float64Var(&(config.backgroundScale), "background-scale", defaults.BackgroundScale, "factor applied to the initial weight of background events before training (values <= 0 switch the scaling off)")
	cmd.PersistentFlags().Float64Var(&(config.pruneStrength), "prune-strength", defaults.PruneStrength, "strength of the cost-complexity pruning applied to each tree (0 disables pruning)")
	cmd.PersistentFlags().BoolVar(&(config.purityLeaves), "purity-leaves", !defaults.UseYesNoLeaf, "make leaves answer with their signal fraction instead of their majority class")
	cmd.PersistentFlags().BoolVar(&(config.unweightedTrees), "unweighted-trees", !defaults.UseWeightedTrees, "average tree scores plainly instead of weighting them by their round weights")
	return cmd
}

func (tcc *trainCmdConfig) trainingConfig() canopy.Config {
	return canopy.Config{
		TreeCount:        tcc.treeCount,
		Boosting:         tcc.boosting,
		Separation:       tcc.separation,
		NodeMinEvents:    tcc.nodeMinEvents,
		CutCount:         tcc.cutCount,
		BackgroundScale:  tcc.backgroundScale,
		PruneStrength:    tcc.pruneStrength,
		UseYesNoLeaf:     !tcc.purityLeaves,
		UseWeightedTrees: !tcc.unweightedTrees,
	}
}

func (tcc *trainCmdConfig) Validate() error {
	if tcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if tcc.treeCount < 1 {
		return fmt.Errorf("invalid number of trees %d: must be at least 1", tcc.treeCount)
	}
	if tcc.nodeMinEvents < 1 {
		return fmt.Errorf("invalid node-min-events %d: must be at least 1", tcc.nodeMinEvents)
	}
	if tcc.cutCount < 1 {
		return fmt.Errorf("invalid number of cuts %d: must be at least 1", tcc.cutCount)
	}
	return nil
}
