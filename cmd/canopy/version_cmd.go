package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const canopyVersion = "0.1.0"

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of canopy",
		Long:  `All software has versions. This is canopy's`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("canopy v%s\n", canopyVersion)
		},
	}
}
