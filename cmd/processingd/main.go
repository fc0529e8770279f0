package main

import (
	"fmt"
	"github.com/spf13/cobra"
	"os"
	"processingd/internal/di"
	"processingd/internal/structures"
)

var flags structures.CliFlags

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

var cmd = &cobra.Command{
	Use: "processingd",
	Short: "Keeps the donation processing state of one tracker event in " +
		"sync over REST and the processing socket, and serves it to the " +
		"local operator UI.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := di.InitApp(&flags)
		return err
	},
	SilenceUsage: true,
}

func init() {
	cmd.Flags().StringVarP(&flags.ConfigPath, "config", "c", "config.yaml",
		"Path to the YAML configuration file.")
	cmd.Flags().BoolVarP(&flags.DebugMode, "debug", "d", false,
		"Enable debug logging.")
}
