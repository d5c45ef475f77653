package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the riskdash CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("riskdash version %s\n", version)
		fmt.Println("A live risk-monitoring dashboard core for automated trading")
		fmt.Println("https://github.com/rustyeddy/riskdash")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
