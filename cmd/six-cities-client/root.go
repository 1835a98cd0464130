package six_cities_client

import (
	"github.com/spf13/cobra"

	"github.com/manifest-network/six-cities-client/cmd"
)

var Version = "dev"

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:          "six-cities-client",
	Short:        "Six cities API client",
	Long:         `Query the six cities booking API and export endpoint availability metrics.`,
	Version:      Version,
	SilenceUsage: true,
}

func init() {
	cmd.BindGlobalFlags(RootCmd)
}

// Execute is called by main.main().
func Execute() {
	cmd.Execute(RootCmd, "six-cities-client")
}
