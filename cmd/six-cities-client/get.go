package six_cities_client

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/manifest-network/six-cities-client/cmd"
)

var getCmd = &cobra.Command{
	Use:   "get <path>...",
	Short: "Fetch one or more API paths",
	Long: `Fetch API paths relative to the base URL. Paths are requested concurrently
through a single client and the bodies are printed in argument order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		client, config, err := cmd.NewClient()
		if err != nil {
			return err
		}

		ctx := c.Context()
		bodies := make([]string, len(args))
		var eg errgroup.Group
		eg.SetLimit(int(config.MaxConcurrency))
		for i, path := range args {
			eg.Go(func() error {
				resp, err := client.Get(ctx, path, nil)
				if err != nil {
					return fmt.Errorf("GET %s: %w", path, err)
				}
				bodies[i] = resp.String()
				return nil
			})
		}
		waitErr := eg.Wait()

		out := c.OutOrStdout()
		for i, body := range bodies {
			if body == "" {
				slog.Debug("No body to print", "path", args[i])
				continue
			}
			fmt.Fprintln(out, body)
		}
		return waitErr
	},
}

func init() {
	RootCmd.AddCommand(getCmd)
}
