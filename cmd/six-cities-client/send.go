package six_cities_client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/manifest-network/six-cities-client/cmd"
)

var sendMethods = []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}

var sendCmd = &cobra.Command{
	Use:   "send <method> <path>",
	Short: "Send a request with an optional JSON body",
	Args:  cobra.ExactArgs(2),
	RunE: func(c *cobra.Command, args []string) error {
		method := strings.ToUpper(args[0])
		if !slices.Contains(sendMethods, method) {
			return fmt.Errorf("invalid method %q, expected one of %s", args[0], strings.Join(sendMethods, "|"))
		}

		var body interface{}
		data, err := c.Flags().GetString("data")
		if err != nil {
			return err
		}
		if data != "" {
			if !json.Valid([]byte(data)) {
				return fmt.Errorf("--data is not valid JSON")
			}
			body = json.RawMessage(data)
		}

		client, _, err := cmd.NewClient()
		if err != nil {
			return err
		}

		resp, err := client.Do(c.Context(), method, args[1], body, nil)
		if err != nil {
			return fmt.Errorf("%s %s: %w", method, args[1], err)
		}
		if s := resp.String(); s != "" {
			fmt.Fprintln(c.OutOrStdout(), s)
		}
		return nil
	},
}

func init() {
	sendCmd.Flags().StringP("data", "d", "", "JSON request body")
	RootCmd.AddCommand(sendCmd)
}
