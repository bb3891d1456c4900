package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	apiURL   string
	identity string
	client   *APIClient
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "itemctl",
		Short:        "Command line client for the item registry",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := NewAPIClient(apiURL)
			if err != nil {
				return err
			}
			client = c
			if identity != "" && cmd.Name() != "session" {
				if err := client.OpenSession(cmd.Context(), identity); err != nil {
					return fmt.Errorf("open session as %q: %w", identity, err)
				}
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&apiURL, "api", "http://localhost:8080", "registry API base URL")
	root.PersistentFlags().StringVar(&identity, "identity", "", "open a session as this identity before running the command")

	root.AddCommand(
		sessionCmd(),
		createCmd(),
		getCmd(),
		listCmd(),
		payCmd(),
		depositCmd(),
		deliverCmd(),
		escrowCmd(),
		eventsCmd(),
	)
	return root
}

// call runs one API request and prints the JSON result to the command's output.
func call(cmd *cobra.Command, method, path string, body any) error {
	raw, err := client.Do(cmd.Context(), method, path, body)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}
	return printJSON(cmd.OutOrStdout(), raw)
}
