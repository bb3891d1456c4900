package commands

import (
	"net/http"

	"github.com/spf13/cobra"
)

// session <identity>: open a development session and print it.
func sessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session <identity>",
		Short: "Open a development session for an identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd, http.MethodPost, "/session", map[string]string{"identity": args[0]})
		},
	}
}
