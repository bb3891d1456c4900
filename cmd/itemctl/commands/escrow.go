package commands

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func parseEscrowID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid escrow id %q", s)
	}
	return id, nil
}

// escrow <escrow-id>
func escrowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "escrow <escrow-id>",
		Short: "Print an escrow unit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseEscrowID(args[0])
			if err != nil {
				return err
			}
			return call(cmd, http.MethodGet, "/escrow/"+id.String(), nil)
		},
	}
}

// deposit <escrow-id> <value>
func depositCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deposit <escrow-id> <value>",
		Short: "Pay an item through its escrow",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseEscrowID(args[0])
			if err != nil {
				return err
			}
			value, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			return call(cmd, http.MethodPost, "/escrow/"+id.String()+"/deposit", map[string]int64{"value": value})
		},
	}
}
