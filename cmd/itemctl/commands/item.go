package commands

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

func parseIndex(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid item index %q", s)
	}
	return n, nil
}

func parseAmount(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return n, nil
}

// create <identifier> <price>
func createCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <identifier> <price>",
		Short: "Register a new item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			return call(cmd, http.MethodPost, "/item", map[string]any{
				"identifier": args[0],
				"price":      price,
			})
		},
	}
}

// get <index>
func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <index>",
		Short: "Print one item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			return call(cmd, http.MethodGet, fmt.Sprintf("/item/%d", index), nil)
		},
	}
}

func listCmd() *cobra.Command {
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered items in index order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			q.Set("limit", strconv.Itoa(limit))
			q.Set("offset", strconv.Itoa(offset))
			return call(cmd, http.MethodGet, "/item?"+q.Encode(), nil)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "page size (1-100)")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of items to skip")
	return cmd
}

// pay <index> <value>
func payCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pay <index> <value>",
		Short: "Pay the full price of an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			value, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			return call(cmd, http.MethodPost, fmt.Sprintf("/item/%d/payment", index), map[string]int64{"value": value})
		},
	}
}

// deliver <index>: owner only.
func deliverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deliver <index>",
		Short: "Mark a paid item delivered",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			return call(cmd, http.MethodPost, fmt.Sprintf("/item/%d/delivery", index), nil)
		},
	}
}

// events <index>
func eventsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "events <index>",
		Short: "Print the lifecycle events of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			return call(cmd, http.MethodGet, fmt.Sprintf("/item/%d/events", index), nil)
		},
	}
}
