package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/checkout"
)

func newOrdersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "orders",
		Short:             "Order history",
		PersistentPreRunE: a.connect,
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List your orders, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			orders, err := a.orders.List(cmd.Context())
			if err != nil {
				return errors.New(checkout.Message(err, "Failed to load orders"))
			}
			printOrders(cmd.OutOrStdout(), orders)
			return nil
		},
	}

	get := &cobra.Command{
		Use:   "get ORDER_ID",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := a.orders.Get(cmd.Context(), args[0])
			if err != nil {
				return errors.New(checkout.Message(err, "Failed to load order"))
			}
			printOrder(cmd.OutOrStdout(), o)
			return nil
		},
	}

	process := &cobra.Command{
		Use:   "process ORDER_ID",
		Short: "Retry processing a created or failed order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := a.orders.Process(cmd.Context(), args[0])
			if err != nil {
				return errors.New(checkout.Message(err, checkout.MsgProcessFailed))
			}
			printOrder(cmd.OutOrStdout(), o)
			return nil
		},
	}

	cmd.AddCommand(list, get, process)
	return cmd
}
