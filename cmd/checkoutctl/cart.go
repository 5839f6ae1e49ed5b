package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/checkout"
)

func newCartCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "cart",
		Short:             "Show and edit the cart",
		PersistentPreRunE: a.connect,
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the cart with server-computed totals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			view := checkout.NewCartView(a.carts)
			err := view.Load(cmd.Context())
			printCart(cmd.OutOrStdout(), view)
			return err
		},
	}

	var course, bundle string
	var qty int
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a course or bundle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.carts.AddItem(cmd.Context(), cart.AddItemInput{CourseID: course, BundleID: bundle, Quantity: qty}); err != nil {
				return errors.New(checkout.Message(err, "Failed to add item"))
			}
			view := checkout.NewCartView(a.carts)
			err := view.Load(cmd.Context())
			printCart(cmd.OutOrStdout(), view)
			return err
		},
	}
	add.Flags().StringVar(&course, "course", "", "course id")
	add.Flags().StringVar(&bundle, "bundle", "", "bundle id")
	add.Flags().IntVar(&qty, "quantity", 1, "quantity")
	add.MarkFlagsMutuallyExclusive("course", "bundle")
	add.MarkFlagsOneRequired("course", "bundle")

	update := &cobra.Command{
		Use:   "update ITEM_ID QUANTITY",
		Short: "Set an item's quantity; 0 removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.Wrap(err, "quantity")
			}
			view := checkout.NewCartView(a.carts)
			err = view.UpdateQuantity(cmd.Context(), args[0], q)
			printCart(cmd.OutOrStdout(), view)
			return err
		},
	}

	remove := &cobra.Command{
		Use:   "remove ITEM_ID",
		Short: "Remove an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view := checkout.NewCartView(a.carts)
			err := view.Remove(cmd.Context(), args[0])
			printCart(cmd.OutOrStdout(), view)
			return err
		},
	}

	var yes bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every item",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var confirm checkout.Confirmer = newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			if yes {
				confirm = checkout.ConfirmFunc(func(string) bool { return true })
			}
			view := checkout.NewCartView(a.carts)
			cleared, err := view.Clear(cmd.Context(), confirm)
			if err != nil {
				return err
			}
			if cleared {
				fmt.Fprintln(cmd.OutOrStdout(), "Cart cleared.")
			}
			return nil
		},
	}
	clearCmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	cmd.AddCommand(show, add, update, remove, clearCmd)
	return cmd
}

func newCouponCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "coupon",
		Short:             "Apply or remove a coupon",
		PersistentPreRunE: a.connect,
	}

	apply := &cobra.Command{
		Use:   "apply CODE",
		Short: "Apply a coupon code to the cart",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := ""
			if len(args) == 1 {
				code = args[0]
			}
			view := checkout.NewCartView(a.carts)
			applier := checkout.NewCouponApplier(a.carts, view)
			if err := applier.Apply(cmd.Context(), code); err != nil {
				return errors.New(applier.Error())
			}
			fmt.Fprintln(cmd.OutOrStdout(), applier.Success())
			printCart(cmd.OutOrStdout(), view)
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "remove",
		Short: "Remove the applied coupon",
		RunE: func(cmd *cobra.Command, _ []string) error {
			view := checkout.NewCartView(a.carts)
			applier := checkout.NewCouponApplier(a.carts, view)
			if err := applier.Remove(cmd.Context()); err != nil {
				return errors.New(applier.Error())
			}
			fmt.Fprintln(cmd.OutOrStdout(), applier.Success())
			return nil
		},
	}

	cmd.AddCommand(apply, remove)
	return cmd
}

// prompter reads answers line by line from the terminal.
type prompter struct {
	in     *bufio.Scanner
	out    io.Writer
	closed bool
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewScanner(in), out: out}
}

func (p *prompter) Ask(question, def string) string {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", question, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", question)
	}
	if !p.in.Scan() {
		p.closed = true
		return def
	}
	answer := strings.TrimSpace(p.in.Text())
	if answer == "" {
		return def
	}
	return answer
}

func (p *prompter) Confirm(prompt string) bool {
	switch strings.ToLower(p.Ask(prompt+" (y/N)", "")) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
