// Command checkoutctl drives the checkout API from a terminal: cart,
// coupons, the checkout flow and order history.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/config"
)

type app struct {
	envFile string
	apiURL  string
	token   string

	carts  *clients.CartClient
	orders *clients.OrderClient
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "checkoutctl",
		Short:         "Cart and checkout client",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "optional dotenv file")
	root.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "API base URL (CHECKOUT_API_URL)")
	root.PersistentFlags().StringVar(&a.token, "token", "", "bearer token (CHECKOUT_TOKEN)")

	root.AddCommand(
		newTokenCmd(),
		newCartCmd(a),
		newCouponCmd(a),
		newCheckoutCmd(a),
		newOrdersCmd(a),
	)
	return root
}

// connect builds the API clients. Flags win over the environment.
func (a *app) connect(*cobra.Command, []string) error {
	cfg, err := config.LoadClient(a.envFile)
	if err != nil {
		return err
	}
	if a.apiURL != "" {
		cfg.APIURL = a.apiURL
	}
	if a.token != "" {
		cfg.Token = a.token
	}

	c, err := clients.NewClient("checkout", cfg.APIURL, cfg.Token, cfg.Timeout)
	if err != nil {
		return err
	}
	a.carts = clients.NewCartClient(c)
	a.orders = clients.NewOrderClient(c)
	return nil
}
