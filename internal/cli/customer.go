package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/stockroom/internal/store"
	"github.com/roach88/stockroom/internal/view"
)

// NewCustomerCommand creates the customer command group.
func NewCustomerCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customer",
		Short: "Browse customers by phone number",
		Long: `Browse customers. A customer is the set of orders placed under one
phone number and exists only while it has at least one order.`,
	}

	cmd.AddCommand(newCustomerListCommand(rootOpts))
	cmd.AddCommand(newCustomerShowCommand(rootOpts))
	cmd.AddCommand(newCustomerDeleteCommand(rootOpts))
	cmd.AddCommand(newCustomerDeleteOrderCommand(rootOpts))

	return cmd
}

func newCustomerListCommand(rootOpts *RootOptions) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List customers with order counts and totals",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, cmd, func(ctx context.Context, e *env) error {
				customers := view.SearchCustomers(store.MustFromContext(ctx).Customers(), search)
				return e.out.Success(customerListing(customers))
			})
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "only show phone numbers containing the term")

	return cmd
}

func newCustomerShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <phone>",
		Short:         "Show a customer's orders",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, cmd, func(ctx context.Context, e *env) error {
				c, ok := store.MustFromContext(ctx).Customer(args[0])
				if !ok {
					return notFound(e, "customer", args[0])
				}
				return e.out.Success(customerDetail{Customer: c, Total: view.CustomerTotal(c)})
			})
		},
	}
}

func newCustomerDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <phone>",
		Short: "Remove a customer from the index",
		Long: `Remove a customer from the customer index.

The customer's orders are kept; only the index entry goes. Placing a new
order under the same phone number creates a fresh customer holding just
that order.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, cmd, func(ctx context.Context, e *env) error {
				if err := store.MustFromContext(ctx).DeleteCustomer(ctx, args[0]); err != nil {
					return persistFailed(e, err)
				}
				return e.out.Success(actionResult{Message: "Customer deleted", ID: args[0]})
			})
		},
	}
}

func newCustomerDeleteOrderCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-order <phone> <order-id>",
		Short: "Remove one order from a customer's list",
		Long: `Remove one order from a customer's list. The order itself is kept.
The customer disappears when its last order is removed.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, cmd, func(ctx context.Context, e *env) error {
				if err := store.MustFromContext(ctx).DeleteCustomerOrder(ctx, args[0], args[1]); err != nil {
					return persistFailed(e, err)
				}
				return e.out.Success(actionResult{Message: "Order removed from customer", ID: args[1]})
			})
		},
	}
}
