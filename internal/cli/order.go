package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/stockroom/internal/label"
	"github.com/roach88/stockroom/internal/model"
	"github.com/roach88/stockroom/internal/store"
	"github.com/roach88/stockroom/internal/view"
)

// OrderOptions holds flags shared by order add and order edit.
type OrderOptions struct {
	*RootOptions
	Product     string
	Price       float64
	Quantity    int64
	Customer    string
	Phone       string
	Date        string // YYYY-MM-DD
	Status      string
	Description string
	Image       string
	ClearImage  bool
}

// NewOrderCommand creates the order command group.
func NewOrderCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Manage customer orders",
	}

	cmd.AddCommand(newOrderAddCommand(rootOpts))
	cmd.AddCommand(newOrderListCommand(rootOpts))
	cmd.AddCommand(newOrderShowCommand(rootOpts))
	cmd.AddCommand(newOrderEditCommand(rootOpts))
	cmd.AddCommand(newOrderStatusCommand(rootOpts))
	cmd.AddCommand(newOrderDeleteCommand(rootOpts))
	cmd.AddCommand(newOrderLabelCommand(rootOpts))

	return cmd
}

func bindOrderFlags(cmd *cobra.Command, opts *OrderOptions) {
	f := cmd.Flags()
	f.StringVar(&opts.Product, "product", "", "product name")
	f.Float64Var(&opts.Price, "price", 0, "unit price")
	f.Int64Var(&opts.Quantity, "quantity", 1, "number of units")
	f.StringVar(&opts.Customer, "customer", "", "customer name")
	f.StringVar(&opts.Phone, "phone", "", "customer phone number")
	f.StringVar(&opts.Date, "date", "", "order date, YYYY-MM-DD (default today)")
	f.StringVar(&opts.Status, "status", string(model.StatusInTransit), "in-transit|in-warehouse|delivered")
	f.StringVar(&opts.Description, "description", "", "free-form description")
	f.StringVar(&opts.Image, "image", "", "image file to attach")
}

func newOrderAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &OrderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new order",
		Long: `Record a new order. The order is filed under its customer's phone
number; the customer is created on first order.

Example:
  stockroom order add --product "Desk lamp" --price 500 --customer Aigerim --phone "+7 701 000 0000"
  stockroom order add --product Vase --price 1200 --quantity 2 --customer Li --phone 555-01 --status in-warehouse`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrderAdd(opts, cmd)
		},
	}

	bindOrderFlags(cmd, opts)
	_ = cmd.MarkFlagRequired("product")
	_ = cmd.MarkFlagRequired("customer")
	_ = cmd.MarkFlagRequired("phone")

	return cmd
}

func runOrderAdd(opts *OrderOptions, cmd *cobra.Command) error {
	return withStore(opts.RootOptions, cmd, func(ctx context.Context, e *env) error {
		fields := model.OrderFields{
			Quantity:  opts.Quantity,
			OrderDate: time.Now().Format(time.DateOnly),
		}
		if err := applyOrderFlags(opts, cmd, e, &fields); err != nil {
			return err
		}
		if err := inputs().Order(fields); err != nil {
			return invalidInput(e, err)
		}

		o, err := store.MustFromContext(ctx).AddOrder(ctx, fields)
		if err != nil {
			return persistFailed(e, err)
		}
		e.log.Debug("order added", "id", o.ID, "phone", o.PhoneNumber)
		return e.out.Success(orderDetail{o})
	})
}

// applyOrderFlags copies the flags the user set onto f. The status flag
// always applies since it has a meaningful default.
func applyOrderFlags(opts *OrderOptions, cmd *cobra.Command, e *env, f *model.OrderFields) error {
	flags := cmd.Flags()
	if flags.Changed("product") {
		f.ProductName = opts.Product
	}
	if flags.Changed("price") {
		f.Price = opts.Price
	}
	if flags.Changed("quantity") {
		f.Quantity = opts.Quantity
	}
	if flags.Changed("customer") {
		f.CustomerName = opts.Customer
	}
	if flags.Changed("phone") {
		f.PhoneNumber = opts.Phone
	}
	if flags.Changed("date") {
		f.OrderDate = opts.Date
	}
	if flags.Changed("description") {
		f.Description = opts.Description
	}
	if f.Status == "" || flags.Changed("status") {
		status, err := model.ParseStatus(opts.Status)
		if err != nil {
			return e.out.Fail(ExitFailure, ErrCodeInvalidInput, err.Error(), []string{"status"})
		}
		f.Status = status
	}
	if opts.ClearImage {
		f.ImageURL = ""
	}
	if flags.Changed("image") {
		uri, err := loadImage(e, opts.Image)
		if err != nil {
			return err
		}
		f.ImageURL = uri
	}
	return nil
}

func newOrderListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders",
		Long: `List orders, newest first.

The search term matches product or customer name (case-insensitive),
order ID, phone number or price.

Example:
  stockroom order list --status in-transit
  stockroom order list --search aigerim --sort oldest`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrderList(opts, cmd)
		},
	}

	bindListFlags(cmd, opts)
	cmd.Flags().StringVar(&opts.Status, "status", "", "only show orders with this status")

	return cmd
}

func runOrderList(opts *ListOptions, cmd *cobra.Command) error {
	order, err := view.ParseSortOrder(opts.Sort)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --sort", err)
	}
	var status model.OrderStatus
	if opts.Status != "" {
		if status, err = model.ParseStatus(opts.Status); err != nil {
			return WrapExitError(ExitCommandError, "invalid --status", err)
		}
	}

	return withStore(opts.RootOptions, cmd, func(ctx context.Context, e *env) error {
		s := store.MustFromContext(ctx)
		orders := view.SearchOrders(s.Orders(), opts.Search)
		if status != "" {
			orders = view.Filter(orders, string(status), func(o model.Order, want string) bool {
				return string(o.Status) == want
			})
		}
		mode := s.Preferences().ViewMode.Mode(model.SectionOrders)
		return e.out.Success(orderListing(view.SortOrders(orders, order), mode))
	})
}

func newOrderShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <id>",
		Short:         "Show one order",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, cmd, func(ctx context.Context, e *env) error {
				o, ok := store.MustFromContext(ctx).Order(args[0])
				if !ok {
					return notFound(e, "order", args[0])
				}
				return e.out.Success(orderDetail{o})
			})
		},
	}
}

func newOrderEditCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &OrderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an order",
		Long: `Edit an order. Only the flags given are changed.

The customer's copy of the order is updated too.

Example:
  stockroom order edit 0190a3c4-... --quantity 3 --description "gift wrap"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrderEdit(opts, args[0], cmd)
		},
	}

	bindOrderFlags(cmd, opts)
	cmd.Flags().BoolVar(&opts.ClearImage, "clear-image", false, "remove the attached image")

	return cmd
}

func runOrderEdit(opts *OrderOptions, id string, cmd *cobra.Command) error {
	return withStore(opts.RootOptions, cmd, func(ctx context.Context, e *env) error {
		s := store.MustFromContext(ctx)
		o, ok := s.Order(id)
		if !ok {
			return notFound(e, "order", id)
		}

		var dialog view.Dialog[model.Order]
		dialog.Open(o)
		dialog.Edit()

		fields := o.Fields()
		if err := applyOrderFlags(opts, cmd, e, &fields); err != nil {
			dialog.Cancel()
			return err
		}
		if err := inputs().Order(fields); err != nil {
			dialog.Cancel()
			return invalidInput(e, err)
		}
		dialog.Update(func(draft *model.Order) {
			*draft = model.NewOrder(draft.ID, draft.CreatedAt, fields)
		})

		edited, _ := dialog.Commit()
		if err := s.UpdateOrder(ctx, edited); err != nil {
			return persistFailed(e, err)
		}
		return e.out.Success(orderDetail{edited})
	})
}

func newOrderStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Move an order to another status",
		Long: `Move an order to another status. Any status may follow any other.

Statuses: in-transit, in-warehouse, delivered.

Example:
  stockroom order status 0190a3c4-... delivered`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := model.ParseStatus(args[1])
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid status", err)
			}

			return withStore(rootOpts, cmd, func(ctx context.Context, e *env) error {
				s := store.MustFromContext(ctx)
				if _, ok := s.Order(args[0]); !ok {
					return notFound(e, "order", args[0])
				}
				if err := s.UpdateOrderStatus(ctx, args[0], status); err != nil {
					return persistFailed(e, err)
				}
				o, _ := s.Order(args[0])
				return e.out.Success(orderDetail{o})
			})
		},
	}
}

func newOrderDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an order",
		Long: `Delete an order.

With the default derived customer index the order also leaves its
customer's list. With customers.indexMode=legacy the customer keeps a
stale copy, as the browser client did.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, cmd, func(ctx context.Context, e *env) error {
				if err := store.MustFromContext(ctx).DeleteOrder(ctx, args[0]); err != nil {
					return persistFailed(e, err)
				}
				return e.out.Success(actionResult{Message: "Order deleted", ID: args[0]})
			})
		},
	}
}

// LabelOptions holds flags for the order label command.
type LabelOptions struct {
	*RootOptions
	Output string
}

func newOrderLabelCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LabelOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "label <id>",
		Short: "Write a QR pickup label for an order",
		Long: `Write a QR code PNG that identifies the order at pickup.

Example:
  stockroom order label 0190a3c4-... -o pickup.png`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrderLabel(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (default <id>.png)")

	return cmd
}

func runOrderLabel(opts *LabelOptions, id string, cmd *cobra.Command) error {
	return withStore(opts.RootOptions, cmd, func(ctx context.Context, e *env) error {
		o, ok := store.MustFromContext(ctx).Order(id)
		if !ok {
			return notFound(e, "order", id)
		}

		png, err := label.New(e.cfg.Labels.Size, e.cfg.Labels.Recovery).Order(o)
		if err != nil {
			return WrapExitError(ExitFailure, "failed to render label", err)
		}

		path := opts.Output
		if path == "" {
			path = id + ".png"
		}
		if err := os.WriteFile(path, png, 0644); err != nil {
			return e.out.Fail(ExitCommandError, ErrCodeFile, fmt.Sprintf("failed to write label: %v", err), nil)
		}
		return e.out.Success(actionResult{Message: "Label written to " + path, ID: id})
	})
}
