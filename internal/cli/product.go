package cli

import (
	"context"
	"errors"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/stockroom/internal/media"
	"github.com/roach88/stockroom/internal/model"
	"github.com/roach88/stockroom/internal/schema"
	"github.com/roach88/stockroom/internal/store"
	"github.com/roach88/stockroom/internal/view"
)

// ProductOptions holds flags shared by product add and product edit.
type ProductOptions struct {
	*RootOptions
	Name        string
	Price       float64
	Quantity    int64
	Description string
	Image       string // path to an image file
	ClearImage  bool
}

// ListOptions holds flags for the list subcommands.
type ListOptions struct {
	*RootOptions
	Search string
	Sort   string // "newest" | "oldest"
	Status string // orders only
}

// NewProductCommand creates the product command group.
func NewProductCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Manage products in stock",
	}

	cmd.AddCommand(newProductAddCommand(rootOpts))
	cmd.AddCommand(newProductListCommand(rootOpts))
	cmd.AddCommand(newProductShowCommand(rootOpts))
	cmd.AddCommand(newProductEditCommand(rootOpts))
	cmd.AddCommand(newProductSetQuantityCommand(rootOpts))
	cmd.AddCommand(newProductDeleteCommand(rootOpts))

	return cmd
}

func bindProductFlags(cmd *cobra.Command, opts *ProductOptions) {
	f := cmd.Flags()
	f.StringVar(&opts.Name, "name", "", "product name")
	f.Float64Var(&opts.Price, "price", 0, "unit price")
	f.Int64Var(&opts.Quantity, "quantity", 0, "units in stock")
	f.StringVar(&opts.Description, "description", "", "free-form description")
	f.StringVar(&opts.Image, "image", "", "image file to attach")
}

func newProductAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProductOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product",
		Long: `Add a product to the inventory.

Example:
  stockroom product add --name "Desk lamp" --price 500 --quantity 10
  stockroom product add --name Vase --price 1200 --quantity 2 --image vase.jpg`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProductAdd(opts, cmd)
		},
	}

	bindProductFlags(cmd, opts)
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func runProductAdd(opts *ProductOptions, cmd *cobra.Command) error {
	return withStore(opts.RootOptions, cmd, func(ctx context.Context, e *env) error {
		var fields model.ProductFields
		if err := applyProductFlags(opts, cmd, e, &fields); err != nil {
			return err
		}
		if err := inputs().Product(fields); err != nil {
			return invalidInput(e, err)
		}

		p, err := store.MustFromContext(ctx).AddProduct(ctx, fields)
		if err != nil {
			return persistFailed(e, err)
		}
		e.log.Debug("product added", "id", p.ID)
		return e.out.Success(productDetail{p})
	})
}

// applyProductFlags copies the flags the user set onto f.
func applyProductFlags(opts *ProductOptions, cmd *cobra.Command, e *env, f *model.ProductFields) error {
	flags := cmd.Flags()
	if flags.Changed("name") {
		f.Name = opts.Name
	}
	if flags.Changed("price") {
		f.Price = opts.Price
	}
	if flags.Changed("quantity") {
		f.Quantity = opts.Quantity
	}
	if flags.Changed("description") {
		f.Description = opts.Description
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

func loadImage(e *env, path string) (string, error) {
	uri, err := media.LoadImage(path, e.cfg.Images.MaxKB)
	switch {
	case err == nil:
		return uri, nil
	case errors.Is(err, media.ErrImageTooLarge), errors.Is(err, media.ErrNotImage):
		return "", e.out.Fail(ExitFailure, ErrCodeInvalidInput, err.Error(), map[string]string{"image": path})
	default:
		return "", e.out.Fail(ExitCommandError, ErrCodeFile, err.Error(), nil)
	}
}

// invalidInput reports input rejected by the schema.
func invalidInput(e *env, err error) error {
	var errs schema.Errors
	if errors.As(err, &errs) {
		return e.out.Fail(ExitFailure, ErrCodeInvalidInput, errs.Error(), errs.Fields())
	}
	return e.out.Fail(ExitFailure, ErrCodeInvalidInput, err.Error(), nil)
}

func bindListFlags(cmd *cobra.Command, opts *ListOptions) {
	cmd.Flags().StringVarP(&opts.Search, "search", "s", "", "only show entries matching the term")
	cmd.Flags().StringVar(&opts.Sort, "sort", string(view.Newest), "sort by creation time (newest|oldest)")
}

func newProductListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Long: `List products, newest first.

Products are shown as a table or as cards depending on the view mode
setting (see "stockroom settings view-mode").

Example:
  stockroom product list --search lamp --sort oldest`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProductList(opts, cmd)
		},
	}

	bindListFlags(cmd, opts)

	return cmd
}

func runProductList(opts *ListOptions, cmd *cobra.Command) error {
	order, err := view.ParseSortOrder(opts.Sort)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --sort", err)
	}

	return withStore(opts.RootOptions, cmd, func(ctx context.Context, e *env) error {
		s := store.MustFromContext(ctx)
		products := view.SortProducts(view.SearchProducts(s.Products(), opts.Search), order)
		mode := s.Preferences().ViewMode.Mode(model.SectionProducts)
		return e.out.Success(productListing(products, mode))
	})
}

func newProductShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <id>",
		Short:         "Show one product",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, cmd, func(ctx context.Context, e *env) error {
				p, ok := store.MustFromContext(ctx).Product(args[0])
				if !ok {
					return notFound(e, "product", args[0])
				}
				return e.out.Success(productDetail{p})
			})
		},
	}
}

func newProductEditCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProductOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a product",
		Long: `Edit a product. Only the flags given are changed.

Example:
  stockroom product edit 0190a3c4-... --price 450 --description "on sale"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProductEdit(opts, args[0], cmd)
		},
	}

	bindProductFlags(cmd, opts)
	cmd.Flags().BoolVar(&opts.ClearImage, "clear-image", false, "remove the attached image")

	return cmd
}

func runProductEdit(opts *ProductOptions, id string, cmd *cobra.Command) error {
	return withStore(opts.RootOptions, cmd, func(ctx context.Context, e *env) error {
		s := store.MustFromContext(ctx)
		p, ok := s.Product(id)
		if !ok {
			return notFound(e, "product", id)
		}

		var dialog view.Dialog[model.Product]
		dialog.Open(p)
		dialog.Edit()

		fields := p.Fields()
		if err := applyProductFlags(opts, cmd, e, &fields); err != nil {
			dialog.Cancel()
			return err
		}
		if err := inputs().Product(fields); err != nil {
			dialog.Cancel()
			return invalidInput(e, err)
		}
		dialog.Update(func(draft *model.Product) {
			*draft = model.NewProduct(draft.ID, draft.CreatedAt, fields)
		})

		edited, _ := dialog.Commit()
		if err := s.UpdateProduct(ctx, edited); err != nil {
			return persistFailed(e, err)
		}
		return e.out.Success(productDetail{edited})
	})
}

func newProductSetQuantityCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set-quantity <id> <quantity>",
		Short: "Set the stock quantity of a product",
		Long: `Set the stock quantity of a product.

Example:
  stockroom product set-quantity 0190a3c4-... 7`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid quantity", err)
			}

			return withStore(rootOpts, cmd, func(ctx context.Context, e *env) error {
				if err := inputs().Quantity(qty); err != nil {
					return invalidInput(e, err)
				}
				s := store.MustFromContext(ctx)
				if _, ok := s.Product(args[0]); !ok {
					return notFound(e, "product", args[0])
				}
				if err := s.UpdateProductQuantity(ctx, args[0], qty); err != nil {
					return persistFailed(e, err)
				}
				p, _ := s.Product(args[0])
				return e.out.Success(productDetail{p})
			})
		},
	}
}

func newProductDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <id>",
		Short:         "Delete a product",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, cmd, func(ctx context.Context, e *env) error {
				if err := store.MustFromContext(ctx).DeleteProduct(ctx, args[0]); err != nil {
					return persistFailed(e, err)
				}
				return e.out.Success(actionResult{Message: "Product deleted", ID: args[0]})
			})
		},
	}
}
