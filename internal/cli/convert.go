package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/stockroom/internal/currency"
)

// ConvertOptions holds flags for the convert command.
type ConvertOptions struct {
	*RootOptions
	To string
}

// Conversion is the result of one conversion.
type Conversion struct {
	Amount float64           `json:"amount"`
	From   currency.Currency `json:"from"`
	To     currency.Currency `json:"to"`
	Result float64           `json:"result"`
	Rate   float64           `json:"rate"` // KZT per CNY
}

func (c Conversion) String() string {
	return fmt.Sprintf("%s %s = %s %s",
		currency.Format(c.Amount), strings.ToUpper(string(c.From)),
		currency.Format(c.Result), strings.ToUpper(string(c.To)))
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConvertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "convert <amount>",
		Short: "Convert between yuan and tenge",
		Long: `Convert an amount between Chinese yuan (CNY) and Kazakhstani tenge (KZT)
at the configured fixed rate (currency.rate, KZT per CNY).

Example:
  stockroom convert 120             # CNY -> KZT
  stockroom convert 7800 --to cny   # KZT -> CNY`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.To, "to", string(currency.KZT), "target currency (kzt|cny)")

	return cmd
}

func runConvert(opts *ConvertOptions, arg string, cmd *cobra.Command) error {
	to, err := currency.ParseCurrency(strings.ToLower(opts.To))
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --to", err)
	}

	e, err := loadEnv(opts.RootOptions, cmd)
	if err != nil {
		return err
	}

	amount, err := currency.ParseAmount(arg)
	if err != nil {
		return e.out.Fail(ExitFailure, ErrCodeInvalidInput, err.Error(), nil)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	rates := currency.FixedRate(e.cfg.Currency.Rate)
	rate, err := rates.Rate(ctx)
	if err != nil {
		return WrapExitError(ExitFailure, "exchange rate unavailable", err)
	}
	result, err := currency.NewConverter(rates).Convert(ctx, amount, to)
	if err != nil {
		return WrapExitError(ExitFailure, "conversion failed", err)
	}

	from := currency.CNY
	if to == currency.CNY {
		from = currency.KZT
	}
	return e.out.Success(Conversion{Amount: amount, From: from, To: to, Result: result, Rate: rate})
}
