package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/stockroom/internal/schema"
	"github.com/roach88/stockroom/internal/store"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool                     `json:"valid"`
	Products int                      `json:"products"`
	Orders   int                      `json:"orders"`
	Errors   []schema.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check an export document before importing it",
		Long: `Check a JSON export document without importing it.

Every product and order is checked against the same input rules the add
and edit commands apply, and entity IDs must be unique.

Exit codes:
  0 - Document is valid
  1 - Document has invalid entries
  2 - Document could not be read or parsed`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	doc, err := readDocument(path)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeFile, err.Error(), nil)
	}

	formatter.VerboseLog("Checking %d product(s) and %d order(s) in %s", len(doc.Products), len(doc.Orders), path)

	errs := ValidateDocument(doc)
	result := ValidationResult{
		Valid:    len(errs) == 0,
		Products: len(doc.Products),
		Orders:   len(doc.Orders),
		Errors:   errs,
	}
	if result.Valid {
		return outputValidateSuccess(formatter, result)
	}
	return outputValidationErrors(formatter, result)
}

// ValidateDocument checks every entity of doc. Field names in the returned
// errors are prefixed with the entity's position, e.g. "orders[2].status".
func ValidateDocument(doc store.Document) []schema.ValidationError {
	v := inputs()
	var out []schema.ValidationError

	collect := func(prefix string, err error) {
		if err == nil {
			return
		}
		var errs schema.Errors
		if !errors.As(err, &errs) {
			out = append(out, schema.ValidationError{Field: prefix, Message: err.Error()})
			return
		}
		for _, e := range errs {
			field := prefix
			if e.Field != "" {
				field += "." + e.Field
			}
			out = append(out, schema.ValidationError{Field: field, Message: e.Message})
		}
	}

	ids := make(map[string]string)
	checkID := func(prefix, id string) {
		if id == "" {
			out = append(out, schema.ValidationError{Field: prefix + ".id", Message: "missing id"})
			return
		}
		if first, dup := ids[id]; dup {
			out = append(out, schema.ValidationError{Field: prefix + ".id", Message: fmt.Sprintf("duplicate id %q (first used by %s)", id, first)})
			return
		}
		ids[id] = prefix
	}

	for i, p := range doc.Products {
		prefix := fmt.Sprintf("products[%d]", i)
		checkID(prefix, p.ID)
		collect(prefix, v.Product(p.Fields()))
	}
	for i, o := range doc.Orders {
		prefix := fmt.Sprintf("orders[%d]", i)
		checkID(prefix, o.ID)
		collect(prefix, v.Order(o.Fields()))
	}
	return out
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Document valid (%d products, %d orders)\n", result.Products, result.Orders)
	return nil
}

// outputValidationErrors outputs every validation error.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	errs := result.Errors
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    ErrCodeInvalidInput,
				Message: errs[0].Error(),
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, err := range errs {
		fmt.Fprintf(formatter.Writer, "  %s: %s\n", err.Field, err.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
