package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/stockroom/internal/store"
)

// TransferSummary reports what an export or import moved.
type TransferSummary struct {
	Path      string `json:"path,omitempty"`
	Products  int    `json:"products"`
	Orders    int    `json:"orders"`
	Customers int    `json:"customers"`
}

func (t TransferSummary) String() string {
	return fmt.Sprintf("%d products, %d orders, %d customers (%s)", t.Products, t.Orders, t.Customers, t.Path)
}

func summarizeDocument(path string, doc store.Document) TransferSummary {
	return TransferSummary{
		Path:      path,
		Products:  len(doc.Products),
		Orders:    len(doc.Orders),
		Customers: len(doc.Customers),
	}
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Export all data as JSON",
		Long: `Export products, orders, customers and preferences as one JSON
document. Without a file argument the document is written to stdout.

Example:
  stockroom export backup.json
  stockroom export | jq '.orders | length'`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, cmd, func(ctx context.Context, e *env) error {
				doc := store.MustFromContext(ctx).Export()
				data, err := json.MarshalIndent(doc, "", "  ")
				if err != nil {
					return WrapExitError(ExitFailure, "failed to encode export", err)
				}

				if len(args) == 0 {
					_, err := fmt.Fprintln(cmd.OutOrStdout(), string(data))
					return err
				}
				if err := os.WriteFile(args[0], append(data, '\n'), 0644); err != nil {
					return e.out.Fail(ExitCommandError, ErrCodeFile, fmt.Sprintf("failed to write %s: %v", args[0], err), nil)
				}
				return e.out.Success(summarizeDocument(args[0], doc))
			})
		},
	}
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all data from a JSON export",
		Long: `Replace all products, orders and customers with the contents of a
JSON document written by "stockroom export". Preferences are replaced only
when the document carries them.

Run "stockroom validate <file>" first to check the document.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}
			return withStore(rootOpts, cmd, func(ctx context.Context, e *env) error {
				s := store.MustFromContext(ctx)
				if err := s.Import(ctx, doc); err != nil {
					return persistFailed(e, err)
				}
				e.log.Info("imported document", "path", args[0])
				return e.out.Success(summarizeDocument(args[0], s.Export()))
			})
		},
	}
}

func readDocument(path string) (store.Document, error) {
	var doc store.Document
	data, err := os.ReadFile(path)
	if err != nil {
		return doc, WrapExitError(ExitCommandError, "failed to read document", err)
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, WrapExitError(ExitCommandError, fmt.Sprintf("failed to parse %s", path), err)
	}
	return doc, nil
}
