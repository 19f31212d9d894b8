package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/stockroom/internal/model"
	"github.com/roach88/stockroom/internal/store"
)

// NewSettingsCommand creates the settings command group.
func NewSettingsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show and change display preferences",
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "show",
		Short:         "Show preferences",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, cmd, func(ctx context.Context, e *env) error {
				return e.out.Success(preferencesView{store.MustFromContext(ctx).Preferences()})
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "dark-mode",
		Short:         "Toggle dark mode",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return updatePreferences(rootOpts, cmd, func(ctx context.Context, s *store.Store) error {
				_, err := s.ToggleDarkMode(ctx)
				return err
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "view-mode <products|orders> <list|grid>",
		Short: "Set how a section is listed",
		Long: `Set how a section is listed: as a table (list) or as cards (grid).

Example:
  stockroom settings view-mode orders list`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			section, err := model.ParseSection(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid section", err)
			}
			mode, err := model.ParseDisplayMode(args[1])
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid view mode", err)
			}
			return updatePreferences(rootOpts, cmd, func(ctx context.Context, s *store.Store) error {
				return s.SetViewMode(ctx, section, mode)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "converter",
		Short:         "Toggle the currency converter",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return updatePreferences(rootOpts, cmd, func(ctx context.Context, s *store.Store) error {
				_, err := s.ToggleConverter(ctx)
				return err
			})
		},
	})

	return cmd
}

// updatePreferences applies fn and prints the resulting preferences.
func updatePreferences(rootOpts *RootOptions, cmd *cobra.Command, fn func(context.Context, *store.Store) error) error {
	return withStore(rootOpts, cmd, func(ctx context.Context, e *env) error {
		s := store.MustFromContext(ctx)
		if err := fn(ctx, s); err != nil {
			return persistFailed(e, err)
		}
		return e.out.Success(preferencesView{s.Preferences()})
	})
}
