package cli

import (
	"fmt"

	"github.com/alexanderramin/aiscribe/internal/cli/formatter"
	"github.com/alexanderramin/aiscribe/internal/service"
	"github.com/spf13/cobra"
)

func newHistoryCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"hist"},
		Short:   "Browse archived refinements",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistoryList(cmd, app, limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of refinements to show (0 for all)")

	cmd.AddCommand(
		newHistoryListCmd(app),
		newHistoryShowCmd(app),
		newHistoryDeleteCmd(app),
	)

	return cmd
}

func historyOf(app *App) (service.HistoryService, error) {
	if app.History == nil {
		return nil, errHistoryDisabled
	}
	return app.History, nil
}

func newHistoryListCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List recent refinements, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistoryList(cmd, app, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of refinements to show (0 for all)")
	return cmd
}

func runHistoryList(cmd *cobra.Command, app *App, limit int) error {
	hist, err := historyOf(app)
	if err != nil {
		return err
	}
	if limit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}
	items, err := hist.List(cmd.Context(), limit)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHistoryList(items))
	return nil
}

func newHistoryShowCmd(app *App) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one refinement with its full transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hist, err := historyOf(app)
			if err != nil {
				return err
			}
			ref, err := hist.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !plain && app.interactive() {
				return runTranscriptView(cmd.Context(), ref)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRefinementDetail(ref))
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Print the refinement instead of opening the pager")
	return cmd
}

func newHistoryDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an archived refinement",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hist, err := historyOf(app)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			ref, err := hist.Get(ctx, args[0])
			if err != nil {
				return err
			}

			if !yes {
				if !app.interactive() {
					return fmt.Errorf("refusing to delete %s without --yes", ref.ShortID())
				}
				ok, err := huhAsker{}.Confirm(ctx, fmt.Sprintf("Delete refinement %s (%s)?", ref.ShortID(), formatter.Truncate(ref.Theme, 40)))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Cancelled."))
					return nil
				}
			}

			if err := hist.Delete(ctx, ref.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", ref.ShortID())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking for confirmation")
	return cmd
}
