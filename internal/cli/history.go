package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/avisos/internal/app"
	"github.com/dmitrijs2005/avisos/internal/models"
	"github.com/dmitrijs2005/avisos/internal/render"
	"github.com/dmitrijs2005/avisos/internal/repositories/history"
)

func newHistoryCommand(opts *RootOptions) *cobra.Command {
	var (
		user    string
		edition int64
	)
	cmd := &cobra.Command{
		Use:   "history <id>",
		Short: "Show the edit history of a note",
		Long: `Show the field-level edit history of a note grouped by edition.

Examples:
  avisos history 12
  avisos history 12 --user Joan --format md
  avisos history 12 --edition 3 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return opts.withRuntime(cmd, func(ctx context.Context, rt *app.Runtime) error {
				out := cmd.OutOrStdout()
				if edition > 0 {
					d, err := rt.Query.Edition(ctx, id, edition)
					if err != nil {
						return err
					}
					if opts.format() == render.FormatJSON {
						return render.JSON(out, d)
					}
					entries := make([]models.EditHistoryEntry, len(d.Changes))
					for i, c := range d.Changes {
						entries[i] = c.EditHistoryEntry
					}
					return render.History(out, opts.format(), entries)
				}

				var q history.Query
				if user != "" {
					by := user
					if canon, err := rt.Users.Resolve(user); err == nil {
						by = canon
					}
					q.ModifiedBy = &by
				}
				es, err := rt.Query.History(ctx, id, q)
				if err != nil {
					return err
				}
				return render.History(out, opts.format(), es)
			})
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "only edits by this user")
	cmd.Flags().Int64Var(&edition, "edition", 0, "show a single edition with text patches (json)")
	return cmd
}

func newEditionsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "editions <id>",
		Short: "List the editions of a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return opts.withRuntime(cmd, func(ctx context.Context, rt *app.Runtime) error {
				eds, err := rt.Query.Editions(ctx, id)
				if err != nil {
					return err
				}
				return render.Editions(cmd.OutOrStdout(), opts.format(), eds)
			})
		},
	}
}
