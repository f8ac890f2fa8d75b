package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/avisos/internal/app"
	"github.com/dmitrijs2005/avisos/internal/models"
	"github.com/dmitrijs2005/avisos/internal/render"
	"github.com/dmitrijs2005/avisos/internal/repositories/notes"
	"github.com/dmitrijs2005/avisos/internal/services"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid note id %q", s)
	}
	return id, nil
}

func newNotesCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "List, edit and move notes",
	}
	cmd.AddCommand(
		newNotesListCommand(opts),
		newNotesShowCommand(opts),
		newNotesCreateCommand(opts),
		newNotesUpdateCommand(opts),
		newNotesDeleteCommand(opts),
		newNotesRestoreCommand(opts),
		newNotesDestroyCommand(opts),
	)
	return cmd
}

func newNotesListCommand(opts *RootOptions) *cobra.Command {
	var (
		filter  notes.ListFilter
		deleted bool
		dtype   string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active notes, or the recycle bin with --deleted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withRuntime(cmd, func(ctx context.Context, rt *app.Runtime) error {
				var (
					ns  []models.Note
					err error
				)
				if deleted {
					var t *models.DeletionType
					if dtype != "" {
						dt, perr := models.ParseDeletionType(dtype)
						if perr != nil {
							return perr
						}
						t = &dt
					}
					ns, err = rt.Query.RecycleBin(ctx, t)
				} else {
					ns, err = rt.Query.ListNotes(ctx, filter)
				}
				if err != nil {
					return err
				}
				return render.Notes(cmd.OutOrStdout(), opts.format(), ns)
			})
		},
	}
	cmd.Flags().StringVar(&filter.Category, "category", "", "only this category")
	cmd.Flags().StringVar(&filter.Subcategory, "subcategory", "", "only this subcategory")
	cmd.Flags().BoolVar(&deleted, "deleted", false, "list the recycle bin instead")
	cmd.Flags().StringVar(&dtype, "type", "", "recycle bin deletion type (Esborrades|Finalitzades)")
	return cmd
}

func newNotesShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return opts.withRuntime(cmd, func(ctx context.Context, rt *app.Runtime) error {
				n, err := rt.Query.GetNote(ctx, id)
				if err != nil {
					return err
				}
				return render.Note(cmd.OutOrStdout(), opts.format(), n)
			})
		},
	}
}

type noteFlags struct {
	name, body, contact, category, subcategory string
	urgent                                     bool
}

func (f *noteFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "note name")
	cmd.Flags().StringVar(&f.body, "body", "", "note body")
	cmd.Flags().StringVar(&f.contact, "contact", "", "contact (empty clears it)")
	cmd.Flags().StringVar(&f.category, "category", "", "category")
	cmd.Flags().StringVar(&f.subcategory, "subcategory", "", "subcategory (empty clears it)")
	cmd.Flags().BoolVar(&f.urgent, "urgent", false, "mark as urgent")
}

// apply overlays the flags the user actually set onto d.
func (f *noteFlags) apply(cmd *cobra.Command, d models.Draft) models.Draft {
	changed := cmd.Flags().Changed
	if changed("name") {
		d.Name = f.name
	}
	if changed("body") {
		d.Body = f.body
	}
	if changed("contact") {
		d.Contact = models.StringPtr(f.contact)
	}
	if changed("category") {
		d.Category = f.category
	}
	if changed("subcategory") {
		d.Subcategory = models.StringPtr(f.subcategory)
	}
	if changed("urgent") {
		d.IsUrgent = f.urgent
	}
	return d
}

func printSave(cmd *cobra.Command, opts *RootOptions, res *services.SaveResult) error {
	out := cmd.OutOrStdout()
	if opts.format() == render.FormatJSON {
		return render.JSON(out, res)
	}
	switch {
	case res.NoOp:
		fmt.Fprintf(out, "note %d unchanged\n", res.Note.ID)
	case res.Edition > 0:
		fmt.Fprintf(out, "note %d saved as edition %d (%d change(s))\n", res.Note.ID, res.Edition, len(res.Changes))
	default:
		fmt.Fprintf(out, "note %d saved\n", res.Note.ID)
	}
	return nil
}

func newNotesCreateCommand(opts *RootOptions) *cobra.Command {
	var f noteFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withRuntime(cmd, func(ctx context.Context, rt *app.Runtime) error {
				actor, err := opts.actor(rt)
				if err != nil {
					return err
				}
				res, err := rt.Notes.Create(ctx, f.apply(cmd, models.Draft{}), actor)
				if err != nil {
					return err
				}
				return printSave(cmd, opts, res)
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newNotesUpdateCommand(opts *RootOptions) *cobra.Command {
	var f noteFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a note; only the given flags change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return opts.withRuntime(cmd, func(ctx context.Context, rt *app.Runtime) error {
				actor, err := opts.actor(rt)
				if err != nil {
					return err
				}
				cur, err := rt.Query.GetNote(ctx, id)
				if err != nil {
					return err
				}
				res, err := rt.Notes.Update(ctx, id, f.apply(cmd, cur.Draft()), actor)
				if err != nil {
					return err
				}
				return printSave(cmd, opts, res)
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newNotesDeleteCommand(opts *RootOptions) *cobra.Command {
	var dtype string
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Move a note to the recycle bin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return opts.withRuntime(cmd, func(ctx context.Context, rt *app.Runtime) error {
				n, err := rt.Lifecycle.SoftDelete(ctx, id, models.DeletionType(dtype))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "note %d moved to recycle bin (%s)\n", n.ID, dtype)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&dtype, "type", string(models.DeletionErased), "deletion type (Esborrades|Finalitzades)")
	return cmd
}

func newNotesRestoreCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id>",
		Short: "Bring a note back from the recycle bin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return opts.withRuntime(cmd, func(ctx context.Context, rt *app.Runtime) error {
				if _, err := rt.Lifecycle.Restore(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "note %d restored\n", id)
				return nil
			})
		},
	}
}

func newNotesDestroyCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "destroy <id>",
		Short: "Permanently delete a note from the recycle bin, with its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return opts.withRuntime(cmd, func(ctx context.Context, rt *app.Runtime) error {
				if err := rt.Lifecycle.PermanentlyDelete(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "note %d permanently deleted\n", id)
				return nil
			})
		},
	}
}
