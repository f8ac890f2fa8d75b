// Package render formats notes and their edit history for terminal output.
package render

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/avisos/internal/models"
	"github.com/dmitrijs2005/avisos/internal/timex"
)

type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatMarkdown:
		return f, nil
	case "":
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown format %q (want text, json or md)", s)
}

const timeLayout = "2006-01-02 15:04:05"

func stamp(ms int64) string { return timex.FromMillis(ms).Format(timeLayout) }

func orNone(p *string) string {
	if p == nil {
		return "-"
	}
	return *p
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Edition groups the entries of one save.
type Edition struct {
	Number     int64                     `json:"edition"`
	Timestamp  int64                     `json:"timestamp"`
	ModifiedBy *string                   `json:"modified_by"`
	Changes    []models.EditHistoryEntry `json:"changes"`
}

// GroupEditions groups entries by edition, newest edition first and each
// edition's changes oldest first.
func GroupEditions(entries []models.EditHistoryEntry) []Edition {
	byNum := map[int64]*Edition{}
	var order []int64
	for _, e := range entries {
		ed, ok := byNum[e.EditionNumber]
		if !ok {
			ed = &Edition{Number: e.EditionNumber, Timestamp: e.Timestamp, ModifiedBy: e.ModifiedBy}
			byNum[e.EditionNumber] = ed
			order = append(order, e.EditionNumber)
		}
		ed.Changes = append(ed.Changes, e)
	}

	slices.Sort(order)
	slices.Reverse(order)
	out := make([]Edition, len(order))
	for i, n := range order {
		ed := byNum[n]
		slices.SortFunc(ed.Changes, func(a, b models.EditHistoryEntry) int {
			return cmp.Compare(a.ID, b.ID)
		})
		out[i] = *ed
	}
	return out
}

// History writes entries grouped by edition.
func History(w io.Writer, f Format, entries []models.EditHistoryEntry) error {
	eds := GroupEditions(entries)
	switch f {
	case FormatJSON:
		return JSON(w, eds)
	case FormatMarkdown:
		return historyMarkdown(w, eds)
	default:
		return historyText(w, eds)
	}
}

func historyText(w io.Writer, eds []Edition) error {
	if len(eds) == 0 {
		_, err := fmt.Fprintln(w, "no history")
		return err
	}
	for i, ed := range eds {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "edition %d  %s  %s\n", ed.Number, stamp(ed.Timestamp), orNone(ed.ModifiedBy))
		for _, c := range ed.Changes {
			if _, err := fmt.Fprintf(w, "  %s: %s -> %s\n", c.FieldName, quoted(c.OldValue), quoted(c.NewValue)); err != nil {
				return err
			}
		}
	}
	return nil
}

func quoted(p *string) string {
	if p == nil {
		return "(empty)"
	}
	return strconv.Quote(*p)
}

var mdEscaper = strings.NewReplacer("|", `\|`, "\n", "<br>")

func historyMarkdown(w io.Writer, eds []Edition) error {
	if len(eds) == 0 {
		_, err := fmt.Fprintln(w, "_No history._")
		return err
	}
	for i, ed := range eds {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "## Edition %d\n\n", ed.Number)
		fmt.Fprintf(w, "_%s UTC by %s_\n\n", stamp(ed.Timestamp), orNone(ed.ModifiedBy))
		fmt.Fprintln(w, "| Field | Before | After |")
		fmt.Fprintln(w, "|---|---|---|")
		for _, c := range ed.Changes {
			if _, err := fmt.Fprintf(w, "| %s | %s | %s |\n", c.FieldName,
				mdEscaper.Replace(models.Deref(c.OldValue)), mdEscaper.Replace(models.Deref(c.NewValue))); err != nil {
				return err
			}
		}
	}
	return nil
}

// Editions writes the grouped-by-edition summary.
func Editions(w io.Writer, f Format, eds []models.EditionSummary) error {
	if f == FormatJSON {
		return JSON(w, eds)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "EDITION\tWHEN\tBY\tCHANGES")
	for _, e := range eds {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", e.EditionNumber, stamp(e.Timestamp), orNone(e.ModifiedBy), e.Changes)
	}
	return tw.Flush()
}

// Notes writes a one-line-per-note listing.
func Notes(w io.Writer, f Format, ns []models.Note) error {
	if f == FormatJSON {
		return JSON(w, ns)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCATEGORY\tURGENT\tMODIFIED\tNAME")
	for _, n := range ns {
		cat := n.Category
		if n.Subcategory != nil {
			cat += "/" + *n.Subcategory
		}
		urgent := ""
		if n.IsUrgent {
			urgent = "!"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", n.ID, cat, urgent, stamp(n.ModifiedDate), n.Name)
	}
	return tw.Flush()
}

// Note writes one note in full.
func Note(w io.Writer, f Format, n *models.Note) error {
	if f == FormatJSON {
		return JSON(w, n)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "id:\t%d\n", n.ID)
	fmt.Fprintf(tw, "name:\t%s\n", n.Name)
	fmt.Fprintf(tw, "category:\t%s\n", n.Category)
	fmt.Fprintf(tw, "subcategory:\t%s\n", orNone(n.Subcategory))
	fmt.Fprintf(tw, "contact:\t%s\n", orNone(n.Contact))
	fmt.Fprintf(tw, "urgent:\t%s\n", models.UrgentValue(n.IsUrgent))
	fmt.Fprintf(tw, "author:\t%s\n", orNone(n.Author))
	fmt.Fprintf(tw, "created:\t%s\n", stamp(n.CreatedDate))
	fmt.Fprintf(tw, "modified:\t%s\n", stamp(n.ModifiedDate))
	if n.IsDeleted && n.DeletedDate != nil && n.DeletionType != nil {
		fmt.Fprintf(tw, "deleted:\t%s (%s)\n", stamp(*n.DeletedDate), *n.DeletionType)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%s\n", n.Body)
	return err
}
