package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/avisos/internal/models"
)

const base int64 = 1705276800000

func sp(s string) *string { return &s }

// fixture is a note history as the store returns it, newest entry first.
func fixture() []models.EditHistoryEntry {
	return []models.EditHistoryEntry{
		{ID: 3, NoteID: 7, FieldName: models.FieldContact, NewValue: sp("600 000 000"),
			Timestamp: base + 2000, ModifiedBy: sp("Isa"), EditionNumber: 2},
		{ID: 2, NoteID: 7, FieldName: models.FieldBody, OldValue: sp("leak"), NewValue: sp("leak | under\nthe sink"),
			Timestamp: base + 2000, ModifiedBy: sp("Isa"), EditionNumber: 2},
		{ID: 1, NoteID: 7, FieldName: models.FieldName, OldValue: sp("Call plumber"), NewValue: sp("Call the plumber"),
			Timestamp: base + 1000, ModifiedBy: sp("Joan"), EditionNumber: 1},
	}
}

func golden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestHistory_Golden(t *testing.T) {
	for name, f := range map[string]Format{"history_text": FormatText, "history_md": FormatMarkdown} {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, History(&buf, f, fixture()))
			golden(t).Assert(t, name, buf.Bytes())
		})
	}
}

func TestEditions_Golden(t *testing.T) {
	eds := []models.EditionSummary{
		{NoteID: 7, EditionNumber: 2, Timestamp: base + 2000, ModifiedBy: sp("Isa"), Changes: 2},
		{NoteID: 7, EditionNumber: 1, Timestamp: base + 1000, ModifiedBy: sp("Joan"), Changes: 1},
	}
	var buf bytes.Buffer
	require.NoError(t, Editions(&buf, FormatText, eds))
	golden(t).Assert(t, "editions_text", buf.Bytes())
}

func TestHistory_JSONGroupsByEdition(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, History(&buf, FormatJSON, fixture()))

	var got []Edition
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.EqualValues(t, 2, got[0].Number)
	require.Len(t, got[0].Changes, 2)
	assert.EqualValues(t, 2, got[0].Changes[0].ID)
	assert.Nil(t, got[0].Changes[1].OldValue)
}

func TestHistory_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, History(&buf, FormatText, nil))
	assert.Equal(t, "no history\n", buf.String())

	buf.Reset()
	require.NoError(t, History(&buf, FormatJSON, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestNote(t *testing.T) {
	dt := models.DeletionFinished
	deleted := base + 5000
	n := &models.Note{
		ID: 7, Name: "Call plumber", Body: "leak", Category: models.CategoryTrucar,
		CreatedDate: base, ModifiedDate: base, IsUrgent: true, Author: sp("Isa"),
		IsDeleted: true, DeletedDate: &deleted, DeletionType: &dt,
	}
	var buf bytes.Buffer
	require.NoError(t, Note(&buf, FormatText, n))
	out := buf.String()
	assert.Contains(t, out, "urgent:      Yes")
	assert.Contains(t, out, "deleted:     2024-01-15 00:00:05 (Finalitzades)")
	assert.True(t, strings.HasSuffix(out, "\nleak\n"))
}

func TestNotes(t *testing.T) {
	ns := []models.Note{
		{ID: 1, Name: "Gas", Category: models.CategoryFactures, Subcategory: sp(models.SubPerPagar), ModifiedDate: base, IsUrgent: true},
		{ID: 2, Name: "Bread", Category: models.CategoryCompra, ModifiedDate: base},
	}
	var buf bytes.Buffer
	require.NoError(t, Notes(&buf, FormatText, ns))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "Factures/Per pagar")
	assert.Contains(t, lines[1], "!")
	assert.True(t, strings.HasSuffix(lines[2], "Bread"))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	f, err = ParseFormat("MD")
	require.NoError(t, err)
	assert.Equal(t, FormatMarkdown, f)

	_, err = ParseFormat("yaml")
	assert.Error(t, err)
}
