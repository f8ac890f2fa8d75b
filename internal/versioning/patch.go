package versioning

import (
	"fmt"

	"github.com/dmitrijs2005/avisos/internal/models"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// TextPatch renders a diff-match-patch patch turning old into new.
// It returns "" when the texts are equal.
func TextPatch(old, new string) string {
	if old == new {
		return ""
	}
	dmp := diffmatchpatch.New()
	return dmp.PatchToText(dmp.PatchMake(old, new))
}

// ApplyPatch applies a patch produced by TextPatch to text.
func ApplyPatch(text, patch string) (string, error) {
	if patch == "" {
		return text, nil
	}
	dmp := diffmatchpatch.New()
	patches, err := dmp.PatchFromText(patch)
	if err != nil {
		return "", fmt.Errorf("parse patch: %w", err)
	}
	out, applied := dmp.PatchApply(patches, text)
	for i, ok := range applied {
		if !ok {
			return "", fmt.Errorf("patch hunk %d did not apply", i)
		}
	}
	return out, nil
}

// InlineDiff renders old→new as text with deletions in [-...-] and
// insertions in {+...+}.
func InlineDiff(old, new string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(old, new, false))
	var out []byte
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			out = append(out, "[-"+d.Text+"-]"...)
		case diffmatchpatch.DiffInsert:
			out = append(out, "{+"+d.Text+"+}"...)
		default:
			out = append(out, d.Text...)
		}
	}
	return string(out)
}

// IsTextField reports whether field holds free text worth patching.
func IsTextField(field string) bool {
	return field == models.FieldName || field == models.FieldBody
}
