package diag

import (
	"fmt"
	"strings"

	"github.com/tidwall/sjson"
)

// Render produces a human-readable multi-line report, one diagnostic
// per paragraph, source-location-prefixed.
func Render(b *Bag) string {
	var sb strings.Builder
	for _, d := range b.All() {
		fmt.Fprintf(&sb, "%s: %s [%s] %s\n", d.Span.String(), d.Code, d.Kind, d.Message)
		for _, n := range d.Notes {
			fmt.Fprintf(&sb, "    note: %s\n", n)
		}
	}
	sb.WriteString(Summary(b))
	sb.WriteString("\n")
	return sb.String()
}

// RenderJSON serializes the bag to a JSON array, built incrementally
// with sjson so each Diagnostic's Notes slice round-trips as a proper
// JSON array rather than a Go-formatted string.
func RenderJSON(b *Bag) (string, error) {
	doc := "[]"
	var err error
	for i, d := range b.All() {
		base := fmt.Sprintf("%d", i)
		doc, err = sjson.Set(doc, base+".kind", string(d.Kind))
		if err != nil {
			return "", err
		}
		doc, err = sjson.Set(doc, base+".code", d.Code)
		if err != nil {
			return "", err
		}
		doc, err = sjson.Set(doc, base+".message", d.Message)
		if err != nil {
			return "", err
		}
		doc, err = sjson.Set(doc, base+".span", d.Span.String())
		if err != nil {
			return "", err
		}
		for _, n := range d.Notes {
			doc, err = sjson.SetRaw(doc, base+".notes.-1", fmt.Sprintf("%q", n))
			if err != nil {
				return "", err
			}
		}
	}
	return doc, nil
}
