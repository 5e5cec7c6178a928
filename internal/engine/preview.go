package engine

import (
	"strings"

	"github.com/sells-group/pagegen-cli/internal/assemble"
	"github.com/sells-group/pagegen-cli/internal/model"
	"github.com/sells-group/pagegen-cli/internal/varspace"
)

// PreviewItem is one row of a dry-run listing.
type PreviewItem struct {
	Index          int64  `json:"index"`
	CombinationKey string `json:"combination_key"`
	Title          string `json:"title"`
	Slug           string `json:"slug"`
}

// Preview lists the titles and slugs a slice of the combination space would
// produce, in the same order Generate would process it. No enrichment, AI
// calls or persistence happen; metric placeholders in the title template
// are left as-is.
func (e *Engine) Preview(tmpl *model.Template, set *model.VariableSet, offset, limit int64) ([]PreviewItem, int64, error) {
	space, err := varspace.New(tmpl, set)
	if err != nil {
		return nil, 0, err
	}

	combos := space.Iterate(offset, limit)
	items := make([]PreviewItem, 0, len(combos))
	for i, c := range combos {
		title := previewTitle(tmpl, c)
		items = append(items, PreviewItem{
			Index:          offset + int64(i),
			CombinationKey: c.Key(),
			Title:          title,
			Slug:           assemble.Slug(title, 0),
		})
	}
	return items, space.Size(), nil
}

func previewTitle(tmpl *model.Template, c model.Combination) string {
	pairs := make([]string, 0, (len(c)+1)*2)
	vals := make([]string, 0, len(tmpl.Variables))
	for _, v := range tmpl.Variables {
		if val, ok := c[v]; ok {
			pairs = append(pairs, "{"+v+"}", val)
			vals = append(vals, val)
		}
	}
	pairs = append(pairs, "{values}", strings.Join(vals, ", "))
	return strings.NewReplacer(pairs...).Replace(tmpl.TitleTemplate)
}
