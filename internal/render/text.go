package render

import (
	"fmt"
	"strings"

	"github.com/s-oshima-kops/automakedoc/internal/models"
	"github.com/s-oshima-kops/automakedoc/internal/template"
)

// scalarText renders a scalar value. Japanese date conventions apply to the
// prose formats (text, docx); the tabular formats use ISO dates.
func scalarText(v Value, japanese bool) string {
	switch v.Type {
	case template.FieldDate:
		if v.Time.IsZero() {
			return v.Text
		}
		if japanese {
			return models.FormatDateJa(v.Time)
		}
		return v.Time.Format(models.DateKeyLayout)
	case template.FieldDateTime:
		if v.Time.IsZero() {
			return v.Text
		}
		if japanese {
			return models.FormatDateTimeJa(v.Time)
		}
		return v.Time.Format("2006-01-02 15:04")
	case template.FieldSummary:
		if len(v.Items) == 0 {
			return v.Text
		}
		return strings.Join(v.Items, "\n")
	default:
		return v.Text
	}
}

// serializeText renders sections and fields as headed paragraphs.
func serializeText(doc *Document) ([]byte, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n", doc.Title)
	fmt.Fprintf(&b, "期間: %s 〜 %s\n", doc.Start.Format(models.DateKeyLayout), doc.End.Format(models.DateKeyLayout))
	fmt.Fprintf(&b, "作成日時: %s\n\n", models.FormatDateTimeJa(doc.GeneratedAt))

	for _, sec := range doc.Sections {
		fmt.Fprintf(&b, "## %s\n\n", sec.Title)
		for _, f := range sec.Fields {
			v := f.Value
			if v.IsEmpty() {
				continue
			}
			switch v.Type {
			case template.FieldList:
				fmt.Fprintf(&b, "%s:\n", f.Name)
				for _, item := range v.Items {
					fmt.Fprintf(&b, "・%s\n", item)
				}
				b.WriteString("\n")
			case template.FieldSummary:
				fmt.Fprintf(&b, "%s:\n%s\n\n", f.Name, scalarText(v, true))
			case template.FieldDailyContent:
				fmt.Fprintf(&b, "%s:\n", f.Name)
				for _, day := range v.Days {
					fmt.Fprintf(&b, "【%s】\n%s\n\n", models.FormatDateJa(day.Date), day.Body)
				}
			default:
				fmt.Fprintf(&b, "%s: %s\n\n", f.Name, scalarText(v, true))
			}
		}
	}
	return []byte(b.String()), nil
}
