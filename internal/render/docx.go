package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/s-oshima-kops/automakedoc/internal/models"
	"github.com/s-oshima-kops/automakedoc/internal/template"
)

// serializeDocx writes a word-processor document: the report title and
// section titles as emphasized headings, fields as paragraphs, lists as
// bulleted lines.
func serializeDocx(doc *Document) ([]byte, error) {
	w := docx.New().WithDefaultTheme()

	w.AddParagraph().AddText(doc.Title).Size("32").Bold()
	w.AddParagraph().AddText(fmt.Sprintf("期間: %s 〜 %s",
		doc.Start.Format(models.DateKeyLayout), doc.End.Format(models.DateKeyLayout)))
	w.AddParagraph().AddText("作成日時: " + models.FormatDateTimeJa(doc.GeneratedAt))
	w.AddParagraph()

	for _, sec := range doc.Sections {
		w.AddParagraph().AddText(sec.Title).Size("26").Bold()
		for _, f := range sec.Fields {
			v := f.Value
			if v.IsEmpty() {
				continue
			}
			switch v.Type {
			case template.FieldList:
				w.AddParagraph().AddText(f.Name + ":")
				for _, item := range v.Items {
					w.AddParagraph().AddText("・" + item)
				}
			case template.FieldSummary:
				w.AddParagraph().AddText(f.Name + ":")
				for _, line := range strings.Split(scalarText(v, true), "\n") {
					w.AddParagraph().AddText(line)
				}
			case template.FieldDailyContent:
				w.AddParagraph().AddText(f.Name + ":")
				for _, day := range v.Days {
					w.AddParagraph().AddText("【" + models.FormatDateJa(day.Date) + "】").Bold()
					for _, line := range strings.Split(day.Body, "\n") {
						w.AddParagraph().AddText(line)
					}
				}
			default:
				w.AddParagraph().AddText(f.Name + ": " + scalarText(v, true))
			}
		}
		w.AddParagraph()
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("render: docx write: %w", err)
	}
	return buf.Bytes(), nil
}
