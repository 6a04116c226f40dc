package render

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/s-oshima-kops/automakedoc/internal/models"
	"github.com/s-oshima-kops/automakedoc/internal/template"
)

// serializeCSV emits one row per leaf value of the flattened section/field
// tree: list fields contribute one row per item (keyed by 1-based index),
// daily_content fields one row per day (keyed by date), every other field a
// single row. The same flattening rule backs the workbook serializer.
func serializeCSV(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"section", "field", "key", "value"}); err != nil {
		return nil, err
	}
	for _, sec := range doc.Sections {
		for _, f := range sec.Fields {
			v := f.Value
			if v.IsEmpty() {
				continue
			}
			switch v.Type {
			case template.FieldList:
				for i, item := range v.Items {
					if err := w.Write([]string{sec.Name, f.Name, strconv.Itoa(i + 1), item}); err != nil {
						return nil, err
					}
				}
			case template.FieldDailyContent:
				for _, day := range v.Days {
					if err := w.Write([]string{sec.Name, f.Name, day.Date.Format(models.DateKeyLayout), day.Body}); err != nil {
						return nil, err
					}
				}
			default:
				if err := w.Write([]string{sec.Name, f.Name, "", scalarText(v, false)}); err != nil {
					return nil, err
				}
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
