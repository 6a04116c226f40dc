package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/s-oshima-kops/automakedoc/internal/models"
	"github.com/s-oshima-kops/automakedoc/internal/template"
)

const sheetName = "Report"

// serializeXLSX writes a single-sheet workbook: sections as blank-row
// separated groups, field labels in column A, values in column B. Leaf
// flattening matches the CSV serializer.
func serializeXLSX(doc *Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("render: xlsx: %w", err)
	}
	_ = f.SetColWidth(sheetName, "A", "A", 24)
	_ = f.SetColWidth(sheetName, "B", "B", 80)

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("render: xlsx style: %w", err)
	}

	row := 1
	set := func(col string, style int, value string) {
		cell := fmt.Sprintf("%s%d", col, row)
		_ = f.SetCellValue(sheetName, cell, value)
		if style != 0 {
			_ = f.SetCellStyle(sheetName, cell, cell, style)
		}
	}

	set("A", bold, doc.Title)
	row++
	set("A", 0, "期間")
	set("B", 0, doc.Start.Format(models.DateKeyLayout)+" 〜 "+doc.End.Format(models.DateKeyLayout))
	row++
	set("A", 0, "作成日時")
	set("B", 0, doc.GeneratedAt.Format("2006-01-02 15:04"))
	row += 2

	for _, sec := range doc.Sections {
		set("A", bold, sec.Title)
		row++
		for _, fld := range sec.Fields {
			v := fld.Value
			if v.IsEmpty() {
				continue
			}
			switch v.Type {
			case template.FieldList:
				for i, item := range v.Items {
					if i == 0 {
						set("A", 0, fld.Name)
					}
					set("B", 0, item)
					row++
				}
			case template.FieldDailyContent:
				set("A", 0, fld.Name)
				row++
				for _, day := range v.Days {
					set("A", 0, day.Date.Format(models.DateKeyLayout))
					set("B", 0, day.Body)
					row++
				}
			default:
				set("A", 0, fld.Name)
				set("B", 0, scalarText(v, false))
				row++
			}
		}
		row++ // blank separator between section groups
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render: xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
