package export

import (
	"bytes"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/consult-cli/internal/model"
)

// DefaultSheet is the worksheet name used when none is configured.
const DefaultSheet = "Scraped Data"

// XLSX renders the table as a workbook with a single sheet. Every cell is
// written as a string so values round-trip exactly.
func XLSX(t *model.Table, sheetName string) ([]byte, error) {
	if sheetName == "" {
		sheetName = DefaultSheet
	}

	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	if err != nil {
		return nil, eris.Wrapf(err, "xlsx export: add sheet %q", sheetName)
	}

	columns := t.Columns()
	if len(columns) > 0 {
		addRow(sheet, columns)
		for _, row := range t.Rows() {
			addRow(sheet, row)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, eris.Wrap(err, "xlsx export: write workbook")
	}
	return buf.Bytes(), nil
}

func addRow(sheet *xlsx.Sheet, cells []string) {
	row := sheet.AddRow()
	for _, v := range cells {
		row.AddCell().SetString(v)
	}
}
