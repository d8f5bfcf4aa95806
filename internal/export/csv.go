// Package export serializes an extracted table as CSV and XLSX.
package export

import (
	"bytes"
	"encoding/csv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/consult-cli/internal/model"
)

// CSV renders the table with a header row of its columns. Missing fields
// are written as empty cells. A table with no columns renders as empty output.
func CSV(t *model.Table) ([]byte, error) {
	var buf bytes.Buffer
	columns := t.Columns()
	if len(columns) == 0 {
		return buf.Bytes(), nil
	}

	w := csv.NewWriter(&buf)
	if err := w.Write(columns); err != nil {
		return nil, eris.Wrap(err, "csv export: write header")
	}
	for _, row := range t.Rows() {
		if err := w.Write(row); err != nil {
			return nil, eris.Wrap(err, "csv export: write row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, eris.Wrap(err, "csv export: flush")
	}

	return buf.Bytes(), nil
}
