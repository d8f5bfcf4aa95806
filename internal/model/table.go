package model

// Table is an ordered, immutable sequence of Records.
type Table struct {
	records []Record
	columns []string
}

// NewTable builds a Table from records. The slice is copied; later changes to
// the caller's records do not affect the table.
func NewTable(records []Record) *Table {
	t := &Table{records: make([]Record, len(records))}
	seen := make(map[string]bool)
	for i, r := range records {
		t.records[i] = append(Record(nil), r...)
		for _, f := range r {
			if !seen[f.Name] {
				seen[f.Name] = true
				t.columns = append(t.columns, f.Name)
			}
		}
	}
	return t
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// Record returns the i-th record.
func (t *Table) Record(i int) Record {
	return append(Record(nil), t.records[i]...)
}

// Records returns a copy of all records in order.
func (t *Table) Records() []Record {
	out := make([]Record, len(t.records))
	for i := range t.records {
		out[i] = t.Record(i)
	}
	return out
}

// Columns returns the union of record keys in first-seen order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Rows returns one string slice per record aligned to Columns. Missing keys
// are empty cells.
func (t *Table) Rows() [][]string {
	rows := make([][]string, len(t.records))
	for i, r := range t.records {
		vals := r.Map()
		row := make([]string, len(t.columns))
		for j, c := range t.columns {
			row[j] = vals[c]
		}
		rows[i] = row
	}
	return rows
}
