package goql

/*
One raw record, as handed over by the driver. Gives ordinal access to raw
values and their NULL status. A row is built per record, consumed once by a
`Binding` and then discarded.
*/
type Row struct {
	vals []interface{}
	// Position of `vals[0]` in the full record. Used for error messages when
	// the row is a slice of a join.
	offset int
}

// Wraps raw values. Mostly useful for testing bindings without a database.
func NewRow(vals ...interface{}) Row { return Row{vals: vals} }

func (self Row) Len() int { return len(self.vals) }

func (self Row) IsNull(i int) bool { return self.vals[i] == nil }

func (self Row) Value(i int) interface{} { return self.vals[i] }

func (self Row) slice(from, to int) Row {
	return Row{vals: self.vals[from:to], offset: self.offset + from}
}
