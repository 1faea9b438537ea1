package goql

import (
	"sync"
)

/*
Metadata of a declared table. Created once by `Table1`..`Table8` and never
mutated afterwards.
*/
type TableMeta struct {
	name string
	cols []ColumnMeta
}

func (self *TableMeta) Name() string { return self.name }

// Columns in declaration order. The returned slice must not be modified.
func (self *TableMeta) Columns() []ColumnMeta { return self.cols }

// Metadata of a declared column.
type ColumnMeta struct {
	table   *TableMeta
	name    string
	ordinal int
	info    TypeInfo
}

func (self *ColumnMeta) Name() string      { return self.name }
func (self *ColumnMeta) Table() *TableMeta { return self.table }
func (self *ColumnMeta) Ordinal() int      { return self.ordinal }
func (self *ColumnMeta) Type() TypeInfo    { return self.info }

func (self *ColumnMeta) appendExpr(buf []byte) []byte {
	buf = appendIdent(buf, self.table.name)
	buf = append(buf, '.')
	return appendIdent(buf, self.name)
}

/*
Declared table. `L` is the lineage marker: a caller-defined type, unique to
this table, that brands every column of the table. `S` is the row signature,
the tags of all columns in declaration order.

A table is a query source; selecting from it without a projection yields every
column.
*/
type Table[L comparable, S Signature] struct {
	meta *TableMeta
}

func (self Table[L, S]) Name() string     { return self.meta.name }
func (self Table[L, S]) Meta() *TableMeta { return self.meta }

func (self Table[L, S]) source(L, S) {}

func (self Table[L, S]) appendSelect(buf []byte) []byte {
	for i := range self.meta.cols {
		if i > 0 {
			buf = append(buf, `, `...)
		}
		buf = self.meta.cols[i].appendExpr(buf)
	}
	return buf
}

func (self Table[L, S]) appendFrom(buf []byte) []byte {
	return appendIdent(buf, self.meta.name)
}

func (self Table[L, S]) appendTables(buf []*TableMeta) []*TableMeta {
	return append(buf, self.meta)
}

/*
Column of a source with lineage `L` and tag `T`. Columns are created by table
declarations with `L` set to the table's marker; `InLeft` and `InRight` re-brand
them for use with a join.
*/
type Column[L any, T SqlType] struct {
	meta *ColumnMeta
}

func (self Column[L, T]) Name() string      { return self.meta.name }
func (self Column[L, T]) Table() *TableMeta { return self.meta.table }
func (self Column[L, T]) Ordinal() int      { return self.meta.ordinal }
func (self Column[L, T]) Meta() *ColumnMeta { return self.meta }

func (self Column[L, T]) Type() TypeInfo {
	var tag T
	return tag.SqlTypeInfo()
}

var tableRegistry sync.Map

/*
Allocates the metadata and claims the marker `L` for this table name. Reusing a
marker for a different table would let one table's columns be selected from
another, so it panics.
*/
func declare[L comparable](name string, cols ...ColumnMeta) *TableMeta {
	if name == `` {
		panic(ErrInvalidInput.while(`declaring table`).becausef(`empty table name`))
	}

	var marker L
	prev, loaded := tableRegistry.LoadOrStore(any(marker), name)
	if loaded && prev.(string) != name {
		panic(ErrSchema.while(`declaring table`).becausef(
			`lineage marker %T is already declared for table %q, can't reuse it for %q`,
			marker, prev, name,
		))
	}

	meta := &TableMeta{name: name, cols: cols}
	for i := range meta.cols {
		col := &meta.cols[i]
		if col.name == `` {
			panic(ErrInvalidInput.while(`declaring table`).becausef(`empty name of column %d of table %q`, i, name))
		}
		col.table = meta
		col.ordinal = i
	}
	return meta
}

func colDef[T SqlType](name string) ColumnMeta {
	var tag T
	return ColumnMeta{name: name, info: tag.SqlTypeInfo()}
}

func colAt[L any, T SqlType](meta *TableMeta, i int) Column[L, T] {
	return Column[L, T]{meta: &meta.cols[i]}
}

/*
Declares a table with one column. `L` must be a type private to this table,
typically an empty struct:

	type userTable struct{}

	var users, usersId = goql.Table1[userTable, goql.Serial]("users", "id")

The declaration must mirror the real schema; nothing verifies it against a live
database.
*/
func Table1[L comparable, A SqlType](name, a string) (Table[L, Sig1[A]], Column[L, A]) {
	meta := declare[L](name, colDef[A](a))
	return Table[L, Sig1[A]]{meta}, colAt[L, A](meta, 0)
}

// Same as `Table1` with two columns.
func Table2[L comparable, A, B SqlType](name, a, b string) (
	Table[L, Sig2[A, B]], Column[L, A], Column[L, B],
) {
	meta := declare[L](name, colDef[A](a), colDef[B](b))
	return Table[L, Sig2[A, B]]{meta}, colAt[L, A](meta, 0), colAt[L, B](meta, 1)
}

// Same as `Table1` with three columns.
func Table3[L comparable, A, B, C SqlType](name, a, b, c string) (
	Table[L, Sig3[A, B, C]], Column[L, A], Column[L, B], Column[L, C],
) {
	meta := declare[L](name, colDef[A](a), colDef[B](b), colDef[C](c))
	return Table[L, Sig3[A, B, C]]{meta},
		colAt[L, A](meta, 0), colAt[L, B](meta, 1), colAt[L, C](meta, 2)
}

// Same as `Table1` with four columns.
func Table4[L comparable, A, B, C, D SqlType](name, a, b, c, d string) (
	Table[L, Sig4[A, B, C, D]], Column[L, A], Column[L, B], Column[L, C], Column[L, D],
) {
	meta := declare[L](name, colDef[A](a), colDef[B](b), colDef[C](c), colDef[D](d))
	return Table[L, Sig4[A, B, C, D]]{meta},
		colAt[L, A](meta, 0), colAt[L, B](meta, 1), colAt[L, C](meta, 2), colAt[L, D](meta, 3)
}

// Same as `Table1` with five columns.
func Table5[L comparable, A, B, C, D, E SqlType](name, a, b, c, d, e string) (
	Table[L, Sig5[A, B, C, D, E]], Column[L, A], Column[L, B], Column[L, C], Column[L, D], Column[L, E],
) {
	meta := declare[L](name, colDef[A](a), colDef[B](b), colDef[C](c), colDef[D](d), colDef[E](e))
	return Table[L, Sig5[A, B, C, D, E]]{meta},
		colAt[L, A](meta, 0), colAt[L, B](meta, 1), colAt[L, C](meta, 2), colAt[L, D](meta, 3),
		colAt[L, E](meta, 4)
}

// Same as `Table1` with six columns.
func Table6[L comparable, A, B, C, D, E, F SqlType](name, a, b, c, d, e, f string) (
	Table[L, Sig6[A, B, C, D, E, F]],
	Column[L, A], Column[L, B], Column[L, C], Column[L, D], Column[L, E], Column[L, F],
) {
	meta := declare[L](name,
		colDef[A](a), colDef[B](b), colDef[C](c), colDef[D](d), colDef[E](e), colDef[F](f))
	return Table[L, Sig6[A, B, C, D, E, F]]{meta},
		colAt[L, A](meta, 0), colAt[L, B](meta, 1), colAt[L, C](meta, 2), colAt[L, D](meta, 3),
		colAt[L, E](meta, 4), colAt[L, F](meta, 5)
}

// Same as `Table1` with seven columns.
func Table7[L comparable, A, B, C, D, E, F, G SqlType](name, a, b, c, d, e, f, g string) (
	Table[L, Sig7[A, B, C, D, E, F, G]],
	Column[L, A], Column[L, B], Column[L, C], Column[L, D], Column[L, E], Column[L, F], Column[L, G],
) {
	meta := declare[L](name,
		colDef[A](a), colDef[B](b), colDef[C](c), colDef[D](d), colDef[E](e), colDef[F](f), colDef[G](g))
	return Table[L, Sig7[A, B, C, D, E, F, G]]{meta},
		colAt[L, A](meta, 0), colAt[L, B](meta, 1), colAt[L, C](meta, 2), colAt[L, D](meta, 3),
		colAt[L, E](meta, 4), colAt[L, F](meta, 5), colAt[L, G](meta, 6)
}

// Same as `Table1` with eight columns.
func Table8[L comparable, A, B, C, D, E, F, G, H SqlType](name, a, b, c, d, e, f, g, h string) (
	Table[L, Sig8[A, B, C, D, E, F, G, H]],
	Column[L, A], Column[L, B], Column[L, C], Column[L, D],
	Column[L, E], Column[L, F], Column[L, G], Column[L, H],
) {
	meta := declare[L](name,
		colDef[A](a), colDef[B](b), colDef[C](c), colDef[D](d),
		colDef[E](e), colDef[F](f), colDef[G](g), colDef[H](h))
	return Table[L, Sig8[A, B, C, D, E, F, G, H]]{meta},
		colAt[L, A](meta, 0), colAt[L, B](meta, 1), colAt[L, C](meta, 2), colAt[L, D](meta, 3),
		colAt[L, E](meta, 4), colAt[L, F](meta, 5), colAt[L, G](meta, 6), colAt[L, H](meta, 7)
}
