package goql

/*
Anything that can be queried: a `Table`, a `Selection` or a `Join`. `L` is
the lineage (which tables the source draws from) and `S` is the output
signature. The interface is closed; sources are built only by this package,
and every builder returns a value that is itself a valid source.
*/
type Source[L any, S Signature] interface {
	node
	source(L, S)
}

type node interface {
	appendSelect([]byte) []byte
	appendFrom([]byte) []byte
	appendTables([]*TableMeta) []*TableMeta
}

// Lineage of a join of `L` and `R`.
type Joined[L, R any] struct{}

// Renders the full `select` statement for the source.
func ToSQL[L any, S Signature](src Source[L, S]) string {
	return bytesToMutableString(appendQuery(nil, src))
}

func appendQuery(buf []byte, src node) []byte {
	buf = append(buf, `SELECT `...)
	buf = src.appendSelect(buf)
	buf = append(buf, ` FROM `...)
	return src.appendFrom(buf)
}

// Tables the source draws from, left to right.
func TablesOf[L any, S Signature](src Source[L, S]) []*TableMeta {
	return src.appendTables(nil)
}

/*
Source narrowed to an explicit projection. Its FROM clause is the parent's,
unchanged. Produced by `Select1`..`Select8` and `SelectSQL`.
*/
type Selection[L any, S Signature] struct {
	parent node
	items  []selectItem
}

type selectItem struct {
	col *ColumnMeta
	raw string
}

func (self Selection[L, S]) source(L, S) {}

func (self Selection[L, S]) appendSelect(buf []byte) []byte {
	for i, item := range self.items {
		if i > 0 {
			buf = append(buf, `, `...)
		}
		if item.col != nil {
			buf = item.col.appendExpr(buf)
		} else {
			buf = append(buf, item.raw...)
		}
	}
	return buf
}

func (self Selection[L, S]) appendFrom(buf []byte) []byte {
	return self.parent.appendFrom(buf)
}

func (self Selection[L, S]) appendTables(buf []*TableMeta) []*TableMeta {
	return self.parent.appendTables(buf)
}

// True if the projection contains a `SelectSQL` fragment.
func (self Selection[L, S]) IsRaw() bool {
	for _, item := range self.items {
		if item.col == nil {
			return true
		}
	}
	return false
}

func selection[L any, S Signature](parent node, cols ...*ColumnMeta) Selection[L, S] {
	checkColumns(`building selection`, cols...)
	items := make([]selectItem, len(cols))
	for i, col := range cols {
		items[i] = selectItem{col: col}
	}
	return Selection[L, S]{parent: parent, items: items}
}

/*
UNTRUSTED ESCAPE HATCH. Selects one raw SQL expression, such as an aggregate,
and asserts that its result has the tag `T`. The fragment is inserted verbatim
into the projection: it's neither escaped nor validated, and the asserted type
is taken on faith. A wrong assertion is not detected; it either fails to decode
or, for text tags which accept any scalar, decodes into a wrong value.

	count := goql.SelectSQL[goql.BigInt](users, `COUNT(*)`)
*/
func SelectSQL[T SqlType, L any, S Signature](src Source[L, S], fragment string) Selection[L, Sig1[T]] {
	if fragment == `` {
		panic(ErrInvalidInput.while(`building raw selection`).becausef(`empty SQL fragment`))
	}
	return Selection[L, Sig1[T]]{parent: src, items: []selectItem{{raw: fragment}}}
}

/*
Selects one column. The column must carry the source's lineage `L`; a column
of an unrelated table doesn't compile. For joins, see `InLeft` and `InRight`.
*/
func Select1[L any, S Signature, A SqlType](src Source[L, S], a Column[L, A]) Selection[L, Sig1[A]] {
	return selection[L, Sig1[A]](src, a.meta)
}

// Selects columns in the given order. See `Select1`.
func Select2[L any, S Signature, A, B SqlType](
	src Source[L, S], a Column[L, A], b Column[L, B],
) Selection[L, Sig2[A, B]] {
	return selection[L, Sig2[A, B]](src, a.meta, b.meta)
}

// Selects columns in the given order. See `Select1`.
func Select3[L any, S Signature, A, B, C SqlType](
	src Source[L, S], a Column[L, A], b Column[L, B], c Column[L, C],
) Selection[L, Sig3[A, B, C]] {
	return selection[L, Sig3[A, B, C]](src, a.meta, b.meta, c.meta)
}

// Selects columns in the given order. See `Select1`.
func Select4[L any, S Signature, A, B, C, D SqlType](
	src Source[L, S], a Column[L, A], b Column[L, B], c Column[L, C], d Column[L, D],
) Selection[L, Sig4[A, B, C, D]] {
	return selection[L, Sig4[A, B, C, D]](src, a.meta, b.meta, c.meta, d.meta)
}

// Selects columns in the given order. See `Select1`.
func Select5[L any, S Signature, A, B, C, D, E SqlType](
	src Source[L, S], a Column[L, A], b Column[L, B], c Column[L, C], d Column[L, D], e Column[L, E],
) Selection[L, Sig5[A, B, C, D, E]] {
	return selection[L, Sig5[A, B, C, D, E]](src, a.meta, b.meta, c.meta, d.meta, e.meta)
}

// Selects columns in the given order. See `Select1`.
func Select6[L any, S Signature, A, B, C, D, E, F SqlType](
	src Source[L, S],
	a Column[L, A], b Column[L, B], c Column[L, C], d Column[L, D], e Column[L, E], f Column[L, F],
) Selection[L, Sig6[A, B, C, D, E, F]] {
	return selection[L, Sig6[A, B, C, D, E, F]](src, a.meta, b.meta, c.meta, d.meta, e.meta, f.meta)
}

// Selects columns in the given order. See `Select1`.
func Select7[L any, S Signature, A, B, C, D, E, F, G SqlType](
	src Source[L, S],
	a Column[L, A], b Column[L, B], c Column[L, C], d Column[L, D], e Column[L, E], f Column[L, F],
	g Column[L, G],
) Selection[L, Sig7[A, B, C, D, E, F, G]] {
	return selection[L, Sig7[A, B, C, D, E, F, G]](src,
		a.meta, b.meta, c.meta, d.meta, e.meta, f.meta, g.meta)
}

// Selects columns in the given order. See `Select1`.
func Select8[L any, S Signature, A, B, C, D, E, F, G, H SqlType](
	src Source[L, S],
	a Column[L, A], b Column[L, B], c Column[L, C], d Column[L, D], e Column[L, E], f Column[L, F],
	g Column[L, G], h Column[L, H],
) Selection[L, Sig8[A, B, C, D, E, F, G, H]] {
	return selection[L, Sig8[A, B, C, D, E, F, G, H]](src,
		a.meta, b.meta, c.meta, d.meta, e.meta, f.meta, g.meta, h.meta)
}

/*
Inner join of two sources on `leftCol = rightCol`. The lineage is
`Joined[LL, RL]` and the output signature is `Concat[LS, RS]`: the left row
followed by the right row. The equality is left to the database; the tags of
the two columns may differ, as with an `integer` foreign key referencing a
`serial` key.
*/
type Join[LL, RL any, LS, RS Signature] struct {
	left     node
	right    node
	leftCol  *ColumnMeta
	rightCol *ColumnMeta
}

func (self Join[LL, RL, LS, RS]) source(Joined[LL, RL], Concat[LS, RS]) {}

func (self Join[LL, RL, LS, RS]) isJoin() {}

func (self Join[LL, RL, LS, RS]) appendSelect(buf []byte) []byte {
	buf = self.left.appendSelect(buf)
	buf = append(buf, `, `...)
	return self.right.appendSelect(buf)
}

func (self Join[LL, RL, LS, RS]) appendFrom(buf []byte) []byte {
	buf = self.left.appendFrom(buf)
	buf = append(buf, ` INNER JOIN `...)

	// A nested join on the right needs grouping, otherwise its ON clause would
	// bind to the wrong JOIN.
	if isJoinNode(self.right) {
		buf = append(buf, '(')
		buf = self.right.appendFrom(buf)
		buf = append(buf, ')')
	} else {
		buf = self.right.appendFrom(buf)
	}

	buf = append(buf, ` ON `...)
	buf = self.leftCol.appendExpr(buf)
	buf = append(buf, ` = `...)
	return self.rightCol.appendExpr(buf)
}

func (self Join[LL, RL, LS, RS]) appendTables(buf []*TableMeta) []*TableMeta {
	return self.right.appendTables(self.left.appendTables(buf))
}

func isJoinNode(val node) bool {
	for {
		switch cur := val.(type) {
		case interface{ isJoin() }:
			return true
		case interface{ parentNode() node }:
			val = cur.parentNode()
		default:
			return false
		}
	}
}

func (self Selection[L, S]) parentNode() node { return self.parent }

/*
Joins `left` and `right` on `leftCol = rightCol`. See `Join`. Tables are
rendered without aliases, so both sides must draw from different tables; a
self-join panics with `ErrInvalidInput`.
*/
func InnerJoin[LL, RL any, LS, RS Signature, A, B SqlType](
	left Source[LL, LS], right Source[RL, RS], leftCol Column[LL, A], rightCol Column[RL, B],
) Join[LL, RL, LS, RS] {
	checkColumns(`building join`, leftCol.meta, rightCol.meta)

	for _, lt := range left.appendTables(nil) {
		for _, rt := range right.appendTables(nil) {
			if lt.name == rt.name {
				panic(ErrInvalidInput.while(`building join`).becausef(
					`table %q appears on both sides; self-joins need aliases, which are not supported`, lt.name))
			}
		}
	}

	return Join[LL, RL, LS, RS]{
		left:     left,
		right:    right,
		leftCol:  leftCol.meta,
		rightCol: rightCol.meta,
	}
}

// Re-brands a column of the left side for use with the join.
func InLeft[LL, RL any, LS, RS Signature, A SqlType](
	_ Join[LL, RL, LS, RS], col Column[LL, A],
) Column[Joined[LL, RL], A] {
	return Column[Joined[LL, RL], A]{meta: col.meta}
}

// Re-brands a column of the right side for use with the join.
func InRight[LL, RL any, LS, RS Signature, A SqlType](
	_ Join[LL, RL, LS, RS], col Column[RL, A],
) Column[Joined[LL, RL], A] {
	return Column[Joined[LL, RL], A]{meta: col.meta}
}

// Zero `Column` values carry no metadata and can't be rendered.
func checkColumns(while string, cols ...*ColumnMeta) {
	for i, col := range cols {
		if col == nil {
			panic(ErrInvalidInput.while(while).becausef(`column %d is a zero Column, not one returned by a table declaration`, i))
		}
	}
}
