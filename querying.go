package goql

import (
	"context"
	"database/sql"
	"iter"
	"time"
)

/*
Runs the source and prepares a `Cursor` that decodes rows into `T`. The output
signature of the source must be the one `*T` is bound to; anything else doesn't
compile. Only `T` needs to be spelled out:

	cur, err := goql.QueryAll[User](ctx, conn, users)
	if err != nil {
		return err
	}
	defer cur.Close()

	for cur.Next() {
		user, err := cur.Scan()
		...
	}

Nothing is decoded up front: each row is decoded when it's scanned, so a decode
failure on a later row doesn't affect earlier ones. The cursor holds the
connection until it's exhausted or closed.
*/
func QueryAll[T any, PT interface {
	*T
	Queryable[S]
}, L any, S Signature](ctx context.Context, conn *Conn, src Source[L, S]) (*Cursor[T], error) {
	err := checkBinding(PT(new(T)).Fields())
	if err != nil {
		return nil, err
	}

	return query(ctx, conn, src, func(row Row) (T, error) {
		var out T
		err := PT(&out).Fields().run(row)
		return out, err
	})
}

/*
Runs the source and returns the first decoded row. Fails with `ErrNoRows` when
the result is empty; remaining rows are ignored.
*/
func QueryOne[T any, PT interface {
	*T
	Queryable[S]
}, L any, S Signature](ctx context.Context, conn *Conn, src Source[L, S]) (T, error) {
	return first[T](QueryAll[T, PT](ctx, conn, src))
}

/*
Runs a join and decodes each row into a `Pair`: the left part of the row into
`A`, the right part into `B`.

	cur, err := goql.QueryPairs[Post, User](ctx, conn, postsWithUsers)
*/
func QueryPairs[A, B any, PA interface {
	*A
	Queryable[SA]
}, PB interface {
	*B
	Queryable[SB]
}, L any, SA, SB Signature](ctx context.Context, conn *Conn, src Source[L, Concat[SA, SB]]) (*Cursor[Pair[A, B]], error) {
	err := checkBinding(BindConcat(PA(new(A)).Fields(), PB(new(B)).Fields()))
	if err != nil {
		return nil, err
	}

	return query(ctx, conn, src, func(row Row) (Pair[A, B], error) {
		var out Pair[A, B]
		err := BindConcat(PA(&out.First).Fields(), PB(&out.Second).Fields()).run(row)
		return out, err
	})
}

/*
Runs a single-column source and decodes each row into the native type of its
tag:

	cur, err := goql.QueryScalars[goql.Serial, int32](ctx, conn, goql.Select1(users, usersId))
*/
func QueryScalars[T Native[V], V any, L any](ctx context.Context, conn *Conn, src Source[L, Sig1[T]]) (*Cursor[V], error) {
	return query(ctx, conn, src, func(row Row) (V, error) {
		var out scalar[T, V]
		err := out.Fields().run(row)
		return out.val, err
	})
}

// First row of `QueryScalars`. Fails with `ErrNoRows` when the result is empty.
func QueryScalar[T Native[V], V any, L any](ctx context.Context, conn *Conn, src Source[L, Sig1[T]]) (V, error) {
	return first[V](QueryScalars[T, V](ctx, conn, src))
}

func query[T any, L any, S Signature](
	ctx context.Context, conn *Conn, src Source[L, S], decode func(Row) (T, error),
) (*Cursor[T], error) {
	text := ToSQL(src)
	arity := arityOf[S]()

	err := conn.acquire(`querying rows`)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rows, err := conn.sess.QueryContext(ctx, text)
	if err != nil {
		conn.release()
		err = driverErr(`querying rows`, err)
		logElapsed(conn.log.Warn(), start).Err(err).Str("sql", text).Msg("query failed")
		return nil, err
	}

	cols, err := rows.Columns()
	if err == nil && len(cols) != arity {
		err = ErrSchema.while(`querying rows`).becausef(
			`query returned %d columns, signature %v expects %d`, len(cols), SignatureOf[S](), arity)
	} else if err != nil {
		err = driverErr(`querying rows`, err)
	}
	if err != nil {
		_ = rows.Close()
		conn.release()
		return nil, err
	}

	logElapsed(conn.log.Debug(), start).Str("sql", text).Msg("query started")

	cur := &Cursor[T]{
		conn:   conn,
		rows:   rows,
		decode: decode,
		vals:   make([]interface{}, arity),
		ptrs:   make([]interface{}, arity),
	}
	for i := range cur.vals {
		cur.ptrs[i] = &cur.vals[i]
	}
	return cur, nil
}

func first[T any](cur *Cursor[T], err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	defer cur.Close()

	if !cur.Next() {
		err := cur.Err()
		if err != nil {
			return zero, err
		}
		return zero, ErrNoRows.while(`reading first row`)
	}
	return cur.Scan()
}

/*
Lazy, one-pass sequence of decoded rows, in the order the database returned
them. Used like `*sql.Rows`:

	defer cur.Close()
	for cur.Next() {
		val, err := cur.Scan()
		...
	}
	err := cur.Err()

A cursor can't be restarted. It MUST be exhausted or closed, since it holds
its connection until then.
*/
type Cursor[T any] struct {
	conn   *Conn
	rows   *sql.Rows
	decode func(Row) (T, error)
	vals   []interface{}
	ptrs   []interface{}
	ready  bool
	done   bool
	err    error
}

// Advances to the next row. Returns false at the end or on a driver failure.
func (self *Cursor[T]) Next() bool {
	if self.done {
		return false
	}
	if self.rows.Next() {
		self.ready = true
		return true
	}
	self.ready = false
	self.err = driverErr(`reading rows`, self.rows.Err())
	self.finish()
	return false
}

/*
Decodes the current row. Each row can be scanned once. A decode failure is
reported here, for this row only; the cursor can advance past it.
*/
func (self *Cursor[T]) Scan() (T, error) {
	var zero T
	if !self.ready {
		return zero, ErrInvalidInput.while(`scanning row`).becausef(`no current row, call Next first`)
	}
	self.ready = false

	err := self.rows.Scan(self.ptrs...)
	if err != nil {
		return zero, driverErr(`scanning row`, err)
	}

	out, err := self.decode(Row{vals: self.vals})
	if err != nil {
		return zero, err
	}
	return out, nil
}

// Driver failure that ended iteration, if any.
func (self *Cursor[T]) Err() error { return self.err }

// Releases the result set and the connection. Safe to call repeatedly.
func (self *Cursor[T]) Close() error {
	if self.done {
		return nil
	}
	return self.finish()
}

func (self *Cursor[T]) finish() error {
	self.done = true
	self.ready = false
	err := self.rows.Close()
	self.conn.release()
	return driverErr(`closing rows`, err)
}

/*
Range-over-func form of the cursor. Yields each decoded row with its decode
error, then the driver failure if one ended the iteration. Closes the cursor
when the loop ends, including on `break`.

	for user, err := range cur.All() {
		...
	}
*/
func (self *Cursor[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		defer self.Close()
		for self.Next() {
			if !yield(self.Scan()) {
				return
			}
		}
		err := self.Err()
		if err != nil {
			var zero T
			yield(zero, err)
		}
	}
}

// Decodes every remaining row, stopping at the first error. Closes the cursor.
func (self *Cursor[T]) Collect() ([]T, error) {
	var out []T
	for val, err := range self.All() {
		if err != nil {
			return out, err
		}
		out = append(out, val)
	}
	return out, nil
}
