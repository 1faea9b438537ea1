package goql

import (
	"fmt"
)

/*
Decoding target bound to the signature `S`. Implemented by pointers to the
caller's types, usually in one declarative method listing the fields in
signature order:

	type User struct {
		Id   int32
		Name string
		Age  *int16
	}

	func (self *User) Fields() goql.Binding[UserSig] {
		return goql.Bind3(
			goql.Col[goql.Serial](&self.Id),
			goql.Col[goql.VarChar](&self.Name),
			goql.Opt[goql.SmallInt](&self.Age),
		)
	}

Because `S` appears in the method's result type, a target declared against one
signature doesn't satisfy `Queryable` for any other, and passing it to a query
with a different output signature doesn't compile.
*/
type Queryable[S Signature] interface {
	Fields() Binding[S]
}

/*
Destination of one column with the tag `T`. Built by `Col` for NOT NULL tags
and by `Opt` for `Nullable` tags; the native Go type is fixed by the tag.
*/
type Field[T SqlType] struct {
	decode func(raw interface{}) error
}

// Binds a NOT NULL column to `dst`. NULL is a decode error.
func Col[T Native[V], V any](dst *V) Field[T] {
	return Field[T]{decode: func(raw interface{}) error {
		if raw == nil {
			return ErrNullValue
		}
		var tag T
		val, err := tag.decode(raw)
		if err != nil {
			return err
		}
		*dst = val
		return nil
	}}
}

// Binds a nullable column to `dst`. NULL decodes into a nil pointer.
func Opt[T Native[V], V any](dst **V) Field[Nullable[T]] {
	return Field[Nullable[T]]{decode: func(raw interface{}) error {
		if raw == nil {
			*dst = nil
			return nil
		}
		var tag T
		val, err := tag.decode(raw)
		if err != nil {
			return err
		}
		*dst = &val
		return nil
	}}
}

func (self Field[T]) decodeAt(row Row, i int) error {
	var tag T
	info := tag.SqlTypeInfo()

	if self.decode == nil {
		return ErrSchema.while(`decoding row`).becausef(`column %d (%v) has no destination`, row.offset+i, info)
	}

	err := self.decode(row.vals[i])
	if err != nil {
		return ErrDecode.while(`decoding row`).because(fmt.Errorf(`column %d (%v): %w`, row.offset+i, info, err))
	}
	return nil
}

/*
Build function of a decoding target for the signature `S`: consumes one row's
raw values in signature order and writes them into the bound destinations.
Bindings for joins are made with `BindConcat`, which splits the row by the
arity of each side.
*/
type Binding[S Signature] struct {
	arity int
	build func(Row) error
}

// Number of fields listed by the binding.
func (self Binding[S]) Arity() int { return self.arity }

/*
Decodes one row. The row must have exactly the arity of `S`. Normally called by
`Cursor`; exported for custom drivers and tests.
*/
func (self Binding[S]) Build(row Row) error {
	err := checkBinding(self)
	if err != nil {
		return err
	}
	if row.Len() != self.arity {
		return ErrSchema.while(`decoding row`).becausef(
			`row has %d values, signature %v expects %d`, row.Len(), SignatureOf[S](), self.arity)
	}
	return self.run(row)
}

func (self Binding[S]) run(row Row) error {
	if self.build == nil {
		return nil
	}
	return self.build(row)
}

/*
The binding must list exactly one field per signature slot. The types already
guarantee this for bindings made by `Bind`; a zero `Binding` is the only way to
violate it.
*/
func checkBinding[S Signature](binding Binding[S]) error {
	arity := arityOf[S]()
	if binding.arity != arity {
		return ErrSchema.while(`checking decoding target`).becausef(
			`target lists %d fields, signature %v has %d`, binding.arity, SignatureOf[S](), arity)
	}
	return nil
}

// Binding of the empty signature. Terminates a chain of `Bind`.
func End() Binding[Nil] {
	return Binding[Nil]{}
}

// Prepends one field to a binding.
func Bind[H SqlType, T Signature](head Field[H], tail Binding[T]) Binding[Cons[H, T]] {
	return Binding[Cons[H, T]]{
		arity: tail.arity + 1,
		build: func(row Row) error {
			err := head.decodeAt(row, 0)
			if err != nil {
				return err
			}
			return tail.run(row.slice(1, row.Len()))
		},
	}
}

/*
Binding of a joined row: the first `left.Arity()` values go to `left`, the rest
to `right`.
*/
func BindConcat[L, R Signature](left Binding[L], right Binding[R]) Binding[Concat[L, R]] {
	return Binding[Concat[L, R]]{
		arity: left.arity + right.arity,
		build: func(row Row) error {
			err := left.run(row.slice(0, left.arity))
			if err != nil {
				return err
			}
			return right.run(row.slice(left.arity, row.Len()))
		},
	}
}

func Bind1[A SqlType](a Field[A]) Binding[Sig1[A]] {
	return Bind(a, End())
}

func Bind2[A, B SqlType](a Field[A], b Field[B]) Binding[Sig2[A, B]] {
	return Bind(a, Bind1(b))
}

func Bind3[A, B, C SqlType](a Field[A], b Field[B], c Field[C]) Binding[Sig3[A, B, C]] {
	return Bind(a, Bind2(b, c))
}

func Bind4[A, B, C, D SqlType](
	a Field[A], b Field[B], c Field[C], d Field[D],
) Binding[Sig4[A, B, C, D]] {
	return Bind(a, Bind3(b, c, d))
}

func Bind5[A, B, C, D, E SqlType](
	a Field[A], b Field[B], c Field[C], d Field[D], e Field[E],
) Binding[Sig5[A, B, C, D, E]] {
	return Bind(a, Bind4(b, c, d, e))
}

func Bind6[A, B, C, D, E, F SqlType](
	a Field[A], b Field[B], c Field[C], d Field[D], e Field[E], f Field[F],
) Binding[Sig6[A, B, C, D, E, F]] {
	return Bind(a, Bind5(b, c, d, e, f))
}

func Bind7[A, B, C, D, E, F, G SqlType](
	a Field[A], b Field[B], c Field[C], d Field[D], e Field[E], f Field[F], g Field[G],
) Binding[Sig7[A, B, C, D, E, F, G]] {
	return Bind(a, Bind6(b, c, d, e, f, g))
}

func Bind8[A, B, C, D, E, F, G, H SqlType](
	a Field[A], b Field[B], c Field[C], d Field[D], e Field[E], f Field[F], g Field[G], h Field[H],
) Binding[Sig8[A, B, C, D, E, F, G, H]] {
	return Bind(a, Bind7(b, c, d, e, f, g, h))
}

// Decoded row of a join: the left target and the right target.
type Pair[A, B any] struct {
	First  A
	Second B
}

type scalar[T Native[V], V any] struct {
	val V
}

func (self *scalar[T, V]) Fields() Binding[Sig1[T]] {
	return Bind1(Col[T, V](&self.val))
}
