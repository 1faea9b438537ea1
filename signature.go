package goql

/*
Output signature: the ordered tuple of `SqlType` tags describing one row of a
query source or one decoding target. Signatures are types, not values; they
are built from `Cons` and `Nil`, usually through the aliases `Sig1`..`Sig8`.
A join produces `Concat` of its sides, which describes the same flat row but
keeps the boundary between the sides, so that a pair of targets can split the
row back apart.
*/
type Signature interface {
	appendTypes([]TypeInfo) []TypeInfo
}

// Empty signature.
type Nil struct{}

func (Nil) appendTypes(buf []TypeInfo) []TypeInfo { return buf }

// Signature with the head tag `H` followed by the tail signature `T`.
type Cons[H SqlType, T Signature] struct{}

func (Cons[H, T]) appendTypes(buf []TypeInfo) []TypeInfo {
	var head H
	var tail T
	return tail.appendTypes(append(buf, head.SqlTypeInfo()))
}

// Row of `L` followed by a row of `R`. Produced by `InnerJoin`.
type Concat[L, R Signature] struct{}

func (Concat[L, R]) appendTypes(buf []TypeInfo) []TypeInfo {
	var left L
	var right R
	return right.appendTypes(left.appendTypes(buf))
}

type (
	Sig1[A SqlType]                      = Cons[A, Nil]
	Sig2[A, B SqlType]                   = Cons[A, Sig1[B]]
	Sig3[A, B, C SqlType]                = Cons[A, Sig2[B, C]]
	Sig4[A, B, C, D SqlType]             = Cons[A, Sig3[B, C, D]]
	Sig5[A, B, C, D, E SqlType]          = Cons[A, Sig4[B, C, D, E]]
	Sig6[A, B, C, D, E, F SqlType]       = Cons[A, Sig5[B, C, D, E, F]]
	Sig7[A, B, C, D, E, F, G SqlType]    = Cons[A, Sig6[B, C, D, E, F, G]]
	Sig8[A, B, C, D, E, F, G, H SqlType] = Cons[A, Sig7[B, C, D, E, F, G, H]]
)

// Flat list of the tags of `S`, in row order.
func SignatureOf[S Signature]() []TypeInfo {
	var sig S
	return sig.appendTypes(nil)
}

func arityOf[S Signature]() int {
	return len(SignatureOf[S]())
}
