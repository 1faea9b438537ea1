package goql

import (
	"errors"
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestBinding_build_struct(t *testing.T) {
	var user User
	try(t, user.Fields().Build(NewRow(int64(1), "Sean", nil)))
	eq(t, User{1, "Sean", nil}, user)

	try(t, user.Fields().Build(NewRow(int32(2), []byte("Tess"), int16(30))))
	eq(t, User{2, "Tess", int16Ptr(30)}, user)
}

// NULL in a nullable slot resets a previously set pointer.
func TestBinding_build_null_resets(t *testing.T) {
	user := User{Age: int16Ptr(10)}
	try(t, user.Fields().Build(NewRow(int64(1), "Sean", nil)))
	eq(t, (*int16)(nil), user.Age)
}

func TestBinding_build_null_in_not_null(t *testing.T) {
	var user User
	err := user.Fields().Build(NewRow(int64(1), nil, nil))
	if !errors.Is(err, ErrDecode) {
		t.Fatalf(`expected error ErrDecode, got %+v`, err)
	}
	if !errors.Is(err, ErrNullValue) {
		t.Fatalf(`expected ErrNullValue in the cause chain, got %+v`, err)
	}
}

func TestBinding_build_unparseable(t *testing.T) {
	var user User
	err := user.Fields().Build(NewRow("one", "Sean", nil))
	if !errors.Is(err, ErrDecode) {
		t.Fatalf(`expected error ErrDecode, got %+v`, err)
	}
}

func TestBinding_build_overflow(t *testing.T) {
	var user User
	err := user.Fields().Build(NewRow(int64(1), "Sean", int64(math.MaxInt16+1)))
	if !errors.Is(err, ErrDecode) {
		t.Fatalf(`expected error ErrDecode, got %+v`, err)
	}

	err = user.Fields().Build(NewRow(int64(math.MaxInt32+1), "Sean", nil))
	if !errors.Is(err, ErrDecode) {
		t.Fatalf(`expected error ErrDecode, got %+v`, err)
	}
}

func TestBinding_build_wrong_row_length(t *testing.T) {
	var user User
	err := user.Fields().Build(NewRow(int64(1), "Sean"))
	if !errors.Is(err, ErrSchema) {
		t.Fatalf(`expected error ErrSchema, got %+v`, err)
	}
}

// A zero binding lists no fields, which disagrees with any non-empty signature.
func TestBinding_zero_rejected(t *testing.T) {
	err := Binding[UserSig]{}.Build(NewRow(int64(1), "Sean", nil))
	if !errors.Is(err, ErrSchema) {
		t.Fatalf(`expected error ErrSchema, got %+v`, err)
	}

	var field Field[Serial]
	err = Bind1(field).Build(NewRow(int64(1)))
	if !errors.Is(err, ErrSchema) {
		t.Fatalf(`expected error ErrSchema for unbound field, got %+v`, err)
	}
}

/*
A joined row is split by the arity of the left side; each half is decoded by
its own target.
*/
func TestBindConcat_partitions_row(t *testing.T) {
	var out Pair[Post, User]
	binding := BindConcat(out.First.Fields(), out.Second.Fields())
	eq(t, 6, binding.Arity())

	try(t, binding.Build(NewRow(int64(7), int64(1), "Hello", int64(1), "Sean", nil)))
	eq(t, Pair[Post, User]{Post{7, 1, "Hello"}, User{1, "Sean", nil}}, out)
}

func TestBindConcat_error_reports_absolute_column(t *testing.T) {
	var out Pair[Post, User]
	binding := BindConcat(out.First.Fields(), out.Second.Fields())

	err := binding.Build(NewRow(int64(7), int64(1), "Hello", int64(1), nil, nil))
	if !errors.Is(err, ErrNullValue) {
		t.Fatalf(`expected ErrNullValue, got %+v`, err)
	}

	var gerr Err
	if !errors.As(err, &gerr) {
		t.Fatalf(`expected an Err, got %#v`, err)
	}
	eq(t, `column 4 (VarChar): null value for non-nullable column`, gerr.Cause.Error())
}

func TestBind_chain(t *testing.T) {
	var name string
	var age *int16
	binding := Bind(Col[VarChar](&name), Bind(Opt[SmallInt](&age), End()))

	// Identical to the alias form.
	var _ Binding[Sig2[VarChar, Nullable[SmallInt]]] = binding

	try(t, binding.Build(NewRow("Jim", int64(40))))
	eq(t, "Jim", name)
	eq(t, int16Ptr(40), age)
}

type everyType struct {
	Small  int16
	Int    int32
	Big    int64
	Serial int32
	BigSer int64
	Real   float32
	Double float64
	Var    string
	Text   string
	Bool   bool
	Time   time.Time
	Uuid   uuid.UUID
	Bytes  []byte
}

func (self *everyType) Fields() Binding[Cons[SmallInt, Cons[Integer, Cons[BigInt, Cons[Serial, Cons[BigSerial,
	Sig8[Real, Double, VarChar, Text, Bool, Timestamp, Uuid, Bytea]]]]]]] {
	return Bind(Col[SmallInt](&self.Small),
		Bind(Col[Integer](&self.Int),
			Bind(Col[BigInt](&self.Big),
				Bind(Col[Serial](&self.Serial),
					Bind(Col[BigSerial](&self.BigSer),
						Bind8(
							Col[Real](&self.Real),
							Col[Double](&self.Double),
							Col[VarChar](&self.Var),
							Col[Text](&self.Text),
							Col[Bool](&self.Bool),
							Col[Timestamp](&self.Time),
							Col[Uuid](&self.Uuid),
							Col[Bytea](&self.Bytes),
						))))))
}

// Raw values in the forms lib/pq hands them over.
func TestBinding_every_type_postgres_forms(t *testing.T) {
	id := uuid.MustParse(`6ba7b810-9dad-11d1-80b4-00c04fd430c8`)
	stamp := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)

	var out everyType
	try(t, out.Fields().Build(NewRow(
		int64(1), int64(2), int64(3), int64(4), int64(5),
		float64(1.5), float64(2.5), "var", "text", true, stamp,
		[]byte(id.String()), []byte{0xde, 0xad},
	)))

	eq(t, everyType{1, 2, 3, 4, 5, 1.5, 2.5, "var", "text", true, stamp, id, []byte{0xde, 0xad}}, out)
}

// Raw values in the forms DuckDB hands them over, or as text.
func TestBinding_every_type_native_forms(t *testing.T) {
	id := uuid.MustParse(`6ba7b810-9dad-11d1-80b4-00c04fd430c8`)
	stamp := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)

	var out everyType
	try(t, out.Fields().Build(NewRow(
		int16(1), int32(2), "3", int32(4), uint32(5),
		float32(1.5), "2.5", int64(9), []byte("text"), "t", "2020-01-02 03:04:05Z",
		id[:], "bytes",
	)))

	eq(t, everyType{1, 2, 3, 4, 5, 1.5, 2.5, "9", "text", true, stamp, id, []byte("bytes")}, out)
}

// SUM over integers arrives from DuckDB as HUGEINT.
func TestDecode_big_int(t *testing.T) {
	var sum int64
	try(t, Bind1(Col[BigInt](&sum)).Build(NewRow(big.NewInt(3))))
	eq(t, int64(3), sum)

	huge := new(big.Int).Lsh(big.NewInt(1), 70)
	err := Bind1(Col[BigInt](&sum)).Build(NewRow(huge))
	if !errors.Is(err, ErrDecode) {
		t.Fatalf(`expected error ErrDecode, got %+v`, err)
	}

	var small int16
	err = Bind1(Col[SmallInt](&small)).Build(NewRow(big.NewInt(math.MaxInt16 + 1)))
	if !errors.Is(err, ErrDecode) {
		t.Fatalf(`expected error ErrDecode, got %+v`, err)
	}

	var total float64
	try(t, Bind1(Col[Double](&total)).Build(NewRow(big.NewInt(12))))
	eq(t, float64(12), total)
}

func TestDecode_real_overflow(t *testing.T) {
	var val float32
	err := Bind1(Col[Real](&val)).Build(NewRow(float64(1e300)))
	if !errors.Is(err, ErrDecode) {
		t.Fatalf(`expected error ErrDecode, got %+v`, err)
	}

	err = Bind1(Col[Real](&val)).Build(NewRow(float64(-1e300)))
	if !errors.Is(err, ErrDecode) {
		t.Fatalf(`expected error ErrDecode, got %+v`, err)
	}

	try(t, Bind1(Col[Real](&val)).Build(NewRow(float64(2.5))))
	eq(t, float32(2.5), val)

	var wide float64
	try(t, Bind1(Col[Double](&wide)).Build(NewRow(float64(1e300))))
	eq(t, float64(1e300), wide)
}

func TestDecode_mismatched_raw(t *testing.T) {
	test := func(field Field[Bool], raw interface{}) {
		t.Helper()
		err := Bind1(field).Build(NewRow(raw))
		if !errors.Is(err, ErrDecode) {
			t.Fatalf(`expected error ErrDecode for %#v, got %+v`, raw, err)
		}
	}

	var val bool
	test(Col[Bool](&val), int64(1))
	test(Col[Bool](&val), "maybe")
	test(Col[Bool](&val), 1.5)
}

func TestSignatureOf(t *testing.T) {
	eq(t,
		[]TypeInfo{{Kind: KindSerial}, {Kind: KindVarChar}, {Kind: KindSmallInt, Nullable: true}},
		SignatureOf[UserSig](),
	)

	eq(t,
		[]TypeInfo{
			{Kind: KindSerial}, {Kind: KindInteger}, {Kind: KindVarChar},
			{Kind: KindSerial}, {Kind: KindVarChar}, {Kind: KindSmallInt, Nullable: true},
		},
		SignatureOf[Concat[PostSig, UserSig]](),
	)

	eq(t, 0, len(SignatureOf[Nil]()))
}

// Nullability is part of type identity.
func TestTypeInfo_identity(t *testing.T) {
	eq(t, false, SmallInt{}.SqlTypeInfo() == Nullable[SmallInt]{}.SqlTypeInfo())
	eq(t, false, SmallInt{}.SqlTypeInfo() == Integer{}.SqlTypeInfo())
	eq(t, `Nullable<SmallInt>`, Nullable[SmallInt]{}.SqlTypeInfo().String())
	eq(t, `Serial`, Serial{}.SqlTypeInfo().String())
	eq(t, `Unknown`, Kind(200).String())
}
