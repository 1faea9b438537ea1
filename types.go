package goql

import (
	"time"

	"github.com/google/uuid"
)

// Storage type of a column, without nullability.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindSmallInt
	KindInteger
	KindBigInt
	KindSerial
	KindBigSerial
	KindReal
	KindDouble
	KindVarChar
	KindText
	KindBool
	KindTimestamp
	KindUuid
	KindBytea
)

var kindNames = [...]string{
	KindUnknown:   `Unknown`,
	KindSmallInt:  `SmallInt`,
	KindInteger:   `Integer`,
	KindBigInt:    `BigInt`,
	KindSerial:    `Serial`,
	KindBigSerial: `BigSerial`,
	KindReal:      `Real`,
	KindDouble:    `Double`,
	KindVarChar:   `VarChar`,
	KindText:      `Text`,
	KindBool:      `Bool`,
	KindTimestamp: `Timestamp`,
	KindUuid:      `Uuid`,
	KindBytea:     `Bytea`,
}

func (self Kind) String() string {
	if int(self) < len(kindNames) {
		return kindNames[self]
	}
	return kindNames[KindUnknown]
}

/*
Runtime description of an `SqlType`. Two infos are equal exactly when the types
they describe are compatible: same kind, same nullability. There is no
widening between kinds.
*/
type TypeInfo struct {
	Kind     Kind
	Nullable bool
}

func (self TypeInfo) String() string {
	if self.Nullable {
		return `Nullable<` + self.Kind.String() + `>`
	}
	return self.Kind.String()
}

/*
Compile-time marker of an SQL storage type. Tags are zero-size and never
carry values; they classify columns and query outputs. The set is closed:
only this package can declare tags.
*/
type SqlType interface {
	SqlTypeInfo() TypeInfo
}

// Tag that is implicitly NOT NULL. Only these can be wrapped in `Nullable`.
type NotNull interface {
	SqlType
	notNull()
}

/*
NOT NULL tag whose non-null values decode into `V`. Used as a constraint by
`Col` and `Opt`, binding each tag to exactly one native Go type.
*/
type Native[V any] interface {
	NotNull
	decode(raw interface{}) (V, error)
}

// Marks the base tag as permitting SQL NULL. Values decode via `Opt`.
type Nullable[T NotNull] struct{}

func (Nullable[T]) SqlTypeInfo() TypeInfo {
	var base T
	info := base.SqlTypeInfo()
	info.Nullable = true
	return info
}

// `smallint`, decodes into `int16`.
type SmallInt struct{}

func (SmallInt) SqlTypeInfo() TypeInfo { return TypeInfo{Kind: KindSmallInt} }
func (SmallInt) notNull()              {}
func (SmallInt) decode(raw interface{}) (int16, error) {
	val, err := decodeInt(raw, 16)
	return int16(val), err
}

// `integer`, decodes into `int32`.
type Integer struct{}

func (Integer) SqlTypeInfo() TypeInfo { return TypeInfo{Kind: KindInteger} }
func (Integer) notNull()              {}
func (Integer) decode(raw interface{}) (int32, error) {
	val, err := decodeInt(raw, 32)
	return int32(val), err
}

// `bigint`, decodes into `int64`.
type BigInt struct{}

func (BigInt) SqlTypeInfo() TypeInfo { return TypeInfo{Kind: KindBigInt} }
func (BigInt) notNull()              {}
func (BigInt) decode(raw interface{}) (int64, error) {
	return decodeInt(raw, 64)
}

// Auto-incrementing `integer`, decodes into `int32`.
type Serial struct{}

func (Serial) SqlTypeInfo() TypeInfo { return TypeInfo{Kind: KindSerial} }
func (Serial) notNull()              {}
func (Serial) decode(raw interface{}) (int32, error) {
	val, err := decodeInt(raw, 32)
	return int32(val), err
}

// Auto-incrementing `bigint`, decodes into `int64`.
type BigSerial struct{}

func (BigSerial) SqlTypeInfo() TypeInfo { return TypeInfo{Kind: KindBigSerial} }
func (BigSerial) notNull()              {}
func (BigSerial) decode(raw interface{}) (int64, error) {
	return decodeInt(raw, 64)
}

// `real`, decodes into `float32`.
type Real struct{}

func (Real) SqlTypeInfo() TypeInfo { return TypeInfo{Kind: KindReal} }
func (Real) notNull()              {}
func (Real) decode(raw interface{}) (float32, error) {
	val, err := decodeFloat(raw, 32)
	return float32(val), err
}

// `double precision`, decodes into `float64`.
type Double struct{}

func (Double) SqlTypeInfo() TypeInfo { return TypeInfo{Kind: KindDouble} }
func (Double) notNull()              {}
func (Double) decode(raw interface{}) (float64, error) {
	return decodeFloat(raw, 64)
}

// `varchar`, decodes into `string`.
type VarChar struct{}

func (VarChar) SqlTypeInfo() TypeInfo { return TypeInfo{Kind: KindVarChar} }
func (VarChar) notNull()              {}
func (VarChar) decode(raw interface{}) (string, error) {
	return decodeString(raw)
}

// `text`, decodes into `string`.
type Text struct{}

func (Text) SqlTypeInfo() TypeInfo { return TypeInfo{Kind: KindText} }
func (Text) notNull()              {}
func (Text) decode(raw interface{}) (string, error) {
	return decodeString(raw)
}

// `boolean`, decodes into `bool`.
type Bool struct{}

func (Bool) SqlTypeInfo() TypeInfo { return TypeInfo{Kind: KindBool} }
func (Bool) notNull()              {}
func (Bool) decode(raw interface{}) (bool, error) {
	return decodeBool(raw)
}

// `timestamp`, decodes into `time.Time`.
type Timestamp struct{}

func (Timestamp) SqlTypeInfo() TypeInfo { return TypeInfo{Kind: KindTimestamp} }
func (Timestamp) notNull()              {}
func (Timestamp) decode(raw interface{}) (time.Time, error) {
	return decodeTime(raw)
}

// `uuid`, decodes into `uuid.UUID`.
type Uuid struct{}

func (Uuid) SqlTypeInfo() TypeInfo { return TypeInfo{Kind: KindUuid} }
func (Uuid) notNull()              {}
func (Uuid) decode(raw interface{}) (uuid.UUID, error) {
	return decodeUuid(raw)
}

// `bytea` or `blob`, decodes into `[]byte`.
type Bytea struct{}

func (Bytea) SqlTypeInfo() TypeInfo { return TypeInfo{Kind: KindBytea} }
func (Bytea) notNull()              {}
func (Bytea) decode(raw interface{}) ([]byte, error) {
	return decodeBytes(raw)
}
