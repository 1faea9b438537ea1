package goql

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"time"

	"github.com/google/uuid"
)

/*
Raw value conversions. Drivers disagree on what they hand back: lib/pq returns
every integer as `int64` and most text as `string` or `[]byte`, while DuckDB
returns integers at their storage width. Numbers are range-checked against the
native width of the tag; text is parsed.
*/

func decodeInt(raw interface{}, bits int) (int64, error) {
	var val int64

	switch raw := raw.(type) {
	case int64:
		val = raw
	case int32:
		val = int64(raw)
	case int16:
		val = int64(raw)
	case int8:
		val = int64(raw)
	case int:
		val = int64(raw)
	case uint8:
		val = int64(raw)
	case uint16:
		val = int64(raw)
	case uint32:
		val = int64(raw)
	case uint64:
		if raw > math.MaxInt64 {
			return 0, fmt.Errorf(`value %d overflows int%d`, raw, bits)
		}
		val = int64(raw)
	// DuckDB returns HUGEINT, the result of SUM over integers, as *big.Int.
	case *big.Int:
		if raw == nil || !raw.IsInt64() {
			return 0, fmt.Errorf(`value %v overflows int%d`, raw, bits)
		}
		val = raw.Int64()
	case string:
		return strconv.ParseInt(raw, 10, bits)
	case []byte:
		return strconv.ParseInt(string(raw), 10, bits)
	default:
		return 0, unexpectedRaw(raw, `integer`)
	}

	if bits < 64 {
		lo, hi := int64(-1)<<(bits-1), int64(1)<<(bits-1)-1
		if val < lo || val > hi {
			return 0, fmt.Errorf(`value %d overflows int%d`, val, bits)
		}
	}
	return val, nil
}

func decodeFloat(raw interface{}, bits int) (float64, error) {
	var val float64

	switch raw := raw.(type) {
	case float64:
		val = raw
	case float32:
		return float64(raw), nil
	case string:
		return strconv.ParseFloat(raw, bits)
	case []byte:
		return strconv.ParseFloat(string(raw), bits)
	default:
		num, err := decodeInt(raw, 64)
		if err != nil {
			return 0, unexpectedRaw(raw, `float`)
		}
		val = float64(num)
	}

	if bits == 32 && !math.IsInf(val, 0) && math.Abs(val) > math.MaxFloat32 {
		return 0, fmt.Errorf(`value %v overflows float32`, val)
	}
	return val, nil
}

// Any scalar formats into text. See `SelectSQL` for why this is lenient.
func decodeString(raw interface{}) (string, error) {
	switch raw := raw.(type) {
	case string:
		return raw, nil
	case []byte:
		return string(raw), nil
	case int64:
		return strconv.FormatInt(raw, 10), nil
	case int32, int16, int8, int, uint8, uint16, uint32, uint64:
		return fmt.Sprint(raw), nil
	case float64:
		return strconv.FormatFloat(raw, 'g', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(raw), 'g', -1, 32), nil
	case bool:
		return strconv.FormatBool(raw), nil
	case time.Time:
		return raw.Format(time.RFC3339Nano), nil
	case fmt.Stringer:
		return raw.String(), nil
	default:
		return ``, unexpectedRaw(raw, `text`)
	}
}

func decodeBool(raw interface{}) (bool, error) {
	switch raw := raw.(type) {
	case bool:
		return raw, nil
	case string:
		return strconv.ParseBool(raw)
	case []byte:
		return strconv.ParseBool(string(raw))
	default:
		return false, unexpectedRaw(raw, `boolean`)
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	`2006-01-02 15:04:05.999999999Z07:00`,
	`2006-01-02 15:04:05.999999999Z07`,
	`2006-01-02 15:04:05.999999999`,
	`2006-01-02`,
}

func decodeTime(raw interface{}) (time.Time, error) {
	var text string

	switch raw := raw.(type) {
	case time.Time:
		return raw, nil
	case string:
		text = raw
	case []byte:
		text = string(raw)
	default:
		return time.Time{}, unexpectedRaw(raw, `timestamp`)
	}

	for _, layout := range timeLayouts {
		val, err := time.Parse(layout, text)
		if err == nil {
			return val, nil
		}
	}
	return time.Time{}, fmt.Errorf(`can't parse %q as a timestamp`, text)
}

func decodeUuid(raw interface{}) (uuid.UUID, error) {
	switch raw := raw.(type) {
	case uuid.UUID:
		return raw, nil
	case [16]byte:
		return uuid.UUID(raw), nil
	case []byte:
		if len(raw) == 16 {
			return uuid.FromBytes(raw)
		}
		return uuid.ParseBytes(raw)
	case string:
		return uuid.Parse(raw)
	case fmt.Stringer:
		return uuid.Parse(raw.String())
	default:
		return uuid.UUID{}, unexpectedRaw(raw, `uuid`)
	}
}

func decodeBytes(raw interface{}) ([]byte, error) {
	switch raw := raw.(type) {
	case []byte:
		out := make([]byte, len(raw))
		copy(out, raw)
		return out, nil
	case string:
		return []byte(raw), nil
	default:
		return nil, unexpectedRaw(raw, `bytea`)
	}
}

func unexpectedRaw(raw interface{}, target string) error {
	return fmt.Errorf(`can't decode %T %v as %s`, raw, raw, target)
}
