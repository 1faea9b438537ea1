package goql

import (
	"regexp"
	"strconv"
	"unsafe"

	"github.com/lib/pq"
)

/*
Quotes an identifier with double quotes, doubling any embedded quote. The
Postgres rules, which DuckDB follows as well.
*/
func appendIdent(buf []byte, ident string) []byte {
	return append(buf, pq.QuoteIdentifier(ident)...)
}

/*
Allocation-free conversion. Reinterprets a byte slice as a string. Borrowed from
the standard library. Reasonably safe. Should not be used when the underlying
byte array is volatile, for example when it's part of a scratch buffer.
*/
func bytesToMutableString(bytes []byte) string {
	return *(*string)(unsafe.Pointer(&bytes))
}

/*
Renumerates "$1" param placeholders by adding the given offset.

TODO: better parser that ignores $N inside string literals. The parser should be
used for both this and `Statement.AppendNamed`.
*/
func sqlRenumerateOrdinalParams(query string, offset int) string {
	if offset == 0 {
		return query
	}
	return postgresPositionalParamRegexp.ReplaceAllStringFunc(query, func(match string) string {
		num, err := strconv.Atoi(match[1:])
		if err != nil {
			panic(err)
		}
		return "$" + strconv.Itoa(num+offset)
	})
}

var postgresPositionalParamRegexp = regexp.MustCompile(`\$\d+\b`)

func isWhitespaceBetween(left string, right string) bool {
	return left == "" || endWhitespaceRegexp.MatchString(left) || startWhitespaceRegexp.MatchString(right)
}

var startWhitespaceRegexp = regexp.MustCompile(`^[\n\s]`)
var endWhitespaceRegexp = regexp.MustCompile(`[\n\s]$`)
