package goql

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/mitranim/refut"
)

/*
Untyped statement for `Conn.Exec`: DDL, inserts, transaction control. Nothing
here is checked against the schema; typed reads go through `Source`. Args are
always passed as parameters, never spliced into the text. Placeholders are
Postgres-style `$N`, which DuckDB accepts as well.
*/
type Statement struct {
	Text string
	Args []interface{}
}

/*
Adds a chunk of SQL and its args. Placeholders in the chunk count from `$1`
and are shifted past the args already collected, so chunks can be written in
isolation:

	var stmt Statement
	stmt.Append(`INSERT INTO users (name) VALUES ($1)`, "Sean")
	stmt.Append(`, ($1)`, "Tess")

	// stmt.Text: INSERT INTO users (name) VALUES ($1) , ($2)
	// stmt.Args: ["Sean", "Tess"]

Chunks are separated by one space unless either side already has whitespace
at the seam.
*/
func (self *Statement) Append(chunk string, args ...interface{}) {
	chunk = sqlRenumerateOrdinalParams(chunk, len(self.Args))
	if !isWhitespaceBetween(self.Text, chunk) {
		self.Text += " "
	}
	self.Text += chunk
	self.Args = append(self.Args, args...)
}

// Appends the chunk only for a non-nil arg. A nil pointer counts as nil.
func (self *Statement) MaybeAppend(chunk string, arg interface{}) {
	if !refut.IsNil(arg) {
		self.Append(chunk, arg)
	}
}

/*
Adds a chunk that refers to args by name, as `:name`. Each reference becomes
the next `$N` placeholder and its value is appended to the args; a name used
twice is passed twice. Casts like `::int` are not references.

	stmt.AppendNamed(`WHERE name = :name AND age > :age::smallint`, map[string]interface{}{
		"name": "Jim",
		"age":  18,
	})

Panics with `ErrInvalidInput` when a referenced name has no value.
*/
func (self *Statement) AppendNamed(chunk string, namedArgs map[string]interface{}) {
	chunk = namedParamRegexp.ReplaceAllStringFunc(chunk, func(match string) string {
		// Casts are matched too; RE2 has no lookbehind to exclude them.
		if match[:2] == "::" {
			return match
		}
		name := match[1:]

		arg, ok := namedArgs[name]
		if !ok {
			panic(ErrInvalidInput.while(`calling AppendNamed`).
				because(fmt.Errorf(`missing argument for the named parameter %q`, name)))
		}

		self.Args = append(self.Args, arg)
		return "$" + strconv.Itoa(len(self.Args))
	})

	if !isWhitespaceBetween(self.Text, chunk) {
		self.Text += " "
	}
	self.Text += chunk
}

var namedParamRegexp = regexp.MustCompile(`:?:\w+\b`)

// Copy with its own args slice. Appending to either side leaves the other intact.
func (self Statement) Copy() Statement {
	args := self.Args
	if args != nil {
		self.Args = make([]interface{}, len(args), cap(args))
		copy(self.Args, args)
	}
	return self
}
