package goql

import (
	"errors"
	"testing"
)

func TestStatement_Append(t *testing.T) {
	var stmt Statement
	stmt.Append(`insert into users (name) values ($1)`, "Sean")
	stmt.Append(`, ($1)`, "Tess")
	stmt.Append(`, ($1), ($2)`, "Jim", "Ann")

	eq(t, Statement{
		Text: `insert into users (name) values ($1) , ($2) , ($3), ($4)`,
		Args: []interface{}{"Sean", "Tess", "Jim", "Ann"},
	}, stmt)
}

func TestStatement_Append_whitespace(t *testing.T) {
	var stmt Statement
	stmt.Append(`select 1`)
	stmt.Append("\nunion all select 2 ")
	stmt.Append(`union all select 3`)
	eq(t, "select 1\nunion all select 2 union all select 3", stmt.Text)
	eq(t, 0, len(stmt.Args))
}

func TestStatement_MaybeAppend(t *testing.T) {
	var stmt Statement
	stmt.Append(`update users set name = $1`, "Sean")

	var age *int16
	stmt.MaybeAppend(`, age = $1`, age)
	stmt.MaybeAppend(`, age = $1`, nil)
	eq(t, `update users set name = $1`, stmt.Text)

	stmt.MaybeAppend(`, age = $1`, int16Ptr(30))
	eq(t, `update users set name = $1 , age = $2`, stmt.Text)
	eq(t, 2, len(stmt.Args))
}

func TestStatement_AppendNamed(t *testing.T) {
	var stmt Statement
	stmt.Append(`select * from users where id = $1`, 10)
	stmt.AppendNamed(`and name = :name and age > :age::smallint`, map[string]interface{}{
		"name": "Sean",
		"age":  int16(18),
	})

	eq(t, Statement{
		Text: `select * from users where id = $1 and name = $2 and age > $3::smallint`,
		Args: []interface{}{10, "Sean", int16(18)},
	}, stmt)
}

func TestStatement_AppendNamed_missing(t *testing.T) {
	var stmt Statement
	err := catchPanic(func() {
		stmt.AppendNamed(`select :one, :two`, map[string]interface{}{"one": 1})
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf(`expected panic with ErrInvalidInput, got %+v`, err)
	}
}

func TestStatement_Copy(t *testing.T) {
	var stmt Statement
	stmt.Append(`select $1`, 1)

	other := stmt.Copy()
	other.Append(`, $1`, 2)
	other.Args[0] = 10

	eq(t, Statement{Text: `select $1`, Args: []interface{}{1}}, stmt)
	eq(t, Statement{Text: `select $1 , $2`, Args: []interface{}{10, 2}}, other)

	eq(t, Statement{}, Statement{}.Copy())
}

func TestStatement_AppendNamed_repeated(t *testing.T) {
	var stmt Statement
	stmt.AppendNamed(`select :id where :id > 0`, map[string]interface{}{"id": 7})

	eq(t, Statement{Text: `select $1 where $2 > 0`, Args: []interface{}{7, 7}}, stmt)
}
