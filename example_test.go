package goql_test

import (
	"context"
	"fmt"

	"github.com/mitranim/goql"
)

type userTable struct{}
type postTable struct{}

var users, usersId, usersName, usersAge = goql.Table3[
	userTable, goql.Serial, goql.VarChar, goql.Nullable[goql.SmallInt],
]("users", "id", "name", "age")

var posts, postsId, postsUserId, postsTitle = goql.Table3[
	postTable, goql.Serial, goql.Integer, goql.VarChar,
]("posts", "id", "user_id", "title")

type User struct {
	Id   int32
	Name string
	Age  *int16
}

func (self *User) Fields() goql.Binding[goql.Sig3[goql.Serial, goql.VarChar, goql.Nullable[goql.SmallInt]]] {
	return goql.Bind3(
		goql.Col[goql.Serial](&self.Id),
		goql.Col[goql.VarChar](&self.Name),
		goql.Opt[goql.SmallInt](&self.Age),
	)
}

type Post struct {
	Id     int32
	UserId int32
	Title  string
}

func (self *Post) Fields() goql.Binding[goql.Sig3[goql.Serial, goql.Integer, goql.VarChar]] {
	return goql.Bind3(
		goql.Col[goql.Serial](&self.Id),
		goql.Col[goql.Integer](&self.UserId),
		goql.Col[goql.VarChar](&self.Title),
	)
}

func ExampleQueryAll() {
	ctx := context.Background()

	conn, err := goql.Establish(ctx, `postgres://localhost/app?sslmode=disable`)
	if err != nil {
		panic(err)
	}
	defer conn.Close()

	cur, err := goql.QueryAll[User](ctx, conn, users)
	if err != nil {
		panic(err)
	}

	for user, err := range cur.All() {
		if err != nil {
			panic(err)
		}
		fmt.Println(user.Id, user.Name)
	}
}

func ExampleQueryPairs() {
	ctx := context.Background()

	var conn *goql.Conn
	join := goql.InnerJoin(posts, users, postsUserId, usersId)

	cur, err := goql.QueryPairs[Post, User](ctx, conn, join)
	if err != nil {
		panic(err)
	}

	pairs, err := cur.Collect()
	if err != nil {
		panic(err)
	}
	for _, pair := range pairs {
		fmt.Println(pair.First.Title, `by`, pair.Second.Name)
	}
}

func ExampleSelect2() {
	join := goql.InnerJoin(posts, users, postsUserId, usersId)
	sel := goql.Select2(join, goql.InRight(join, usersName), goql.InLeft(join, postsTitle))

	fmt.Println(goql.ToSQL(sel))
}

func ExampleSelectSQL() {
	ctx := context.Background()

	var conn *goql.Conn
	count, err := goql.QueryScalar[goql.BigInt, int64](ctx, conn, goql.SelectSQL[goql.BigInt](users, `COUNT(*)`))
	if err != nil {
		panic(err)
	}
	fmt.Println(count)
}

func ExampleStatement_Append() {
	ctx := context.Background()

	var conn *goql.Conn
	var stmt goql.Statement
	stmt.Append(`insert into users (name, age) values ($1, $2)`, `Sean`, nil)
	stmt.Append(`, ($1, $2)`, `Tess`, 30)

	err := conn.Exec(ctx, stmt)
	if err != nil {
		panic(err)
	}
}

func ExampleConfig_Establish() {
	conf, err := goql.LoadConfig(`goql.yaml`)
	if err != nil {
		panic(err)
	}

	conn, err := conf.Establish(context.Background())
	if err != nil {
		panic(err)
	}
	defer conn.Close()
}
