/*
Go Query Layer: statically checked query construction and result decoding over
`database/sql`. Declare tables and their SQL types once, compose
select/join queries, and decode rows into your own types. The shape of every
query is checked against the declared schema by the Go compiler, before any
round trip, and without reflection.

NOT AN ORM. There's no query planning, no migrations and no connection pool;
one `Conn` is one database session.

Key Features

• SQL types are Go types: `Integer`, `VarChar`, `Nullable[SmallInt]` and so on.
Nullability is part of the type; `SmallInt` and `Nullable[SmallInt]` never
match each other, and there's no widening between types.

• Tables are declared with a lineage marker, and their columns carry it. Selecting
a column of another table doesn't compile. See `Table3`, `Select2`.

• Decoding targets are bound to one output signature. Decoding a query into a
target of a different signature doesn't compile. See `Queryable`.

• Joins concatenate signatures, left first, and decode into pairs. See
`InnerJoin`, `QueryPairs`.

• Raw SQL enters typed queries in exactly one place, `SelectSQL`, where the
caller asserts the result type.

• Rows are decoded lazily, one per `Cursor.Scan`.

Declaring A Schema

	type userTable struct{}
	type postTable struct{}

	var users, usersId, usersName, usersAge = goql.Table3[
		userTable, goql.Serial, goql.VarChar, goql.Nullable[goql.SmallInt],
	]("users", "id", "name", "age")

	var posts, postsId, postsUserId, postsTitle = goql.Table3[
		postTable, goql.Serial, goql.Integer, goql.VarChar,
	]("posts", "id", "user_id", "title")

The declaration must mirror the real schema. Nothing checks it against the
database; a mismatch shows up as `ErrDatabase` when the database rejects the
rendered SQL, or as `ErrDecode` when a value doesn't fit.

Binding Decoding Targets

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

`Col` accepts only the native type of the tag (`int32` for `Serial`), and
`Opt` is the only way to bind a `Nullable` tag.

Querying

	conn, err := goql.Establish(ctx, os.Getenv("DATABASE_URL"))

	all, err := goql.QueryAll[User](ctx, conn, users)

	join := goql.InnerJoin(posts, users, postsUserId, usersId)
	pairs, err := goql.QueryPairs[Post, User](ctx, conn, join)

	titles := goql.Select1(join, goql.InLeft(join, postsTitle))

	count, err := goql.QueryScalar[goql.BigInt, int64](ctx, conn, goql.SelectSQL[goql.BigInt](users, `COUNT(*)`))

Rendered SQL qualifies every column with its table:

	SELECT "posts"."id", "posts"."user_id", "posts"."title", "users"."id", "users"."name", "users"."age"
	FROM "posts" INNER JOIN "users" ON "posts"."user_id" = "users"."id"

Errors

Every failure is an `Err` with a code; compare with `errors.Is` against
`ErrSchema`, `ErrConnection`, `ErrDatabase`, `ErrDecode`, `ErrNoRows` and
`ErrBusy`.
*/
package goql
