package goql

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"
	duckdb "github.com/marcboeker/go-duckdb"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Database driver behind a `Conn`.
type DriverName string

const (
	DriverPostgres DriverName = "postgres"
	DriverDuckDB   DriverName = "duckdb"
)

// Customizes `Establish`.
type Option func(*Conn)

// Logs statements to the given logger. The default logger discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(conn *Conn) { conn.log = log }
}

/*
One live database session. A connection runs one statement at a time: while a
`Cursor` from `QueryAll` is open, it holds the connection, and every other call
on the connection fails with `ErrBusy` until the cursor is exhausted or closed.
Concurrent callers must serialize access themselves or use separate
connections.
*/
type Conn struct {
	db     *sql.DB
	sess   *sql.Conn
	driver DriverName
	log    zerolog.Logger
	busy   sync.Mutex
}

/*
Opens a session. The driver is picked by the URL:

	postgres://user@localhost/app?sslmode=disable   lib/pq
	postgresql://...                                 lib/pq
	host=localhost dbname=app                        lib/pq
	duckdb:/path/to/file.duckdb                      go-duckdb
	duckdb:                                          go-duckdb, in memory

Failures are `ErrConnection`.
*/
func Establish(ctx context.Context, url string, opts ...Option) (*Conn, error) {
	conn := &Conn{log: zerolog.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(conn)
		}
	}

	name, dsn := parseDatabaseURL(url)
	conn.driver = name

	connector, err := newConnector(name, dsn)
	if err != nil {
		return nil, ErrConnection.while(`establishing connection`).because(errors.WithStack(err))
	}

	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(1)

	sess, err := db.Conn(ctx)
	if err != nil {
		_ = db.Close()
		return nil, ErrConnection.while(`establishing connection`).because(errors.WithStack(err))
	}

	err = sess.PingContext(ctx)
	if err != nil {
		_ = sess.Close()
		_ = db.Close()
		return nil, ErrConnection.while(`establishing connection`).because(errors.WithStack(err))
	}

	conn.db = db
	conn.sess = sess
	conn.log.Debug().Str("driver", string(name)).Msg("connection established")
	return conn, nil
}

func parseDatabaseURL(url string) (DriverName, string) {
	if strings.HasPrefix(url, `duckdb:`) {
		dsn := strings.TrimPrefix(url, `duckdb:`)
		if dsn == `:memory:` {
			dsn = ``
		}
		return DriverDuckDB, dsn
	}
	return DriverPostgres, url
}

func newConnector(name DriverName, dsn string) (driver.Connector, error) {
	if name == DriverDuckDB {
		return duckdb.NewConnector(dsn, nil)
	}
	return pq.NewConnector(dsn)
}

func (self *Conn) Driver() DriverName { return self.driver }

// Runs a statement with no typed result, such as DDL or an insert.
func (self *Conn) Execute(ctx context.Context, text string, args ...interface{}) error {
	return self.Exec(ctx, Statement{Text: text, Args: args})
}

// Same as `Conn.Execute` for a prepared `Statement`.
func (self *Conn) Exec(ctx context.Context, stmt Statement) error {
	err := self.acquire(`executing statement`)
	if err != nil {
		return err
	}
	defer self.release()

	start := time.Now()
	_, err = self.sess.ExecContext(ctx, stmt.Text, stmt.Args...)
	if err != nil {
		err = driverErr(`executing statement`, err)
		logElapsed(self.log.Warn(), start).Err(err).Str("sql", stmt.Text).Msg("statement failed")
		return err
	}

	logElapsed(self.log.Debug(), start).Str("sql", stmt.Text).Int("args", len(stmt.Args)).Msg("statement executed")
	return nil
}

/*
Ends the session. Fails with `ErrBusy` while a cursor is open; close the cursor
first.
*/
func (self *Conn) Close() error {
	err := self.acquire(`closing connection`)
	if err != nil {
		return err
	}
	defer self.release()

	sessErr := self.sess.Close()
	dbErr := self.db.Close()
	self.sess = nil
	self.db = nil

	if sessErr != nil {
		return driverErr(`closing connection`, sessErr)
	}
	return driverErr(`closing connection`, dbErr)
}

func (self *Conn) acquire(while string) error {
	if self == nil {
		return ErrInvalidInput.while(while).becausef(`nil connection`)
	}
	if !self.busy.TryLock() {
		return ErrBusy.while(while)
	}
	if self.sess == nil {
		self.busy.Unlock()
		return ErrConnection.while(while).becausef(`connection is closed`)
	}
	return nil
}

func (self *Conn) release() {
	self.busy.Unlock()
}
