package controllers

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/mdrsisme/lisan-sign/config"
)

// A minimal scripted database/sql driver. Each test installs a list of
// queryStub entries; a statement is answered by the first stub whose match
// string appears in its SQL. Every statement is also recorded so tests can
// assert which writes did or did not run.

type queryStub struct {
	match string
	cols  []string
	rows  [][]driver.Value
	err   error
}

var (
	stubMu  sync.Mutex
	stubSet []queryStub
	stubLog []string
)

func init() {
	sql.Register("stub", stubDriver{})
}

func useStubDB(t *testing.T, stubs []queryStub) {
	t.Helper()

	db, err := sql.Open("stub", "")
	if err != nil {
		t.Fatalf("opening stub db: %v", err)
	}

	stubMu.Lock()
	stubSet = stubs
	stubLog = nil
	stubMu.Unlock()

	prev := config.DB
	config.DB = db
	t.Cleanup(func() {
		config.DB = prev
		db.Close()
		stubMu.Lock()
		stubSet = nil
		stubMu.Unlock()
	})
}

func statementRan(substr string) bool {
	stubMu.Lock()
	defer stubMu.Unlock()
	for _, q := range stubLog {
		if strings.Contains(q, substr) {
			return true
		}
	}
	return false
}

func findStub(query string) *queryStub {
	stubMu.Lock()
	defer stubMu.Unlock()
	stubLog = append(stubLog, query)
	for i := range stubSet {
		if strings.Contains(query, stubSet[i].match) {
			return &stubSet[i]
		}
	}
	return nil
}

type stubDriver struct{}

func (stubDriver) Open(string) (driver.Conn, error) { return stubConn{}, nil }

type stubConn struct{}

func (stubConn) Prepare(string) (driver.Stmt, error) {
	return nil, fmt.Errorf("stub driver does not prepare")
}
func (stubConn) Close() error              { return nil }
func (stubConn) Begin() (driver.Tx, error) { return nil, fmt.Errorf("stub driver has no transactions") }

func (stubConn) QueryContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Rows, error) {
	stub := findStub(query)
	if stub == nil {
		return nil, fmt.Errorf("unscripted query: %s", query)
	}
	if stub.err != nil {
		return nil, stub.err
	}
	return &stubRows{cols: stub.cols, rows: stub.rows}, nil
}

func (stubConn) ExecContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Result, error) {
	stub := findStub(query)
	if stub == nil {
		return nil, fmt.Errorf("unscripted exec: %s", query)
	}
	if stub.err != nil {
		return nil, stub.err
	}
	return driver.RowsAffected(1), nil
}

type stubRows struct {
	cols []string
	rows [][]driver.Value
	next int
}

func (r *stubRows) Columns() []string { return r.cols }
func (r *stubRows) Close() error      { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.next >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.next])
	r.next++
	return nil
}
