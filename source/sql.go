/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package source

import (
	"context"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"dirpx.dev/dictx/apis"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

const (
	selectItems = `SELECT code, item_key, item_value FROM dict_item ORDER BY code, item_key`
	upsertItem  = `INSERT INTO dict_item (code, item_key, item_value) VALUES (?, ?, ?)
ON CONFLICT (code, item_key) DO UPDATE SET item_value = excluded.item_value`
)

type item struct {
	Code  string `db:"code"`
	Key   string `db:"item_key"`
	Value string `db:"item_value"`
}

// SQL reads and writes dictionary rows in the dict_item table.
// The schema is created by Migrate.
type SQL struct {
	db *sqlx.DB
}

var _ apis.Source = (*SQL)(nil)

// NormalizeDriver maps common aliases onto a registered driver name.
func NormalizeDriver(driver string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "sqlite", "sqlite3":
		return DriverSQLite, nil
	case "pgx", "postgres", "postgresql":
		return DriverPostgres, nil
	default:
		return "", fmt.Errorf("dictx(source): unsupported driver %q", driver)
	}
}

// OpenSQL connects to dsn and verifies the connection.
func OpenSQL(ctx context.Context, driver, dsn string) (*SQL, error) {
	name, err := NormalizeDriver(driver)
	if err != nil {
		return nil, err
	}
	db, err := sqlx.ConnectContext(ctx, name, dsn)
	if err != nil {
		return nil, fmt.Errorf("dictx(source): connect %s: %w", name, err)
	}
	if name == DriverSQLite {
		// Serializes writers; sqlite3 has a single writer anyway.
		db.SetMaxOpenConns(1)
	}
	return &SQL{db: db}, nil
}

// NewSQL wraps an existing connection.
func NewSQL(db *sqlx.DB) *SQL {
	return &SQL{db: db}
}

// DB exposes the underlying connection.
func (s *SQL) DB() *sqlx.DB { return s.db }

// Close closes the connection.
func (s *SQL) Close() error { return s.db.Close() }

// Fetch reads every row. The fingerprint is computed over the decoded
// dictionary, since there is no raw payload.
func (s *SQL) Fetch(ctx context.Context) (apis.Payload, error) {
	var rows []item
	if err := s.db.SelectContext(ctx, &rows, selectItems); err != nil {
		return apis.Payload{}, fmt.Errorf("dictx(source): select dict_item: %w", err)
	}
	d := apis.Dictionary{}
	for _, r := range rows {
		bucket, ok := d[r.Code]
		if !ok {
			bucket = map[string]string{}
			d[r.Code] = bucket
		}
		bucket[r.Key] = r.Value
	}
	fp, err := FingerprintDictionary(d)
	if err != nil {
		return apis.Payload{}, err
	}
	return apis.Payload{Dictionary: d, Fingerprint: fp}, nil
}

// Put upserts every entry of d in one transaction. Blank codes are skipped.
func (s *SQL) Put(ctx context.Context, d apis.Dictionary) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("dictx(source): begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PreparexContext(ctx, tx.Rebind(upsertItem))
	if err != nil {
		return fmt.Errorf("dictx(source): prepare upsert: %w", err)
	}
	defer stmt.Close()

	for code, bucket := range d {
		if strings.TrimSpace(code) == "" {
			continue
		}
		for k, v := range bucket {
			if _, err = stmt.ExecContext(ctx, code, k, v); err != nil {
				return fmt.Errorf("dictx(source): upsert %s/%s: %w", code, k, err)
			}
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("dictx(source): commit: %w", err)
	}
	return nil
}
