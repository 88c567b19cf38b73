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
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrations embed.FS

// MigrationURL turns a driver and DSN into a golang-migrate database URL.
func MigrationURL(driver, dsn string) (string, error) {
	name, err := NormalizeDriver(driver)
	if err != nil {
		return "", err
	}
	switch name {
	case DriverSQLite:
		return "sqlite3://" + strings.TrimPrefix(dsn, "file:"), nil
	default:
		for _, p := range []string{"postgres://", "postgresql://"} {
			if strings.HasPrefix(dsn, p) {
				return "pgx5://" + strings.TrimPrefix(dsn, p), nil
			}
		}
		return "", fmt.Errorf("dictx(source): postgres DSN must be a URL, got %q", dsn)
	}
}

// Migrate applies the embedded schema migrations to the database at url
// and returns the resulting schema version. An up-to-date schema is not an error.
func Migrate(url string) (version uint, err error) {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return 0, fmt.Errorf("dictx(source): migration source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return 0, fmt.Errorf("dictx(source): migration init: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if err == nil {
			err = errors.Join(srcErr, dbErr)
		}
	}()

	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("dictx(source): migration up: %w", err)
	}
	err = nil

	v, dirty, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return 0, fmt.Errorf("dictx(source): migration version: %w", verr)
	}
	if dirty {
		return v, fmt.Errorf("dictx(source): schema version %d is dirty", v)
	}
	return v, nil
}
