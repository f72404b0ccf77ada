// Package db wraps database/sql over the embedded sqlite driver.
package db

import (
	"database/sql"

	"github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const (
	_defaultMaxPoolSize = 1
	_defaultURL         = "registrar.db"

	_driverName = "sqlite"
)

// Opener matches sql.Open, injectable for tests.
type Opener func(driverName, dataSourceName string) (*sql.DB, error)

// SQL -.
type SQL struct {
	maxPoolSize int
	foreignKeys bool

	Builder squirrel.StatementBuilderType
	DB      *sql.DB
}

// New opens the database at url (a default local file when empty) and applies
// the given options.
func New(url string, open Opener, opts ...Option) (*SQL, error) {
	s := &SQL{
		maxPoolSize: _defaultMaxPoolSize,
	}

	// Custom options
	for _, opt := range opts {
		opt(s)
	}

	if url == "" {
		url = _defaultURL
	}

	database, err := open(_driverName, url)
	if err != nil {
		return nil, err
	}

	database.SetMaxOpenConns(s.maxPoolSize)

	if s.foreignKeys {
		if _, err := database.Exec("PRAGMA foreign_keys = ON"); err != nil {
			database.Close()

			return nil, err
		}
	}

	s.DB = database
	s.Builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

	return s, nil
}

// Close -.
func (s *SQL) Close() error {
	if s.DB == nil {
		return nil
	}

	return s.DB.Close()
}
