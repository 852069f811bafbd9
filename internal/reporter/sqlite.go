package reporter

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

const createReportTableSQL = `
CREATE TABLE IF NOT EXISTS effect_report (
	module   TEXT NOT NULL,
	function TEXT NOT NULL,
	arity    INTEGER NOT NULL,
	effect   TEXT NOT NULL,
	tag      TEXT NOT NULL,
	detail   TEXT NOT NULL,
	type     TEXT NOT NULL,
	PRIMARY KEY (module, function, arity)
)`

// SQLiteReporter persists a Report into a queryable sqlite database,
// the same open/create-table/prepared-statement shape
// internal/registry's store uses for the merged registry.
type SQLiteReporter struct {
	Path string
}

func (s *SQLiteReporter) Write(report Report) error {
	db, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return fmt.Errorf("opening report store %s: %w", s.Path, err)
	}
	defer db.Close()

	if _, err := db.Exec(createReportTableSQL); err != nil {
		return fmt.Errorf("creating effect_report table: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO effect_report (module, function, arity, effect, tag, detail, type) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, r := range report.Records {
		if _, err := stmt.Exec(r.Module, r.Function, r.Arity, r.Effect, r.Tag, strings.Join(r.Detail, ","), r.Type); err != nil {
			tx.Rollback()
			return fmt.Errorf("inserting %s.%s/%d: %w", r.Module, r.Function, r.Arity, err)
		}
	}

	return tx.Commit()
}
