// store_sqlite.go provides the optional on-disk store for the merged
// effect registry output (spec.md §6 "Output: optional merged effect
// registry"): a plain keyed table, no cache-invalidation policy
// attached — that remains explicitly out of scope. Grounded on the
// teacher's general database/sql usage pattern (open, ping, prepared
// statement, no ORM) with modernc.org/sqlite as the pure-Go driver the
// teacher's go.mod already carries as a direct dependency.
package registry

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS effect_registry (
	module   TEXT NOT NULL,
	function TEXT NOT NULL,
	arity    INTEGER NOT NULL,
	descriptor TEXT NOT NULL,
	PRIMARY KEY (module, function, arity)
)`

// OpenSQLiteStore opens (creating if absent) a sqlite database at path
// and ensures the effect_registry table exists.
func OpenSQLiteStore(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening registry store %s: %w", path, err)
	}
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating effect_registry table: %w", err)
	}
	return db, nil
}

// SaveSQLite persists every entry in r to db, replacing any existing
// row with the same (module, function, arity).
func (r *Registry) SaveSQLite(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO effect_registry (module, function, arity, descriptor) VALUES (?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for mfa, desc := range r.entries {
		encoded, err := encodeDescriptor(desc)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("encoding %s: %w", mfa, err)
		}
		if _, err := stmt.Exec(mfa.Module, mfa.Function, mfa.Arity, encoded); err != nil {
			tx.Rollback()
			return fmt.Errorf("writing %s: %w", mfa, err)
		}
	}
	return tx.Commit()
}

// LoadSQLite reads every row from db's effect_registry table into a
// new Registry.
func LoadSQLite(db *sql.DB) (*Registry, error) {
	rows, err := db.Query(`SELECT module, function, arity, descriptor FROM effect_registry`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make(map[MFA]Descriptor)
	for rows.Next() {
		var mod, fn, encoded string
		var arity int
		if err := rows.Scan(&mod, &fn, &arity, &encoded); err != nil {
			return nil, err
		}
		desc, err := decodeDescriptor(encoded)
		if err != nil {
			return nil, fmt.Errorf("decoding %s.%s/%d: %w", mod, fn, arity, err)
		}
		entries[MFA{Module: mod, Function: fn, Arity: arity}] = desc
	}
	return &Registry{entries: entries}, rows.Err()
}

// descriptorWire is the JSON-on-disk shape stored in the descriptor
// column: Descriptor already knows how to decode the seed-file token/
// object forms, but Redirect/Structured need their own simple envelope
// for round-tripping through a single TEXT column.
type descriptorWire struct {
	Token      string      `json:"token,omitempty"`
	Structured *Structured `json:"structured,omitempty"`
	Redirect   []MFA       `json:"redirect,omitempty"`
}

func encodeDescriptor(d Descriptor) (string, error) {
	w := descriptorWire{Token: d.Token, Structured: d.Structured, Redirect: d.Redirect}
	b, err := json.Marshal(w)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeDescriptor(encoded string) (Descriptor, error) {
	var w descriptorWire
	if err := json.Unmarshal([]byte(encoded), &w); err != nil {
		return Descriptor{}, err
	}
	return Descriptor{Token: w.Token, Structured: w.Structured, Redirect: w.Redirect}, nil
}
