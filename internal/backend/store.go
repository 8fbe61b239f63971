// Package backend is an embedded sqlite-backed quarry backend. It
// implements the client transport contract for local mode, examples, and
// tests, including a compiler for the supported query-DSL subset.
package backend

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - Initial schema (documents + schema_meta)
const currentSchemaVersion = 1

// Store provides durable document storage on SQLite with WAL mode.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path. ":memory:"
// opens a throwaway in-memory store. Idempotent: pragmas and schema are
// applied on every open.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect: %w", err)
	}

	// SQLite allows one writer at a time; a single connection avoids
	// SQLITE_BUSY and keeps the in-memory variant on one database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	_, err := db.Exec(`
		INSERT INTO schema_meta (key, value) VALUES ('schema_version', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, fmt.Sprint(currentSchemaVersion))
	if err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return nil
}

// Doc is one stored document row.
type Doc struct {
	Index   string
	ID      string
	Body    []byte
	Version int64
	Seq     int64
}

// Put stores a document, creating it or replacing its body. Returns the
// new version and whether the document was created.
func (s *Store) Put(ctx context.Context, index, id string, body []byte) (int64, bool, error) {
	if !json.Valid(body) {
		return 0, false, errors.New("document body is not valid JSON")
	}

	var version int64
	err := s.db.QueryRowContext(ctx,
		`SELECT version FROM documents WHERE idx = ? AND id = ?`, index, id,
	).Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO documents (idx, id, body, version, seq)
			VALUES (?, ?, ?, 1, (SELECT COALESCE(MAX(seq), 0) + 1 FROM documents))
		`, index, id, string(body))
		if err != nil {
			return 0, false, fmt.Errorf("insert document: %w", err)
		}
		return 1, true, nil
	case err != nil:
		return 0, false, fmt.Errorf("read version: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE documents SET body = ?, version = version + 1
		WHERE idx = ? AND id = ?
	`, string(body), index, id)
	if err != nil {
		return 0, false, fmt.Errorf("update document: %w", err)
	}
	return version + 1, false, nil
}

// Get returns a document, reporting found = false on a missing ID.
func (s *Store) Get(ctx context.Context, index, id string) (*Doc, bool, error) {
	d := &Doc{Index: index, ID: id}
	var body string
	err := s.db.QueryRowContext(ctx, `
		SELECT body, version, seq FROM documents WHERE idx = ? AND id = ?
	`, index, id).Scan(&body, &d.Version, &d.Seq)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read document: %w", err)
	}
	d.Body = []byte(body)
	return d, true, nil
}

// Delete removes a document, reporting whether it existed.
func (s *Store) Delete(ctx context.Context, index, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE idx = ? AND id = ?`, index, id)
	if err != nil {
		return false, fmt.Errorf("delete document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete document: %w", err)
	}
	return n > 0, nil
}

// Merge applies a shallow JSON merge of patch onto an existing document
// and bumps its version. Fails when the document does not exist.
func (s *Store) Merge(ctx context.Context, index, id string, patch []byte) (int64, error) {
	existing, found, err := s.Get(ctx, index, id)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, fmt.Errorf("document %s/%s not found", index, id)
	}

	var base, overlay map[string]any
	if err := json.Unmarshal(existing.Body, &base); err != nil {
		return 0, fmt.Errorf("decode stored document: %w", err)
	}
	if err := json.Unmarshal(patch, &overlay); err != nil {
		return 0, fmt.Errorf("decode patch: %w", err)
	}
	for k, v := range overlay {
		base[k] = v
	}
	merged, err := json.Marshal(base)
	if err != nil {
		return 0, fmt.Errorf("encode merged document: %w", err)
	}

	version, _, err := s.Put(ctx, index, id, merged)
	return version, err
}

// Search runs a compiled query over an index. Results are ordered by
// insertion sequence with an ID tiebreaker so repeated searches return
// identical order. size <= 0 means no limit.
func (s *Store) Search(ctx context.Context, index string, query map[string]any, size, from int) ([]Doc, int64, error) {
	where, params, err := compileQuery(query)
	if err != nil {
		return nil, 0, err
	}

	countSQL := "SELECT COUNT(*) FROM documents WHERE idx = ? AND " + where
	countParams := append([]any{index}, params...)
	var total int64
	if err := s.db.QueryRowContext(ctx, countSQL, countParams...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}

	// Deterministic ordering: seq with an ID COLLATE BINARY tiebreaker.
	querySQL := `SELECT id, body, version, seq FROM documents WHERE idx = ? AND ` +
		where + ` ORDER BY seq ASC, id COLLATE BINARY ASC`
	if size > 0 {
		querySQL += fmt.Sprintf(" LIMIT %d", size)
		if from > 0 {
			querySQL += fmt.Sprintf(" OFFSET %d", from)
		}
	} else if from > 0 {
		querySQL += fmt.Sprintf(" LIMIT -1 OFFSET %d", from)
	}

	rows, err := s.db.QueryContext(ctx, querySQL, countParams...)
	if err != nil {
		return nil, 0, fmt.Errorf("search: %w", err)
	}
	defer rows.Close()

	var docs []Doc
	for rows.Next() {
		d := Doc{Index: index}
		var body string
		if err := rows.Scan(&d.ID, &body, &d.Version, &d.Seq); err != nil {
			return nil, 0, fmt.Errorf("scan row: %w", err)
		}
		d.Body = []byte(body)
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate rows: %w", err)
	}
	if docs == nil {
		docs = []Doc{}
	}
	return docs, total, nil
}
