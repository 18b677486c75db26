package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/custodia-labs/custodia/internal/errors"
)

// dialect holds the statements for one SQL engine. Every engine uses the same
// documents table (see migrations/).
type dialect struct {
	upsert string
	get    string
	del    string
	list   string
}

var dialects = map[string]dialect{
	"postgres": {
		upsert: `INSERT INTO documents (collection, doc_key, body, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (collection, doc_key) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`,
		get:  `SELECT body FROM documents WHERE collection = $1 AND doc_key = $2`,
		del:  `DELETE FROM documents WHERE collection = $1 AND doc_key = $2`,
		list: `SELECT doc_key FROM documents WHERE collection = $1 ORDER BY doc_key`,
	},
	"mysql": {
		upsert: `INSERT INTO documents (collection, doc_key, body, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE body = VALUES(body), updated_at = VALUES(updated_at)`,
		get:  `SELECT body FROM documents WHERE collection = ? AND doc_key = ?`,
		del:  `DELETE FROM documents WHERE collection = ? AND doc_key = ?`,
		list: `SELECT doc_key FROM documents WHERE collection = ? ORDER BY doc_key`,
	},
	"sqlite": {
		upsert: `INSERT INTO documents (collection, doc_key, body, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (collection, doc_key) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		get:  `SELECT body FROM documents WHERE collection = ? AND doc_key = ?`,
		del:  `DELETE FROM documents WHERE collection = ? AND doc_key = ?`,
		list: `SELECT doc_key FROM documents WHERE collection = ? ORDER BY doc_key`,
	},
}

// SQLStore implements Store on a relational database. Documents are stored as JSON.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
}

// NewSQLStore creates a SQLStore for driver ("postgres", "mysql" or "sqlite").
func NewSQLStore(db *sql.DB, driver string) (*SQLStore, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
	return &SQLStore{db: db, dialect: d}, nil
}

// Put upserts doc under (collection, key).
func (s *SQLStore) Put(ctx context.Context, collection, key string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	now := time.Now().UTC()
	if _, err := s.db.ExecContext(ctx, s.dialect.upsert, collection, key, string(body), now, now); err != nil {
		return apperrors.Unavailable(err, "docstore put")
	}
	return nil
}

// Get decodes the document under (collection, key) into out.
func (s *SQLStore) Get(ctx context.Context, collection, key string, out any) error {
	var body []byte
	err := s.db.QueryRowContext(ctx, s.dialect.get, collection, key).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return apperrors.Unavailable(err, "docstore get")
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	return nil
}

// Delete removes the document under (collection, key).
func (s *SQLStore) Delete(ctx context.Context, collection, key string) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.del, collection, key); err != nil {
		return apperrors.Unavailable(err, "docstore delete")
	}
	return nil
}

// List returns the keys of collection in ascending order.
func (s *SQLStore) List(ctx context.Context, collection string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.list, collection)
	if err != nil {
		return nil, apperrors.Unavailable(err, "docstore list")
	}
	defer func() { _ = rows.Close() }()

	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, apperrors.Unavailable(err, "docstore list")
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Unavailable(err, "docstore list")
	}
	return keys, nil
}

// Ping checks the database connection.
func (s *SQLStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return apperrors.Unavailable(err, "docstore ping")
	}
	return nil
}
