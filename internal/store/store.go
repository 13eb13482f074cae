// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store keeps a local SQLite cache of the tweets and users the
// client has seen, so earlier results can be listed and exported offline.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/chirp/internal/logging"
	"github.com/pdiddy/chirp/pkg/types"
)

// DefaultPath is used when no store path is configured.
const DefaultPath = ".chirp/cache.db"

const defaultLimit = 50

// now is replaced in tests.
var now = func() time.Time { return time.Now().UTC() }

// Store is the cache database.
type Store struct {
	db  *sql.DB
	log *logging.Logger
}

// Open opens or creates the database at path and its schema.
func Open(path string, log *logging.Logger) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, log: logging.OrNop(log)}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL,
			name TEXT,
			record TEXT NOT NULL,
			seen_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_users_username ON users(username COLLATE NOCASE)`,
		`CREATE TABLE IF NOT EXISTS tweets (
			id TEXT PRIMARY KEY,
			author_id TEXT,
			username TEXT,
			text TEXT,
			conversation_id TEXT,
			created_at TEXT,
			record TEXT NOT NULL,
			seen_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tweets_username ON tweets(username COLLATE NOCASE)`,
		`CREATE INDEX IF NOT EXISTS idx_tweets_conversation ON tweets(conversation_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveTweets upserts tweets, their quoted tweets, and a stub user row for
// each author not cached yet. It returns the number of tweet rows written.
func (s *Store) SaveTweets(ctx context.Context, tweets []types.TweetRecord) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO tweets (id, author_id, username, text, conversation_id, created_at, record, seen_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			author_id=excluded.author_id, username=excluded.username, text=excluded.text,
			conversation_id=excluded.conversation_id, created_at=excluded.created_at,
			record=excluded.record, seen_at=excluded.seen_at`)
	if err != nil {
		return 0, fmt.Errorf("preparing tweet insert: %w", err)
	}
	defer stmt.Close()

	userStmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO users (id, username, name, record, seen_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing user insert: %w", err)
	}
	defer userStmt.Close()

	seenAt := now().Format(time.RFC3339Nano)
	written := 0
	var save func(t types.TweetRecord) error
	save = func(t types.TweetRecord) error {
		if t.ID == "" {
			return nil
		}
		record, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("encoding tweet %s: %w", t.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, t.ID, t.AuthorID, t.Author.Username, t.Text,
			t.ConversationID, t.CreatedAt, string(record), seenAt); err != nil {
			return fmt.Errorf("inserting tweet %s: %w", t.ID, err)
		}
		written++

		if t.AuthorID != "" && t.Author.Username != "" {
			u := types.UserRecord{ID: t.AuthorID, Username: t.Author.Username, Name: t.Author.Name}
			urec, err := json.Marshal(u)
			if err != nil {
				return fmt.Errorf("encoding user %s: %w", u.ID, err)
			}
			if _, err := userStmt.ExecContext(ctx, u.ID, u.Username, u.Name, string(urec), seenAt); err != nil {
				return fmt.Errorf("inserting user %s: %w", u.ID, err)
			}
		}
		if t.QuotedTweet != nil {
			return save(*t.QuotedTweet)
		}
		return nil
	}

	for _, t := range tweets {
		if err := save(t); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing tweets: %w", err)
	}
	s.log.Debug("store", "tweets_saved", logging.Fields{"count": written})
	return written, nil
}

// SaveUsers upserts full user profiles, replacing any stub rows.
func (s *Store) SaveUsers(ctx context.Context, users []types.UserRecord) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO users (id, username, name, record, seen_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			username=excluded.username, name=excluded.name,
			record=excluded.record, seen_at=excluded.seen_at`)
	if err != nil {
		return 0, fmt.Errorf("preparing user insert: %w", err)
	}
	defer stmt.Close()

	seenAt := now().Format(time.RFC3339Nano)
	written := 0
	for _, u := range users {
		if u.ID == "" {
			continue
		}
		record, err := json.Marshal(u)
		if err != nil {
			return 0, fmt.Errorf("encoding user %s: %w", u.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, u.ID, u.Username, u.Name, string(record), seenAt); err != nil {
			return 0, fmt.Errorf("inserting user %s: %w", u.ID, err)
		}
		written++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing users: %w", err)
	}
	s.log.Debug("store", "users_saved", logging.Fields{"count": written})
	return written, nil
}

// TweetQuery filters cached tweets. Zero fields match everything.
type TweetQuery struct {
	// Username matches the author handle, case-insensitively, with or
	// without "@".
	Username string

	// Contains is a case-insensitive substring of the text.
	Contains string

	ConversationID string

	// Limit defaults to 50.
	Limit int
}

// Tweets lists cached tweets, most recently seen first.
func (s *Store) Tweets(ctx context.Context, q TweetQuery) ([]types.TweetRecord, error) {
	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT record FROM tweets WHERE 1=1`)
	if q.Username != "" {
		qb.WriteString(` AND username = ? COLLATE NOCASE`)
		args = append(args, strings.TrimPrefix(q.Username, "@"))
	}
	if q.Contains != "" {
		qb.WriteString(` AND instr(lower(text), lower(?)) > 0`)
		args = append(args, q.Contains)
	}
	if q.ConversationID != "" {
		qb.WriteString(` AND conversation_id = ?`)
		args = append(args, q.ConversationID)
	}
	qb.WriteString(` ORDER BY seen_at DESC, id DESC LIMIT ?`)
	args = append(args, limit(q.Limit))

	return queryRecords[types.TweetRecord](ctx, s.db, qb.String(), args...)
}

// UserQuery filters cached users.
type UserQuery struct {
	// Contains is a case-insensitive substring of the handle or name.
	Contains string
	Limit    int
}

// Users lists cached users, most recently seen first.
func (s *Store) Users(ctx context.Context, q UserQuery) ([]types.UserRecord, error) {
	query := `SELECT record FROM users`
	var args []any
	if q.Contains != "" {
		query += ` WHERE instr(lower(username), lower(?)) > 0 OR instr(lower(name), lower(?)) > 0`
		args = append(args, q.Contains, q.Contains)
	}
	query += ` ORDER BY seen_at DESC, id DESC LIMIT ?`
	args = append(args, limit(q.Limit))

	return queryRecords[types.UserRecord](ctx, s.db, query, args...)
}

// Counts reports how many rows each table holds.
type Counts struct {
	Tweets int `json:"tweets" yaml:"tweets"`
	Users  int `json:"users" yaml:"users"`
}

// Stats counts cached rows.
func (s *Store) Stats(ctx context.Context) (Counts, error) {
	var c Counts
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM tweets`).Scan(&c.Tweets); err != nil {
		return Counts{}, fmt.Errorf("counting tweets: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM users`).Scan(&c.Users); err != nil {
		return Counts{}, fmt.Errorf("counting users: %w", err)
	}
	return c, nil
}

func limit(n int) int {
	if n <= 0 {
		return defaultLimit
	}
	return n
}

func queryRecords[T any](ctx context.Context, db *sql.DB, query string, args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying store: %w", err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		var v T
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("decoding cached record: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return out, nil
}
