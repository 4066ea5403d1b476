package credential

// The sqlite database is opened lazily and created on first use.
// If opening the DB fails the store falls back to in-memory storage, so reads
// never surface storage errors.

import (
	"database/sql"
	"errors"
	"strings"
	"sync"

	_ "github.com/glebarez/go-sqlite"

	"github.com/comigor/memoria/internal/logger"
)

// TokenKey identifies the bearer token row in persistent storage.
const TokenKey = "token"

// SQLiteStore persists the token in a small sqlite database.
type SQLiteStore struct {
	path string

	dbOnce  sync.Once
	db      *sql.DB
	initErr error

	mem MemoryStore // in-memory fallback
}

// NewSQLiteStore returns a store backed by the database file at path.
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// initDB lazily opens the database and creates the credentials table.
func (s *SQLiteStore) initDB() {
	var err error
	s.db, err = sql.Open("sqlite", "file:"+s.path+"?_busy_timeout=10000")
	if err != nil {
		s.initErr = err
		logger.L.Warn("sqlite open failed; using in-memory credentials", "error", err)
		return
	}
	if _, err = s.db.Exec(`CREATE TABLE IF NOT EXISTS credentials (
        key TEXT PRIMARY KEY,
        value TEXT NOT NULL
    );`); err != nil {
		s.initErr = err
		logger.L.Warn("sqlite table creation failed; using in-memory credentials", "error", err)
		return
	}
	logger.L.Debug("sqlite credential store initialized", "path", s.path)
}

func (s *SQLiteStore) ready() bool {
	s.dbOnce.Do(s.initDB)
	return s.initErr == nil && s.db != nil
}

// Get reads the token. Storage errors are logged and reported as absent.
func (s *SQLiteStore) Get() (Credential, bool) {
	if !s.ready() {
		return s.mem.Get()
	}
	var value string
	err := s.db.QueryRow(`SELECT value FROM credentials WHERE key = ?;`, TokenKey).Scan(&value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", false
	case err != nil:
		logger.L.Warn("failed to read credential; treating as absent", "error", err)
		return "", false
	}
	return Credential(value), value != ""
}

// Set stores the token, replacing any previous one.
func (s *SQLiteStore) Set(c Credential) error {
	if !s.ready() {
		return s.mem.Set(c)
	}
	_, err := s.db.Exec(`INSERT INTO credentials (key, value) VALUES (?, ?)
        ON CONFLICT(key) DO UPDATE SET value = excluded.value;`, TokenKey, strings.TrimSpace(string(c)))
	return err
}

// Clear removes the token.
func (s *SQLiteStore) Clear() error {
	if !s.ready() {
		return s.mem.Clear()
	}
	_, err := s.db.Exec(`DELETE FROM credentials WHERE key = ?;`, TokenKey)
	return err
}

// Close releases the database handle if it was opened.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
