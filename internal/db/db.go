package db

import (
	"database/sql"
	_ "embed"
	"strconv"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

//go:embed schema.sql
var schema string

const (
	keyLastView       = "last_view"
	keyLastPositionID = "last_position_id"
)

// DB holds local UI settings. Backend data is never stored here.
type DB struct {
	*sql.DB
}

// New opens (or creates) the settings database at path
func New(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, errors.Wrapf(err, "open settings db %s", path)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "init settings schema")
	}

	return &DB{db}, nil
}

// GetSetting returns "" for unknown keys
func (db *DB) GetSetting(key string) (string, error) {
	var value string
	err := db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, errors.Wrapf(err, "get setting %s", key)
}

func (db *DB) SetSetting(key, value string) error {
	_, err := db.Exec(`
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value)
	return errors.Wrapf(err, "set setting %s", key)
}

// LastView is the name of the page open when the app last quit
func (db *DB) LastView() (string, error) {
	return db.GetSetting(keyLastView)
}

func (db *DB) SetLastView(name string) error {
	return db.SetSetting(keyLastView, name)
}

// LastPositionID returns 0 when no position was opened yet
func (db *DB) LastPositionID() (int64, error) {
	v, err := db.GetSetting(keyLastPositionID)
	if err != nil || v == "" {
		return 0, err
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parse %s", keyLastPositionID)
	}
	return id, nil
}

func (db *DB) SetLastPositionID(id int64) error {
	return db.SetSetting(keyLastPositionID, strconv.FormatInt(id, 10))
}
