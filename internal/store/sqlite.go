package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			name TEXT,
			dob TEXT,
			birth_place TEXT,
			birth_time TEXT,
			gender TEXT,
			mood TEXT,
			day_summary TEXT,
			language TEXT,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS readings (
			id TEXT PRIMARY KEY,
			session_id TEXT,
			question TEXT,
			intent TEXT,
			text TEXT,
			created_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS configuration (
			key TEXT PRIMARY KEY,
			value TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS chunks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			content TEXT,
			source TEXT,
			vector BLOB
		);`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to init schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Configuration Implementation

func (s *SQLiteStore) SetConfig(key, value string) error {
	query := `INSERT INTO configuration (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	_, err := s.db.Exec(query, key, value)
	return err
}

func (s *SQLiteStore) GetConfig(key string) (string, error) {
	query := `SELECT value FROM configuration WHERE key = ?`
	row := s.db.QueryRow(query, key)
	var value string
	if err := row.Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

// Profile Implementation

func (s *SQLiteStore) SaveProfile(profile *Profile) error {
	query := `INSERT INTO profiles (id, name, dob, birth_place, birth_time, gender, mood, day_summary, language, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, dob = excluded.dob, birth_place = excluded.birth_place,
			birth_time = excluded.birth_time, gender = excluded.gender, mood = excluded.mood,
			day_summary = excluded.day_summary, language = excluded.language, updated_at = excluded.updated_at`
	now := time.Now()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now
	_, err := s.db.Exec(query, profile.ID, profile.Name, profile.DOB, profile.BirthPlace,
		profile.BirthTime, profile.Gender, profile.Mood, profile.DaySummary, profile.Language,
		profile.CreatedAt, profile.UpdatedAt)
	return err
}

func (s *SQLiteStore) GetProfile(id string) (*Profile, error) {
	query := `SELECT id, name, dob, birth_place, birth_time, gender, mood, day_summary, language, created_at, updated_at
		FROM profiles WHERE id = ?`
	row := s.db.QueryRow(query, id)

	var p Profile
	if err := row.Scan(&p.ID, &p.Name, &p.DOB, &p.BirthPlace, &p.BirthTime, &p.Gender,
		&p.Mood, &p.DaySummary, &p.Language, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("profile not found: %s", id)
		}
		return nil, err
	}
	return &p, nil
}

// Reading Archive Implementation

func (s *SQLiteStore) SaveReading(reading *Reading) error {
	query := `INSERT INTO readings (id, session_id, question, intent, text, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	if reading.CreatedAt.IsZero() {
		reading.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(query, reading.ID, reading.SessionID, reading.Question, reading.Intent, reading.Text, reading.CreatedAt)
	return err
}

func (s *SQLiteStore) ListReadings(sessionID string) ([]*Reading, error) {
	query := `SELECT id, session_id, question, intent, text, created_at FROM readings WHERE session_id = ? ORDER BY created_at`
	rows, err := s.db.Query(query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var readings []*Reading
	for rows.Next() {
		var r Reading
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Question, &r.Intent, &r.Text, &r.CreatedAt); err != nil {
			return nil, err
		}
		readings = append(readings, &r)
	}
	return readings, rows.Err()
}
