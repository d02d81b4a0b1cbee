package store

import "time"

// Profile holds the user info collected at session start. It is passed
// through to generation as configuration context only.
type Profile struct {
	ID         string
	Name       string
	DOB        string
	BirthPlace string
	BirthTime  string
	Gender     string
	Mood       string
	DaySummary string
	Language   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Reading is one archived formatted reading.
type Reading struct {
	ID        string
	SessionID string
	Question  string
	Intent    string
	Text      string
	CreatedAt time.Time
}

// Chunk is a corpus fragment with its similarity to a query, as returned by
// SearchChunks.
type Chunk struct {
	Content    string
	Source     string
	Similarity float32
}

// Storage defines the interface for persistence
type Storage interface {
	// Profile Management
	SaveProfile(profile *Profile) error
	GetProfile(id string) (*Profile, error)

	// Reading Archive
	SaveReading(reading *Reading) error
	ListReadings(sessionID string) ([]*Reading, error)

	// Configuration Management
	SetConfig(key, value string) error
	GetConfig(key string) (string, error)

	// Corpus Index
	AddChunk(content, source string, vector []float32) error
	SearchChunks(vector []float32, limit int) ([]Chunk, error)
	CountChunks() (int, error)

	Close() error
}
