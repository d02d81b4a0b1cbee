// Package profile loads and validates querent profiles. A profile carries the
// personal details the generator weaves into a reading's persona prompt.
package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tarotara/tarotara/internal/store"
)

// Profile is the file representation of a querent.
type Profile struct {
	Name       string `json:"name" yaml:"name"`
	DOB        string `json:"dob" yaml:"dob"`
	BirthPlace string `json:"birth_place" yaml:"birth_place"`
	BirthTime  string `json:"birth_time" yaml:"birth_time"`
	Gender     string `json:"gender" yaml:"gender"`
	Mood       string `json:"mood" yaml:"mood"`
	DaySummary string `json:"day_summary" yaml:"day_summary"`
	Language   string `json:"language" yaml:"language"`
}

// ValidationResult represents the outcome of a validation pass.
type ValidationResult struct {
	Valid    bool
	Warnings []string
	Errors   []string
}

// Loader reads and validates profile files.
type Loader struct{}

func New() *Loader {
	return &Loader{}
}

// Load reads a profile from a file (JSON or YAML).
func (l *Loader) Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}

	var p Profile
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal JSON profile: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal YAML profile: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported profile format: %s (use .json or .yaml)", ext)
	}

	return &p, nil
}

// Validate checks the profile for completeness and well-formed fields.
func (l *Loader) Validate(p Profile) ValidationResult {
	res := ValidationResult{
		Valid:    true,
		Warnings: []string{},
		Errors:   []string{},
	}

	if p.Name == "" {
		res.Valid = false
		res.Errors = append(res.Errors, "Name is required")
	}

	if p.DOB != "" {
		if _, err := time.Parse("2006-01-02", p.DOB); err != nil {
			res.Valid = false
			res.Errors = append(res.Errors, fmt.Sprintf("Date of birth must be YYYY-MM-DD: %v", err))
		}
	} else {
		res.Warnings = append(res.Warnings, "No date of birth given; readings will skip birth context")
	}

	if p.BirthTime != "" {
		if _, err := time.Parse("15:04", p.BirthTime); err != nil {
			res.Valid = false
			res.Errors = append(res.Errors, fmt.Sprintf("Birth time must be HH:MM: %v", err))
		}
	}

	if p.Language != "" && len(p.Language) != 2 {
		res.Valid = false
		res.Errors = append(res.Errors, "Language must be a two-letter ISO 639-1 code")
	}

	if p.Mood == "" && p.DaySummary == "" {
		res.Warnings = append(res.Warnings, "No mood or day summary; readings will not reflect the querent's current state")
	}

	return res
}

// ToStore converts a file profile into its storage form under the given ID.
func (p *Profile) ToStore(id string) *store.Profile {
	now := time.Now()
	return &store.Profile{
		ID:         id,
		Name:       p.Name,
		DOB:        p.DOB,
		BirthPlace: p.BirthPlace,
		BirthTime:  p.BirthTime,
		Gender:     p.Gender,
		Mood:       p.Mood,
		DaySummary: p.DaySummary,
		Language:   p.Language,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
