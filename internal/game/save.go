package game

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// SaveDir is where session snapshots land. Overridden from config at
// startup.
var SaveDir = ".saves"

// saveFile is the on-disk snapshot of a session: everything needed to
// review a playthrough. The locale is deliberately absent; language
// choice is not persisted. Cached translated views are derived data and
// are not saved either.
type saveFile struct {
	SessionID string        `yaml:"session_id"`
	CountryID string        `yaml:"country_id"`
	Year      int           `yaml:"year"`
	Metrics   Metrics       `yaml:"metrics"`
	Baseline  Metrics       `yaml:"baseline"`
	Score     float64       `yaml:"score"`
	History   []HistoryItem `yaml:"history"`
}

// Save writes the session snapshot to SaveDir/<session-id>.yaml.
func (s *Session) Save() error {
	if err := os.MkdirAll(SaveDir, 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(saveFile{
		SessionID: s.ID.String(),
		CountryID: s.Country.ID,
		Year:      s.Year,
		Metrics:   s.Metrics,
		Baseline:  s.Baseline,
		Score:     s.Score,
		History:   s.History.Canonical(),
	})
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(SaveDir, s.ID.String()+".yaml"), data, 0644)
}

// LoadSession reads a snapshot back into a session. Translated views
// are not restored; the first locale switch re-derives them.
func LoadSession(id string) (*Session, error) {
	data, err := os.ReadFile(filepath.Join(SaveDir, id+".yaml"))
	if err != nil {
		return nil, err
	}
	var sf saveFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, err
	}
	country, ok := CountryByID(sf.CountryID)
	if !ok {
		return nil, fmt.Errorf("save references unknown country %q", sf.CountryID)
	}

	s := newSession(country)
	if uid, parseErr := uuid.Parse(sf.SessionID); parseErr == nil {
		s.ID = uid
	}
	s.Year = sf.Year
	s.Metrics = sf.Metrics
	s.Baseline = sf.Baseline
	s.Score = sf.Score
	s.History.canonical = sf.History
	return s, nil
}

// ListSessions returns the IDs of all saved sessions.
func ListSessions() ([]string, error) {
	entries, err := os.ReadDir(SaveDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(entry.Name(), ".yaml"))
	}
	return ids, nil
}
