package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bryan-cox/streakledger/internal/dates"
	"github.com/bryan-cox/streakledger/internal/model"
)

// Format selects an output encoding.
type Format string

// Supported output formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat is returned by ParseFormat for unsupported formats.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w %q (want text, json or yaml)", ErrUnknownFormat, s)
}

// EntityDoc is the machine-readable form of model.EntityStats.
type EntityDoc struct {
	Entity             string  `json:"entity" yaml:"entity"`
	CurrentStreak      int     `json:"current_streak" yaml:"current_streak"`
	LongestStreak      int     `json:"longest_streak" yaml:"longest_streak"`
	TotalTasks         int     `json:"total_tasks" yaml:"total_tasks"`
	CompletedTasks     int     `json:"completed_tasks" yaml:"completed_tasks"`
	CompletionRatio    float64 `json:"completion_ratio" yaml:"completion_ratio"`
	CurrentStreakStart string  `json:"current_streak_start,omitempty" yaml:"current_streak_start,omitempty"`
	CurrentStreakEnd   string  `json:"current_streak_end,omitempty" yaml:"current_streak_end,omitempty"`
}

// NewEntityDocs converts stats, keeping their order.
func NewEntityDocs(stats []model.EntityStats) []EntityDoc {
	docs := make([]EntityDoc, 0, len(stats))
	for _, s := range stats {
		doc := EntityDoc{
			Entity:          s.EntityKey,
			CurrentStreak:   s.CurrentStreak,
			LongestStreak:   s.LongestStreak,
			TotalTasks:      s.TotalTasks,
			CompletedTasks:  s.CompletedTasks,
			CompletionRatio: math.Round(s.CompletionRatio()*10000) / 10000,
		}
		if s.CurrentStreakStart != nil {
			doc.CurrentStreakStart = dates.Format(*s.CurrentStreakStart)
		}
		if s.CurrentStreakEnd != nil {
			doc.CurrentStreakEnd = dates.Format(*s.CurrentStreakEnd)
		}
		docs = append(docs, doc)
	}
	return docs
}

// WriteJSON writes stats as an indented JSON array.
func WriteJSON(out io.Writer, stats []model.EntityStats) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewEntityDocs(stats)); err != nil {
		return fmt.Errorf("could not encode JSON: %w", err)
	}
	return nil
}

// WriteYAML writes stats as a YAML sequence.
func WriteYAML(out io.Writer, stats []model.EntityStats) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(NewEntityDocs(stats)); err != nil {
		return fmt.Errorf("could not encode YAML: %w", err)
	}
	return enc.Close()
}

// Render writes stats to out in the given format.
func Render(out io.Writer, format Format, stats []model.EntityStats, opts TextOptions) error {
	switch format {
	case FormatJSON:
		return WriteJSON(out, stats)
	case FormatYAML:
		return WriteYAML(out, stats)
	case FormatText, "":
		PrintText(out, stats, opts)
		return nil
	}
	return fmt.Errorf("%w %q", ErrUnknownFormat, format)
}
