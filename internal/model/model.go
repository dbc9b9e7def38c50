// Package model defines the core data structures for StreakLedger.
package model

import "time"

// Task status constants.
const (
	StatusDone     = "Done"
	StatusArchived = "Archived"
)

// TaskRecord represents a single row of the task table.
type TaskRecord struct {
	Status    string
	TaskName  string
	Assignee  string
	Due       string // raw date string as it appeared in the source table
	EntityKey string // grouping identity for streaks
}

// EntityStats holds the streak and completion figures for one entity.
type EntityStats struct {
	EntityKey          string
	CurrentStreak      int
	LongestStreak      int
	TotalTasks         int
	CompletedTasks     int
	CurrentStreakStart *time.Time
	CurrentStreakEnd   *time.Time
}

// CompletionRatio returns CompletedTasks / TotalTasks, or 0 when the entity
// has no tasks.
func (s EntityStats) CompletionRatio() float64 {
	if s.TotalTasks == 0 {
		return 0
	}
	return float64(s.CompletedTasks) / float64(s.TotalTasks)
}

// Window is an inclusive date range. A nil Start or End leaves that side open.
type Window struct {
	Start *time.Time
	End   *time.Time
}

// Contains reports whether t falls within the window. A nil window contains
// every date.
func (w *Window) Contains(t time.Time) bool {
	if w == nil {
		return true
	}
	if w.Start != nil && t.Before(*w.Start) {
		return false
	}
	if w.End != nil && t.After(*w.End) {
		return false
	}
	return true
}

// SortKey selects the figure the presentation layer orders entities by.
type SortKey string

// Supported sort keys.
const (
	SortCurrentStreak SortKey = "current"
	SortLongestStreak SortKey = "longest"
)

// Value returns the figure of s that k refers to.
func (k SortKey) Value(s EntityStats) int {
	if k == SortLongestStreak {
		return s.LongestStreak
	}
	return s.CurrentStreak
}

// Label returns a human-readable name for the key.
func (k SortKey) Label() string {
	if k == SortLongestStreak {
		return "longest streak"
	}
	return "current streak"
}
