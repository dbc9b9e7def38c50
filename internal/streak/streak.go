// Package streak computes per-entity completion streaks from task records.
package streak

import (
	"sort"
	"time"

	"github.com/bryan-cox/streakledger/internal/dates"
	"github.com/bryan-cox/streakledger/internal/model"
)

// Analyzer derives EntityStats from task records. The zero value uses the
// default date parser and the standard Done/Archived status names.
type Analyzer struct {
	Dates          *dates.Parser
	DoneStatus     string
	ArchivedStatus string
}

// Analyze runs a default Analyzer over records.
func Analyze(records []model.TaskRecord, window *model.Window) []model.EntityStats {
	var a Analyzer
	return a.Analyze(records, window)
}

// datedRecord pairs a record with its parsed due date.
type datedRecord struct {
	model.TaskRecord
	due time.Time
}

// Analyze filters records to window, orders them by due date and replays
// them entity by entity. Entities are returned in the order the replay first
// meets them. Records outside the window never touch any streak.
func (a *Analyzer) Analyze(records []model.TaskRecord, window *model.Window) []model.EntityStats {
	dated := make([]datedRecord, 0, len(records))
	for _, rec := range records {
		due := a.Dates.Parse(rec.Due)
		if !window.Contains(due) {
			continue
		}
		dated = append(dated, datedRecord{TaskRecord: rec, due: due})
	}

	// Stable so equal dates keep their input order.
	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].due.Before(dated[j].due)
	})

	entities := newEntitySet()
	for _, rec := range dated {
		a.apply(entities.get(rec.EntityKey), rec.Status, rec.due)
	}
	return entities.list()
}

// apply advances the streak state machine of s by one record.
func (a *Analyzer) apply(s *model.EntityStats, status string, due time.Time) {
	s.TotalTasks++

	switch status {
	case a.doneStatus():
		s.CompletedTasks++
		s.CurrentStreak++
		if s.CurrentStreak > s.LongestStreak {
			s.LongestStreak = s.CurrentStreak
		}
		if s.CurrentStreakStart == nil {
			start := due
			s.CurrentStreakStart = &start
		}
		end := due
		s.CurrentStreakEnd = &end
	case a.archivedStatus():
		s.CurrentStreak = 0
		s.CurrentStreakStart = nil
		s.CurrentStreakEnd = nil
	}
}

func (a *Analyzer) doneStatus() string {
	if a.DoneStatus == "" {
		return model.StatusDone
	}
	return a.DoneStatus
}

func (a *Analyzer) archivedStatus() string {
	if a.ArchivedStatus == "" {
		return model.StatusArchived
	}
	return a.ArchivedStatus
}

// entitySet is an insertion-ordered map from entity key to its stats.
type entitySet struct {
	index map[string]*model.EntityStats
	order []*model.EntityStats
}

func newEntitySet() *entitySet {
	return &entitySet{index: make(map[string]*model.EntityStats)}
}

func (e *entitySet) get(key string) *model.EntityStats {
	if s, ok := e.index[key]; ok {
		return s
	}
	s := &model.EntityStats{EntityKey: key}
	e.index[key] = s
	e.order = append(e.order, s)
	return s
}

func (e *entitySet) list() []model.EntityStats {
	out := make([]model.EntityStats, 0, len(e.order))
	for _, s := range e.order {
		out = append(out, *s)
	}
	return out
}
