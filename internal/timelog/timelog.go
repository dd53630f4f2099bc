// Package timelog derives reporting views from raw time entries: grouped
// billing totals, task progress and project stats. Everything here is a
// pure read-side computation; an empty input produces an empty result, not
// an error.
//
// Date grouping is UTC-normalized: an entry's calendar day is its date
// truncated to day in UTC. Callers feeding dates must stay consistent with
// that.
package timelog

import (
	"math"
	"sort"

	"github.com/google/uuid"

	"craftmotion/studio-api/internal/apperr"
	"craftmotion/studio-api/internal/money"
	"craftmotion/studio-api/models"
)

// GroupBy selects the grouping key for a billing report.
type GroupBy string

const (
	ByProject GroupBy = "project"
	ByClient  GroupBy = "client"
	ByDate    GroupBy = "date"
)

// Valid reports whether g is a known grouping.
func (g GroupBy) Valid() bool {
	return g == ByProject || g == ByClient || g == ByDate
}

// Group is one bucket of a billing report.
type Group struct {
	Key                  string `json:"key"`
	EntryCount           int    `json:"entry_count"`
	TotalDurationSeconds int64  `json:"total_duration_seconds"`
	TotalAmountCents     int64  `json:"total_amount_cents"`
}

// AggregateOptions configure a report run.
type AggregateOptions struct {
	// DefaultRateCents applies to entries without an explicit hourly rate.
	DefaultRateCents int64
	// ClientForProject maps project to owning client; required for
	// ByClient grouping.
	ClientForProject map[uuid.UUID]uuid.UUID
}

// Aggregate groups billable, not-yet-invoiced entries by the chosen key and
// totals duration and amount per group, sorted by descending total
// duration. Non-billable and already-invoiced entries are skipped.
func Aggregate(entries []models.TimeEntry, groupBy GroupBy, opts AggregateOptions) ([]Group, error) {
	if !groupBy.Valid() {
		return nil, apperr.New(apperr.Validation, "unknown groupBy %q", groupBy)
	}

	buckets := make(map[string]*Group)
	for _, e := range entries {
		if !e.Billable || e.Invoiced {
			continue
		}
		key, ok := groupKey(e, groupBy, opts)
		if !ok {
			continue
		}
		g, exists := buckets[key]
		if !exists {
			g = &Group{Key: key}
			buckets[key] = g
		}
		g.EntryCount++
		g.TotalDurationSeconds += e.DurationSeconds
		g.TotalAmountCents += money.FromHours(e.Hours(), rateFor(e, opts.DefaultRateCents))
	}

	groups := make([]Group, 0, len(buckets))
	for _, g := range buckets {
		groups = append(groups, *g)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].TotalDurationSeconds != groups[j].TotalDurationSeconds {
			return groups[i].TotalDurationSeconds > groups[j].TotalDurationSeconds
		}
		return groups[i].Key < groups[j].Key
	})
	return groups, nil
}

func groupKey(e models.TimeEntry, groupBy GroupBy, opts AggregateOptions) (string, bool) {
	switch groupBy {
	case ByProject:
		return e.ProjectID.String(), true
	case ByClient:
		clientID, ok := opts.ClientForProject[e.ProjectID]
		if !ok {
			return "", false
		}
		return clientID.String(), true
	case ByDate:
		return e.Date.UTC().Format("2006-01-02"), true
	}
	return "", false
}

func rateFor(e models.TimeEntry, defaultRateCents int64) int64 {
	if e.HourlyRateCents != nil {
		return *e.HourlyRateCents
	}
	return defaultRateCents
}

// Progress is a task's derived effort.
type Progress struct {
	ActualHours float64 `json:"actual_hours"`
	// Percent is nil when the task has no estimate.
	Percent *int `json:"percent,omitempty"`
}

// TaskProgress recomputes a task's actual hours from the entries that
// reference it. The percentage is min(100, round(actual/estimated*100))
// when an estimate exists, undefined otherwise.
func TaskProgress(task models.Task, entries []models.TimeEntry) Progress {
	var seconds int64
	for _, e := range entries {
		if e.TaskID != nil && *e.TaskID == task.ID {
			seconds += e.DurationSeconds
		}
	}
	p := Progress{ActualHours: float64(seconds) / 3600}
	if task.EstimatedHours != nil && *task.EstimatedHours > 0 {
		pct := int(math.Round(p.ActualHours / *task.EstimatedHours * 100))
		if pct > 100 {
			pct = 100
		}
		p.Percent = &pct
	}
	return p
}

// Stats summarize a project's task board.
type Stats struct {
	TotalTasks          int     `json:"total_tasks"`
	CompletedTasks      int     `json:"completed_tasks"`
	ProgressPercent     int     `json:"progress_percent"`
	TotalActualHours    float64 `json:"total_actual_hours"`
	TotalEstimatedHours float64 `json:"total_estimated_hours"`
}

// ProjectStats computes board-level numbers: completion ratio across tasks,
// total actual hours (from entries linked to the project's tasks) and total
// estimated hours over tasks that carry an estimate.
func ProjectStats(tasks []models.Task, entries []models.TimeEntry) Stats {
	stats := Stats{TotalTasks: len(tasks)}
	for _, task := range tasks {
		if task.Status == models.TaskDone {
			stats.CompletedTasks++
		}
		if task.EstimatedHours != nil {
			stats.TotalEstimatedHours += *task.EstimatedHours
		}
		stats.TotalActualHours += TaskProgress(task, entries).ActualHours
	}
	if stats.TotalTasks > 0 {
		stats.ProgressPercent = int(math.Round(float64(stats.CompletedTasks) / float64(stats.TotalTasks) * 100))
	}
	return stats
}

// EnsureMutable rejects edits to entries already consumed by an invoice.
func EnsureMutable(e models.TimeEntry) error {
	if e.Invoiced {
		return apperr.New(apperr.Validation, "time entry is already invoiced and can no longer be changed")
	}
	return nil
}
