package timelog

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"craftmotion/studio-api/internal/apperr"
	"craftmotion/studio-api/models"
)

const defaultRate = int64(10000) // 100.00/h

func entry(projectID uuid.UUID, seconds int64, billable bool) models.TimeEntry {
	return models.TimeEntry{
		ID:              uuid.New(),
		UserID:          uuid.New(),
		ProjectID:       projectID,
		DurationSeconds: seconds,
		Date:            time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		Billable:        billable,
	}
}

func TestAggregateByProject(t *testing.T) {
	big := uuid.New()
	small := uuid.New()
	entries := []models.TimeEntry{
		entry(big, 7200, true),
		entry(big, 3600, true),
		entry(small, 1800, true),
	}

	groups, err := Aggregate(entries, ByProject, AggregateOptions{DefaultRateCents: defaultRate})
	require.NoError(t, err)
	require.Len(t, groups, 2)

	// Sorted by descending total duration.
	assert.Equal(t, big.String(), groups[0].Key)
	assert.Equal(t, int64(10800), groups[0].TotalDurationSeconds)
	assert.Equal(t, int64(30000), groups[0].TotalAmountCents) // 3h * 100.00
	assert.Equal(t, 2, groups[0].EntryCount)

	assert.Equal(t, small.String(), groups[1].Key)
	assert.Equal(t, int64(5000), groups[1].TotalAmountCents) // 0.5h * 100.00
}

func TestAggregateSkipsNonBillableAndInvoiced(t *testing.T) {
	projectID := uuid.New()
	invoiced := entry(projectID, 3600, true)
	invoiced.Invoiced = true
	entries := []models.TimeEntry{
		entry(projectID, 3600, false),
		invoiced,
		entry(projectID, 1800, true),
	}

	groups, err := Aggregate(entries, ByProject, AggregateOptions{DefaultRateCents: defaultRate})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, int64(1800), groups[0].TotalDurationSeconds)
	assert.Equal(t, 1, groups[0].EntryCount)
}

func TestAggregateUsesEntryRateOverDefault(t *testing.T) {
	projectID := uuid.New()
	custom := entry(projectID, 3600, true)
	rate := int64(15000)
	custom.HourlyRateCents = &rate

	groups, err := Aggregate([]models.TimeEntry{custom}, ByProject, AggregateOptions{DefaultRateCents: defaultRate})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, int64(15000), groups[0].TotalAmountCents)
}

func TestAggregateByClient(t *testing.T) {
	projectA := uuid.New()
	projectB := uuid.New()
	clientID := uuid.New()
	opts := AggregateOptions{
		DefaultRateCents: defaultRate,
		ClientForProject: map[uuid.UUID]uuid.UUID{projectA: clientID, projectB: clientID},
	}

	groups, err := Aggregate([]models.TimeEntry{
		entry(projectA, 3600, true),
		entry(projectB, 3600, true),
	}, ByClient, opts)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, clientID.String(), groups[0].Key)
	assert.Equal(t, int64(7200), groups[0].TotalDurationSeconds)
}

func TestAggregateByDateUsesUTCDay(t *testing.T) {
	projectID := uuid.New()
	late := entry(projectID, 3600, true)
	// 23:30 UTC-5 is the next day in UTC.
	late.Date = time.Date(2025, 3, 10, 23, 30, 0, 0, time.FixedZone("EST", -5*3600))
	early := entry(projectID, 1800, true)
	early.Date = time.Date(2025, 3, 11, 8, 0, 0, 0, time.UTC)

	groups, err := Aggregate([]models.TimeEntry{late, early}, ByDate, AggregateOptions{DefaultRateCents: defaultRate})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "2025-03-11", groups[0].Key)
}

func TestAggregateEmptyInput(t *testing.T) {
	groups, err := Aggregate(nil, ByProject, AggregateOptions{DefaultRateCents: defaultRate})
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestAggregateUnknownGroupBy(t *testing.T) {
	_, err := Aggregate(nil, GroupBy("week"), AggregateOptions{})
	assert.True(t, apperr.Is(err, apperr.Validation))
}

func TestTaskProgress(t *testing.T) {
	taskID := uuid.New()
	estimate := 10.0
	task := models.Task{ID: taskID, EstimatedHours: &estimate}

	e1 := entry(uuid.New(), 4*3600, true)
	e1.TaskID = &taskID
	e2 := entry(uuid.New(), 3600, true)
	e2.TaskID = &taskID
	unrelated := entry(uuid.New(), 3600, true)

	p := TaskProgress(task, []models.TimeEntry{e1, e2, unrelated})
	assert.Equal(t, 5.0, p.ActualHours)
	require.NotNil(t, p.Percent)
	assert.Equal(t, 50, *p.Percent)
}

func TestTaskProgressCapsAtHundred(t *testing.T) {
	taskID := uuid.New()
	estimate := 1.0
	task := models.Task{ID: taskID, EstimatedHours: &estimate}

	e := entry(uuid.New(), 10*3600, true)
	e.TaskID = &taskID

	p := TaskProgress(task, []models.TimeEntry{e})
	require.NotNil(t, p.Percent)
	assert.Equal(t, 100, *p.Percent)
}

func TestTaskProgressWithoutEstimate(t *testing.T) {
	task := models.Task{ID: uuid.New()}
	p := TaskProgress(task, nil)
	assert.Equal(t, 0.0, p.ActualHours)
	assert.Nil(t, p.Percent)
}

func TestProjectStats(t *testing.T) {
	doneID, openID := uuid.New(), uuid.New()
	est1, est2 := 8.0, 4.0
	tasks := []models.Task{
		{ID: doneID, Status: models.TaskDone, EstimatedHours: &est1},
		{ID: openID, Status: models.TaskInProgress, EstimatedHours: &est2},
		{ID: uuid.New(), Status: models.TaskTodo},
	}

	e := entry(uuid.New(), 2*3600, true)
	e.TaskID = &doneID

	stats := ProjectStats(tasks, []models.TimeEntry{e})
	assert.Equal(t, 3, stats.TotalTasks)
	assert.Equal(t, 1, stats.CompletedTasks)
	assert.Equal(t, 33, stats.ProgressPercent)
	assert.Equal(t, 2.0, stats.TotalActualHours)
	assert.Equal(t, 12.0, stats.TotalEstimatedHours)
}

func TestProjectStatsEmpty(t *testing.T) {
	stats := ProjectStats(nil, nil)
	assert.Equal(t, 0, stats.ProgressPercent)
	assert.Equal(t, 0, stats.TotalTasks)
}

func TestEnsureMutable(t *testing.T) {
	e := entry(uuid.New(), 3600, true)
	assert.NoError(t, EnsureMutable(e))

	e.Invoiced = true
	assert.True(t, apperr.Is(EnsureMutable(e), apperr.Validation))
}
