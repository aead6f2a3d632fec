package service

import (
	"context"
	"strings"
	"testing"
	"time"

	dom "github.com/stetat/ToDo-bot/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTaskServiceForTests() (*TaskService, *memTaskRepo, *fakeScheduler) {
	repo := newMemTaskRepo()
	sched := &fakeScheduler{}
	svc := NewTaskService(repo, nil, sched, 24*time.Hour, testLogger())
	return svc, repo, sched
}

func intPtr(n int) *int { return &n }

func TestTaskService_ListReturnsCreationOrder(t *testing.T) {
	svc, _, _ := newTaskServiceForTests()
	ctx := context.Background()

	for _, desc := range []string{"first", "second", "third"} {
		_, err := svc.Create(ctx, 1, desc, nil)
		require.NoError(t, err)
	}

	list, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "first", list[0].Description)
	assert.Equal(t, "second", list[1].Description)
	assert.Equal(t, "third", list[2].Description)
}

func TestTaskService_ListIsScopedToOwner(t *testing.T) {
	svc, _, _ := newTaskServiceForTests()
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, "mine", nil)
	require.NoError(t, err)
	_, err = svc.Create(ctx, 2, "theirs", nil)
	require.NoError(t, err)

	list, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "mine", list[0].Description)
}

func TestTaskService_CreateValidation(t *testing.T) {
	svc, _, _ := newTaskServiceForTests()
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, "   ", nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, 1, strings.Repeat("x", 5001), nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, 1, "ok", intPtr(0))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, 1, "ok", intPtr(-3))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTaskService_CreateResolvesDeadline(t *testing.T) {
	svc, _, _ := newTaskServiceForTests()
	ctx := context.Background()

	task, err := svc.Create(ctx, 1, "with deadline", intPtr(2))
	require.NoError(t, err)
	require.NotNil(t, task.Deadline)
	assert.True(t, task.Deadline.Equal(task.CreatedAt.AddDate(0, 0, 2)))
	assert.Equal(t, task.CreatedAt, task.CreatedAt.Truncate(time.Second))

	noDeadline, err := svc.Create(ctx, 1, "without", nil)
	require.NoError(t, err)
	assert.Nil(t, noDeadline.Deadline)
}

func TestTaskService_CreateSchedulesReminderDayBeforeDeadline(t *testing.T) {
	svc, _, sched := newTaskServiceForTests()
	ctx := context.Background()

	task, err := svc.Create(ctx, 42, "write report", intPtr(2))
	require.NoError(t, err)

	require.Len(t, sched.scheduled, 1)
	call := sched.scheduled[0]
	assert.Equal(t, task.ID, call.taskID)
	assert.Equal(t, int64(42), call.ownerID)
	assert.Equal(t, "write report", call.description)
	assert.True(t, call.fireAt.Equal(task.Deadline.Add(-24*time.Hour)))
	assert.True(t, call.fireAt.Equal(task.CreatedAt.AddDate(0, 0, 1)))
}

func TestTaskService_CreateWithoutDeadlineSchedulesNothing(t *testing.T) {
	svc, _, sched := newTaskServiceForTests()

	_, err := svc.Create(context.Background(), 1, "no deadline", nil)
	require.NoError(t, err)
	assert.Empty(t, sched.scheduled)
}

func TestTaskService_CompleteMarksDoneAndCancelsReminder(t *testing.T) {
	svc, _, sched := newTaskServiceForTests()
	ctx := context.Background()

	task, err := svc.Create(ctx, 1, "deadline task", intPtr(3))
	require.NoError(t, err)

	done, err := svc.Complete(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, dom.StatusDone, done.Status)
	assert.Equal(t, "deadline task", done.Description)
	require.NotNil(t, done.Deadline)
	assert.Equal(t, []int64{task.ID}, sched.cancelled)
}

func TestTaskService_CompleteDoesNotTouchOtherTasks(t *testing.T) {
	svc, _, _ := newTaskServiceForTests()
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, "a", nil)
	require.NoError(t, err)
	_, err = svc.Create(ctx, 1, "b", nil)
	require.NoError(t, err)

	_, err = svc.Complete(ctx, 1, 1)
	require.NoError(t, err)

	list, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, dom.StatusDone, list[0].Status)
	assert.Equal(t, dom.StatusIncomplete, list[1].Status)
	assert.Equal(t, "b", list[1].Description)
}

func TestTaskService_CompleteIsIdempotent(t *testing.T) {
	svc, _, _ := newTaskServiceForTests()
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, "twice", nil)
	require.NoError(t, err)

	_, err = svc.Complete(ctx, 1, 1)
	require.NoError(t, err)
	done, err := svc.Complete(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, dom.StatusDone, done.Status)
}

func TestTaskService_CompleteOrdinalOutOfRange(t *testing.T) {
	svc, _, _ := newTaskServiceForTests()
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, "only one", nil)
	require.NoError(t, err)

	_, err = svc.Complete(ctx, 1, 0)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Complete(ctx, 1, 2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskService_DeleteShiftsOrdinals(t *testing.T) {
	svc, _, _ := newTaskServiceForTests()
	ctx := context.Background()

	for _, desc := range []string{"a", "b", "c"} {
		_, err := svc.Create(ctx, 1, desc, nil)
		require.NoError(t, err)
	}

	deleted, rejected, err := svc.Delete(ctx, 1, []int{2})
	require.NoError(t, err)
	assert.Equal(t, []int{2}, deleted)
	assert.Empty(t, rejected)

	list, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Description)
	assert.Equal(t, "c", list[1].Description)
}

func TestTaskService_DeletePartitionsOrdinals(t *testing.T) {
	svc, _, _ := newTaskServiceForTests()
	ctx := context.Background()

	for _, desc := range []string{"a", "b", "c"} {
		_, err := svc.Create(ctx, 7, desc, nil)
		require.NoError(t, err)
	}

	deleted, rejected, err := svc.Delete(ctx, 7, []int{1, 5})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, deleted)
	assert.Equal(t, []int{5}, rejected)

	n, err := svc.Count(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestTaskService_DeleteResolvesAgainstOneSnapshot(t *testing.T) {
	svc, _, _ := newTaskServiceForTests()
	ctx := context.Background()

	for _, desc := range []string{"a", "b", "c"} {
		_, err := svc.Create(ctx, 1, desc, nil)
		require.NoError(t, err)
	}

	// Both ordinals refer to the same snapshot: 1="a", 3="c". If deletes
	// shifted positions mid-batch, 3 would miss.
	deleted, rejected, err := svc.Delete(ctx, 1, []int{1, 3})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, deleted)
	assert.Empty(t, rejected)

	list, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].Description)
}

func TestTaskService_SummarizeScenario(t *testing.T) {
	svc, _, _ := newTaskServiceForTests()
	ctx := context.Background()

	_, err := svc.Create(ctx, 42, "A", nil)
	require.NoError(t, err)
	_, err = svc.Create(ctx, 42, "B", nil)
	require.NoError(t, err)

	n, err := svc.Count(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	s, err := svc.Summarize(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, dom.Summary{Total: 2, Done: 0, Incomplete: 2}, s)

	_, err = svc.Complete(ctx, 42, 1)
	require.NoError(t, err)

	s, err = svc.Summarize(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, dom.Summary{Total: 2, Done: 1, Incomplete: 1}, s)
}

func TestTaskService_RehydrateSchedulesOnlyFutureReminders(t *testing.T) {
	repo := newMemTaskRepo()
	sched := &fakeScheduler{}
	svc := NewTaskService(repo, nil, sched, 24*time.Hour, testLogger())
	ctx := context.Background()

	future := time.Now().Add(72 * time.Hour)
	past := time.Now().Add(-time.Hour)
	seed := []dom.Task{
		{OwnerID: 1, Description: "future", Status: dom.StatusIncomplete, Deadline: &future},
		{OwnerID: 1, Description: "past", Status: dom.StatusIncomplete, Deadline: &past},
		{OwnerID: 1, Description: "done", Status: dom.StatusDone, Deadline: &future},
		{OwnerID: 1, Description: "no deadline", Status: dom.StatusIncomplete},
	}
	for _, t2 := range seed {
		_, err := repo.Create(ctx, t2)
		require.NoError(t, err)
	}

	require.NoError(t, svc.Rehydrate(ctx))
	require.Len(t, sched.scheduled, 1)
	assert.Equal(t, "future", sched.scheduled[0].description)
	assert.True(t, sched.scheduled[0].fireAt.Equal(future.Add(-24*time.Hour)))
}
