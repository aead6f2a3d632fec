package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/stetat/ToDo-bot/internal/cache"
	dom "github.com/stetat/ToDo-bot/internal/domain"
	"github.com/stetat/ToDo-bot/internal/repo"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("invalid input")
	ErrQuotaExceeded     = errors.New("daily advice limit reached")
	ErrAdviceUnavailable = errors.New("advice provider unavailable")
)

const maxDescriptionLen = 5000

// ReminderScheduler is the slice of the reminder subsystem the task flow
// needs. Implemented by reminder.Scheduler.
type ReminderScheduler interface {
	Schedule(taskID, ownerID int64, description string, fireAt time.Time)
	Cancel(taskID int64)
}

type TaskService struct {
	repo  repo.TaskRepo
	cache *cache.TaskCache
	sched ReminderScheduler
	lead  time.Duration
	sf    singleflight.Group
	log   *logrus.Entry
}

// NewTaskService creates a TaskService. If c is nil, caching is disabled.
// lead is how long before a deadline the reminder fires.
func NewTaskService(r repo.TaskRepo, c *cache.TaskCache, sched ReminderScheduler, lead time.Duration, log *logrus.Entry) *TaskService {
	return &TaskService{repo: r, cache: c, sched: sched, lead: lead, log: log}
}

// Create stores a new incomplete task. When deadlineDays is set, the
// deadline resolves to now + N days and a reminder is scheduled at
// deadline − lead. Only the absolute deadline is persisted, never N.
func (s *TaskService) Create(ctx context.Context, ownerID int64, description string, deadlineDays *int) (dom.Task, error) {
	description = strings.TrimSpace(description)
	if n := utf8.RuneCountInString(description); n < 1 || n > maxDescriptionLen {
		return dom.Task{}, fmt.Errorf("%w: description must be 1..%d characters, got %d", ErrValidation, maxDescriptionLen, n)
	}
	if deadlineDays != nil && *deadlineDays <= 0 {
		return dom.Task{}, fmt.Errorf("%w: deadline_days must be positive, got %d", ErrValidation, *deadlineDays)
	}

	now := time.Now().Truncate(time.Second)
	var deadline *time.Time
	if deadlineDays != nil {
		d := now.AddDate(0, 0, *deadlineDays)
		deadline = &d
	}

	t, err := s.repo.Create(ctx, dom.Task{
		OwnerID:     ownerID,
		Description: description,
		Status:      dom.StatusIncomplete,
		CreatedAt:   now,
		Deadline:    deadline,
	})
	if err != nil {
		return dom.Task{}, err
	}

	// The reminder is a secondary feature: the task is already persisted
	// and stays persisted whatever happens to the timer.
	if t.Deadline != nil {
		s.sched.Schedule(t.ID, t.OwnerID, t.Description, t.Deadline.Add(-s.lead))
	}

	s.invalidateCache(ctx, ownerID)
	return t, nil
}

// Complete resolves the ordinal against a fresh listing, marks the task
// done by its stable id and cancels its pending reminder. Re-completing an
// already-done task is allowed and idempotent.
func (s *TaskService) Complete(ctx context.Context, ownerID int64, ordinal int) (dom.Task, error) {
	list, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return dom.Task{}, err
	}
	t, err := resolveOrdinal(list, ordinal)
	if err != nil {
		return dom.Task{}, err
	}

	done, err := s.repo.MarkDone(ctx, ownerID, t.ID)
	if err != nil {
		// The task can vanish between the snapshot and the update if a
		// concurrent delete won.
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, fmt.Errorf("%w: task %d", ErrNotFound, ordinal)
		}
		return dom.Task{}, err
	}

	s.sched.Cancel(t.ID)
	s.invalidateCache(ctx, ownerID)
	return done, nil
}

// Delete removes the tasks at the given ordinals. All ordinals are resolved
// against ONE fresh snapshot, then deleted by stable id, so earlier deletes
// in the batch cannot shift later ones. Returns which ordinals were deleted
// and which were rejected as out of range.
func (s *TaskService) Delete(ctx context.Context, ownerID int64, ordinals []int) (deleted, rejected []int, err error) {
	list, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, nil, err
	}

	seen := make(map[int]bool, len(ordinals))
	ids := make(map[int]int64)
	for _, k := range ordinals {
		if seen[k] {
			continue
		}
		seen[k] = true
		if k < 1 || k > len(list) {
			rejected = append(rejected, k)
			continue
		}
		ids[k] = list[k-1].ID
	}

	for k, id := range ids {
		if err := s.repo.Delete(ctx, ownerID, id); err != nil {
			s.invalidateCache(ctx, ownerID)
			return nil, nil, err
		}
		s.sched.Cancel(id)
		deleted = append(deleted, k)
	}

	sort.Ints(deleted)
	sort.Ints(rejected)
	s.invalidateCache(ctx, ownerID)
	return deleted, rejected, nil
}

// List returns the owner's tasks in creation order, through the cache when
// one is configured.
func (s *TaskService) List(ctx context.Context, ownerID int64) ([]dom.Task, error) {
	if s.cache != nil {
		key := "list:" + strconv.FormatInt(ownerID, 10)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.GetList(ctx, ownerID); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.ListByOwner(ctx, ownerID)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetList(ctx, ownerID, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Task), nil
	}
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *TaskService) Count(ctx context.Context, ownerID int64) (int, error) {
	return s.repo.CountByOwner(ctx, ownerID)
}

func (s *TaskService) Summarize(ctx context.Context, ownerID int64) (dom.Summary, error) {
	return s.repo.Summarize(ctx, ownerID)
}

// Rehydrate re-schedules reminders for incomplete tasks whose fire time is
// still ahead. Called once at startup; timers do not survive restarts.
func (s *TaskService) Rehydrate(ctx context.Context) error {
	list, err := s.repo.ListIncompleteWithDeadline(ctx)
	if err != nil {
		return err
	}
	now := time.Now()
	n := 0
	for _, t := range list {
		fireAt := t.Deadline.Add(-s.lead)
		if fireAt.Before(now) {
			continue
		}
		s.sched.Schedule(t.ID, t.OwnerID, t.Description, fireAt)
		n++
	}
	s.log.WithField("count", n).Info("reminders rehydrated")
	return nil
}

// resolveOrdinal maps a 1-based position to the task record. The listing
// must be fetched in the same logical operation as the resolution; a
// listing from an earlier call can point at the wrong task after a delete.
func resolveOrdinal(list []dom.Task, ordinal int) (dom.Task, error) {
	if ordinal < 1 || ordinal > len(list) {
		return dom.Task{}, fmt.Errorf("%w: task %d", ErrNotFound, ordinal)
	}
	return list[ordinal-1], nil
}

func (s *TaskService) invalidateCache(ctx context.Context, ownerID int64) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, ownerID)
	}
}
