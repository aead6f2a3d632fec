package service

import (
	"context"
	"io"
	"sync"
	"time"

	dom "github.com/stetat/ToDo-bot/internal/domain"
	"github.com/stetat/ToDo-bot/internal/utils"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

// memTaskRepo keeps tasks in insertion order with monotonically assigned,
// never-reused ids, mirroring the BIGSERIAL contract.
type memTaskRepo struct {
	mu     sync.Mutex
	nextID int64
	tasks  []dom.Task
}

func newMemTaskRepo() *memTaskRepo { return &memTaskRepo{} }

func (r *memTaskRepo) Create(ctx context.Context, t dom.Task) (dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	t.ID = r.nextID
	r.tasks = append(r.tasks, t)
	return t, nil
}

func (r *memTaskRepo) ListByOwner(ctx context.Context, ownerID int64) ([]dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []dom.Task
	for _, t := range r.tasks {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memTaskRepo) CountByOwner(ctx context.Context, ownerID int64) (int, error) {
	list, _ := r.ListByOwner(ctx, ownerID)
	return len(list), nil
}

func (r *memTaskRepo) MarkDone(ctx context.Context, ownerID, id int64) (dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, t := range r.tasks {
		if t.OwnerID == ownerID && t.ID == id {
			r.tasks[i].Status = dom.StatusDone
			return r.tasks[i], nil
		}
	}
	return dom.Task{}, pgx.ErrNoRows
}

func (r *memTaskRepo) Delete(ctx context.Context, ownerID, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, t := range r.tasks {
		if t.OwnerID == ownerID && t.ID == id {
			r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *memTaskRepo) Summarize(ctx context.Context, ownerID int64) (dom.Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var s dom.Summary
	for _, t := range r.tasks {
		if t.OwnerID != ownerID {
			continue
		}
		s.Total++
		switch t.Status {
		case dom.StatusDone:
			s.Done++
		case dom.StatusIncomplete:
			s.Incomplete++
		}
	}
	return s, nil
}

func (r *memTaskRepo) ListIncompleteWithDeadline(ctx context.Context) ([]dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []dom.Task
	for _, t := range r.tasks {
		if t.Status == dom.StatusIncomplete && t.Deadline != nil {
			out = append(out, t)
		}
	}
	return out, nil
}

type scheduledCall struct {
	taskID      int64
	ownerID     int64
	description string
	fireAt      time.Time
}

// fakeScheduler records schedule and cancel calls.
type fakeScheduler struct {
	mu        sync.Mutex
	scheduled []scheduledCall
	cancelled []int64
}

func (s *fakeScheduler) Schedule(taskID, ownerID int64, description string, fireAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheduled = append(s.scheduled, scheduledCall{taskID, ownerID, description, fireAt})
}

func (s *fakeScheduler) Cancel(taskID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelled = append(s.cancelled, taskID)
}

// memQuotaRepo reproduces the lazy-rollover contract in memory.
type memQuotaRepo struct {
	mu   sync.Mutex
	rows map[int64]*dom.UsageLimit
}

func newMemQuotaRepo() *memQuotaRepo {
	return &memQuotaRepo{rows: make(map[int64]*dom.UsageLimit)}
}

func (r *memQuotaRepo) addUser(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[userID] = &dom.UsageLimit{UserID: userID}
}

func (r *memQuotaRepo) setRow(ul dom.UsageLimit) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[ul.UserID] = &ul
}

func (r *memQuotaRepo) row(userID int64) dom.UsageLimit {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.rows[userID]
}

func (r *memQuotaRepo) CheckAndRoll(ctx context.Context, userID int64, limit int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ul, ok := r.rows[userID]
	if !ok {
		return false, pgx.ErrNoRows
	}
	if ul.Unlimited {
		return true, nil
	}
	now := time.Now()
	if ul.Day == nil || !utils.SameDay(*ul.Day, now) {
		day := now
		ul.Day = &day
		ul.RequestsCount = 0
		return true, nil
	}
	return ul.RequestsCount < limit, nil
}

func (r *memQuotaRepo) Consume(ctx context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ul, ok := r.rows[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	ul.RequestsCount++
	return nil
}

func (r *memQuotaRepo) GrantUnlimited(ctx context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ul, ok := r.rows[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	ul.Unlimited = true
	return nil
}

// fakeAdvisor returns a canned answer or error and counts calls.
type fakeAdvisor struct {
	mu     sync.Mutex
	answer string
	err    error
	calls  int
}

func (a *fakeAdvisor) Advise(ctx context.Context, text string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	if a.err != nil {
		return "", a.err
	}
	return a.answer, nil
}
