package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/stetat/ToDo-bot/internal/advice"
	"github.com/stetat/ToDo-bot/internal/repo"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
)

// QuotaService gates the AI advice feature behind the daily per-user limit.
type QuotaService struct {
	quotas  repo.QuotaRepo
	tasks   repo.TaskRepo
	advisor advice.Provider
	limit   int

	mu    sync.Mutex
	locks map[int64]*sync.Mutex

	log *logrus.Entry
}

// NewQuotaService returns a new QuotaService with the given daily limit.
func NewQuotaService(q repo.QuotaRepo, t repo.TaskRepo, a advice.Provider, limit int, log *logrus.Entry) *QuotaService {
	return &QuotaService{
		quotas:  q,
		tasks:   t,
		advisor: a,
		limit:   limit,
		locks:   make(map[int64]*sync.Mutex),
		log:     log,
	}
}

// Check reports whether the user may make another advice request today.
// Checking is not read-only: the first check of a new day resets the
// counter (lazy rollover).
func (s *QuotaService) Check(ctx context.Context, userID int64) (bool, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()
	return s.check(ctx, userID)
}

// Consume increments the user's counter. Exposed for callers that perform
// the advice round-trip themselves; RequestAdvice consumes on its own.
func (s *QuotaService) Consume(ctx context.Context, userID int64) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()
	return s.mapNoRows(s.quotas.Consume(ctx, userID), userID)
}

// GrantUnlimited permanently lifts the daily limit for the user. No exposed
// operation reverses it.
func (s *QuotaService) GrantUnlimited(ctx context.Context, userID int64) error {
	return s.mapNoRows(s.quotas.GrantUnlimited(ctx, userID), userID)
}

// RequestAdvice runs the full gated flow: quota check, ordinal resolution
// against a fresh listing, the external advice call, and only after a
// successful round-trip the quota consumption. Check, call and consume for
// one user never interleave with another check or consume for that user.
func (s *QuotaService) RequestAdvice(ctx context.Context, userID int64, ordinal int) (string, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	ok, err := s.check(ctx, userID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrQuotaExceeded
	}

	list, err := s.tasks.ListByOwner(ctx, userID)
	if err != nil {
		return "", err
	}
	t, err := resolveOrdinal(list, ordinal)
	if err != nil {
		return "", err
	}

	text, err := s.advisor.Advise(ctx, t.Description)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("advice call failed")
		return "", fmt.Errorf("%w: %v", ErrAdviceUnavailable, err)
	}

	if err := s.quotas.Consume(ctx, userID); err != nil {
		return "", s.mapNoRows(err, userID)
	}
	return text, nil
}

func (s *QuotaService) check(ctx context.Context, userID int64) (bool, error) {
	ok, err := s.quotas.CheckAndRoll(ctx, userID, s.limit)
	if err != nil {
		return false, s.mapNoRows(err, userID)
	}
	return ok, nil
}

// userLock returns the mutex serializing quota operations for one user.
func (s *QuotaService) userLock(userID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}

func (s *QuotaService) mapNoRows(err error, userID int64) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: user %d is not registered", ErrNotFound, userID)
	}
	return err
}
