package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stetat/ToDo-bot/internal/notify"

	"github.com/sirupsen/logrus"
)

const notifyTimeout = 10 * time.Second

// Scheduler holds one-shot reminder timers, one per task, keyed by the
// task's stable id. A job either fires once or is cancelled; both are
// terminal, there are no retries or rescheduling.
type Scheduler struct {
	mu       sync.Mutex
	jobs     map[int64]*job
	notifier notify.Notifier
	log      *logrus.Entry
}

type job struct {
	ownerID     int64
	description string
	timer       *time.Timer
}

// New returns a Scheduler delivering through n.
func New(n notify.Notifier, log *logrus.Entry) *Scheduler {
	return &Scheduler{
		jobs:     make(map[int64]*job),
		notifier: n,
		log:      log,
	}
}

// Schedule registers a reminder for the task. A fireAt in the past fires
// immediately. Scheduling again for the same task replaces the pending job.
func (s *Scheduler) Schedule(taskID, ownerID int64, description string, fireAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.jobs[taskID]; ok {
		old.timer.Stop()
	}
	j := &job{ownerID: ownerID, description: description}
	j.timer = time.AfterFunc(time.Until(fireAt), func() { s.fire(taskID) })
	s.jobs[taskID] = j

	s.log.WithFields(logrus.Fields{"task_id": taskID, "owner_id": ownerID, "fire_at": fireAt}).
		Debug("reminder scheduled")
}

// Cancel removes the pending reminder for the task. Silent no-op if there is
// none or it already fired.
func (s *Scheduler) Cancel(taskID int64) {
	s.mu.Lock()
	j, ok := s.jobs[taskID]
	if ok {
		j.timer.Stop()
		delete(s.jobs, taskID)
	}
	s.mu.Unlock()

	if ok {
		s.log.WithField("task_id", taskID).Debug("reminder cancelled")
	}
}

// PendingCount returns the number of jobs not yet fired or cancelled.
func (s *Scheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Stop cancels all pending jobs. Used on shutdown.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, j := range s.jobs {
		j.timer.Stop()
		delete(s.jobs, id)
	}
}

func (s *Scheduler) fire(taskID int64) {
	s.mu.Lock()
	j, ok := s.jobs[taskID]
	if ok {
		delete(s.jobs, taskID)
	}
	s.mu.Unlock()
	// Cancel won the race: the job is gone, deliver nothing.
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	text := fmt.Sprintf("Дедлайн уже через 24 часа\n\nОписание: %s", j.description)
	if err := s.notifier.Notify(ctx, j.ownerID, text); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"task_id": taskID, "owner_id": j.ownerID}).
			Error("reminder delivery failed")
		return
	}
	s.log.WithFields(logrus.Fields{"task_id": taskID, "owner_id": j.ownerID}).Info("reminder delivered")
}
