package domain

import "time"

// Status is the lifecycle state of a task. Only incomplete and done are
// reachable today; active and archived are reserved for bot features that
// consume the full enum.
type Status string

const (
	StatusIncomplete Status = "incomplete"
	StatusDone       Status = "done"
	StatusActive     Status = "active"
	StatusArchived   Status = "archived"
)

// Domain entity: бизнес-объект (истина).
// Не зависит от Gin, Postgres, Redis.
type Task struct {
	ID          int64
	OwnerID     int64
	Description string
	Status      Status
	CreatedAt   time.Time
	Deadline    *time.Time
}

// Summary partitions an owner's tasks by status. Tasks in reserved statuses
// are counted in Total only.
type Summary struct {
	Total      int
	Done       int
	Incomplete int
}
