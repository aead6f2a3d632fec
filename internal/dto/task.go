package dto

import "time"

type CreateTaskRequest struct {
	OwnerID     int64  `json:"owner_id" binding:"required"`
	Description string `json:"description" binding:"required,min=1,max=5000"`
	// DeadlineDays is a day offset from now; the resolved absolute deadline
	// is what gets stored. Omit for no deadline.
	DeadlineDays *int `json:"deadline_days" binding:"omitempty,min=1"`
}

type CreateTaskResponse struct {
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
}

type TaskResponse struct {
	Ordinal     int        `json:"ordinal"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Deadline    *time.Time `json:"deadline"`
}

type ListTasksResponse struct {
	Items []TaskResponse `json:"items"`
}

type CountTasksResponse struct {
	Count int `json:"count"`
}

type SummaryResponse struct {
	Total      int `json:"total"`
	Done       int `json:"done"`
	Incomplete int `json:"incomplete"`
}

type CompleteTaskResponse struct {
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
}

type DeleteTasksRequest struct {
	Ordinals []int `json:"ordinals" binding:"required,min=1"`
}

type DeleteTasksResponse struct {
	Deleted  []int `json:"deleted"`
	Rejected []int `json:"rejected"`
}
