package handlers

import (
	"net/http"
	"strconv"

	"github.com/stetat/ToDo-bot/internal/cache"
	dom "github.com/stetat/ToDo-bot/internal/domain"
	"github.com/stetat/ToDo-bot/internal/dto"
	"github.com/stetat/ToDo-bot/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const idempotencyHeader = "X-Idempotency-Key"

type TaskHandler struct {
	svc  *service.TaskService
	idem *cache.IdempotencyStore
	log  *logrus.Entry
}

// NewTaskHandler returns a TaskHandler. idem may be nil to disable create
// deduplication.
func NewTaskHandler(svc *service.TaskService, idem *cache.IdempotencyStore, log *logrus.Entry) *TaskHandler {
	return &TaskHandler{svc: svc, idem: idem, log: log}
}

// Create godoc
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateTaskRequest  true  "Task body"
// @Param        X-Idempotency-Key  header  string  false  "Dedup key for safe retries"
// @Success      201   {object}  dto.CreateTaskResponse
// @Failure      400   {object}  map[string]string
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if key := c.GetHeader(idempotencyHeader); key != "" && h.idem != nil {
		fresh, err := h.idem.Begin(c.Request.Context(), req.OwnerID, key)
		if err != nil {
			h.log.WithError(err).Warn("idempotency check failed, proceeding without dedup")
		} else if !fresh {
			c.JSON(http.StatusOK, gin.H{"duplicate": true})
			return
		}
	}

	t, err := h.svc.Create(c.Request.Context(), req.OwnerID, req.Description, req.DeadlineDays)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.CreateTaskResponse{Description: t.Description, Deadline: t.Deadline})
}

// List godoc
// @Summary      List an owner's tasks in creation order
// @Tags         tasks
// @Produce      json
// @Param        owner_id  path  int  true  "Owner ID"
// @Success      200  {object}  dto.ListTasksResponse
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /tasks/{owner_id} [get]
func (h *TaskHandler) List(c *gin.Context) {
	ownerID, ok := parseInt64Param(c, "owner_id")
	if !ok {
		return
	}
	list, err := h.svc.List(c.Request.Context(), ownerID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListTasksResponse{Items: tasksToResponses(list)})
}

// Count godoc
// @Summary      Count an owner's tasks
// @Tags         tasks
// @Produce      json
// @Param        owner_id  path  int  true  "Owner ID"
// @Success      200  {object}  dto.CountTasksResponse
// @Router       /tasks/{owner_id}/count [get]
func (h *TaskHandler) Count(c *gin.Context) {
	ownerID, ok := parseInt64Param(c, "owner_id")
	if !ok {
		return
	}
	n, err := h.svc.Count(c.Request.Context(), ownerID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CountTasksResponse{Count: n})
}

// Summary godoc
// @Summary      Total/done/incomplete counts for an owner
// @Tags         tasks
// @Produce      json
// @Param        owner_id  path  int  true  "Owner ID"
// @Success      200  {object}  dto.SummaryResponse
// @Router       /tasks/{owner_id}/summary [get]
func (h *TaskHandler) Summary(c *gin.Context) {
	ownerID, ok := parseInt64Param(c, "owner_id")
	if !ok {
		return
	}
	s, err := h.svc.Summarize(c.Request.Context(), ownerID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SummaryResponse{Total: s.Total, Done: s.Done, Incomplete: s.Incomplete})
}

// Complete godoc
// @Summary      Mark the task at the given ordinal as done
// @Tags         tasks
// @Produce      json
// @Param        owner_id  path  int  true  "Owner ID"
// @Param        ordinal   path  int  true  "1-based position in the owner's listing"
// @Success      200  {object}  dto.CompleteTaskResponse
// @Failure      404  {object}  map[string]string
// @Router       /tasks/{owner_id}/complete/{ordinal} [post]
func (h *TaskHandler) Complete(c *gin.Context) {
	ownerID, ok := parseInt64Param(c, "owner_id")
	if !ok {
		return
	}
	ordinal, ok := parseOrdinalParam(c)
	if !ok {
		return
	}
	t, err := h.svc.Complete(c.Request.Context(), ownerID, ordinal)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CompleteTaskResponse{Description: t.Description, Deadline: t.Deadline})
}

// Delete godoc
// @Summary      Delete the tasks at the given ordinals
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        owner_id  path  int  true  "Owner ID"
// @Param        body  body  dto.DeleteTasksRequest  true  "Ordinals to delete"
// @Success      200  {object}  dto.DeleteTasksResponse
// @Failure      400  {object}  map[string]string
// @Router       /tasks/{owner_id}/delete [post]
func (h *TaskHandler) Delete(c *gin.Context) {
	ownerID, ok := parseInt64Param(c, "owner_id")
	if !ok {
		return
	}
	var req dto.DeleteTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	deleted, rejected, err := h.svc.Delete(c.Request.Context(), ownerID, req.Ordinals)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.DeleteTasksResponse{Deleted: deleted, Rejected: rejected})
}

func (h *TaskHandler) respondError(c *gin.Context, err error) {
	respondServiceError(c, err, h.log)
}

func tasksToResponses(list []dom.Task) []dto.TaskResponse {
	out := make([]dto.TaskResponse, len(list))
	for i := range list {
		out[i] = dto.TaskResponse{
			Ordinal:     i + 1,
			Description: list[i].Description,
			Status:      string(list[i].Status),
			Deadline:    list[i].Deadline,
		}
	}
	return out
}

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name + ": " + raw})
		return 0, false
	}
	return id, true
}

func parseOrdinalParam(c *gin.Context) (int, bool) {
	raw := c.Param("ordinal")
	n, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ordinal: " + raw})
		return 0, false
	}
	return n, true
}
