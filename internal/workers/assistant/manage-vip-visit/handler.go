// internal/workers/assistant/manage-vip-visit/handler.go
package managevipvisit

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"assistant-console/internal/assistant/visitstore"
	apperrors "assistant-console/internal/common/errors"
	"assistant-console/internal/common/logger"
	"assistant-console/internal/common/metrics"
	"assistant-console/internal/common/validation"
	"assistant-console/internal/models"
)

const TaskType = "manage-vip-visit"

// VisitStore is implemented by *visitstore.Store.
type VisitStore interface {
	GetByID(id string) (*models.VIPVisit, error)
	Update(ctx context.Context, id string, patch models.VisitPatch) (*models.VIPVisit, error)
	Delete(ctx context.Context, id string) error
	ListUpcoming(now time.Time) []models.VIPVisit
}

type Handler struct {
	config     *Config
	store      VisitStore
	schema     *validation.Schema
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
	clock      func() time.Time
}

func NewHandler(config *Config, store VisitStore, log logger.Logger) *Handler {
	if config.Location == nil {
		config.Location = time.UTC
	}
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		store:      store,
		schema:     validation.MustCompile(inputSchema),
		errHandler: apperrors.NewErrorHandler(l),
		logger:     l,
		clock:      time.Now,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	input, err := h.parseInput(job)
	if err == nil {
		var output *Output
		output, err = h.Execute(ctx, input)
		if err == nil {
			h.completeJob(ctx, client, job, output)
			metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
			metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
			return
		}
	}

	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.Normalize(err).Code)).Inc()
	h.errHandler.HandleJobError(ctx, client, job, err)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	var variables map[string]interface{}
	if err := json.Unmarshal([]byte(job.GetVariables()), &variables); err != nil {
		return nil, apperrors.NewInvalidInputError("job variables are not a JSON object: " + err.Error())
	}

	if action, ok := variables["action"].(string); ok && !knownAction(action) {
		return nil, apperrors.NewInvalidVisitActionError(action)
	}

	result, err := h.schema.Validate(variables)
	if err != nil {
		return nil, apperrors.NewInvalidInputError(err.Error())
	}
	if !result.Valid {
		return nil, apperrors.NewInvalidInputError(result.Summary())
	}

	var input Input
	if err := json.Unmarshal([]byte(job.GetVariables()), &input); err != nil {
		return nil, apperrors.NewInvalidInputError(err.Error())
	}

	if input.Action != ActionListUpcoming && input.ID == "" {
		return nil, apperrors.NewInvalidInputError("id is required for action " + input.Action)
	}
	if input.Action == ActionUpdate && input.Patch == nil {
		return nil, apperrors.NewInvalidInputError("patch is required for action update")
	}
	return &input, nil
}

func knownAction(action string) bool {
	switch action {
	case ActionGet, ActionUpdate, ActionDelete, ActionListUpcoming:
		return true
	}
	return false
}

// Execute applies one visit action to the store.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	output := &Output{Action: input.Action}

	switch input.Action {
	case ActionGet:
		visit, err := h.store.GetByID(input.ID)
		if err != nil {
			return nil, mapStoreError(input.ID, err)
		}
		output.Visit = visit
		output.Count = 1

	case ActionUpdate:
		visit, err := h.store.Update(ctx, input.ID, *input.Patch)
		if err != nil {
			return nil, mapStoreError(input.ID, err)
		}
		output.Visit = visit
		output.Count = 1

	case ActionDelete:
		if err := h.store.Delete(ctx, input.ID); err != nil {
			return nil, mapStoreError(input.ID, err)
		}
		output.Deleted = true

	case ActionListUpcoming:
		now, err := h.referenceTime(input.Now)
		if err != nil {
			return nil, apperrors.NewInvalidInputError("now: " + err.Error())
		}
		output.Visits = h.store.ListUpcoming(now)
		output.Count = len(output.Visits)

	default:
		return nil, apperrors.NewInvalidVisitActionError(input.Action)
	}

	h.logger.Info("visit action applied", map[string]interface{}{
		"action":  input.Action,
		"visitId": input.ID,
		"count":   output.Count,
	})
	return output, nil
}

func (h *Handler) referenceTime(raw string) (time.Time, error) {
	if raw == "" {
		return h.clock().In(h.config.Location), nil
	}
	now, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return now.In(h.config.Location), nil
}

func mapStoreError(id string, err error) error {
	switch {
	case stderrors.Is(err, visitstore.ErrVisitNotFound):
		return apperrors.NewVisitNotFoundError(id, err)
	case stderrors.Is(err, visitstore.ErrInvalidVisit):
		return apperrors.NewVisitValidationFailedError(err)
	case stderrors.Is(err, visitstore.ErrNaturalKeyConflict):
		return apperrors.NewNaturalKeyConflictError(err)
	case stderrors.Is(err, context.DeadlineExceeded):
		return apperrors.NewMessageTimeoutError(err)
	default:
		return apperrors.NewPersistenceSaveFailedError(err)
	}
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.GetKey()).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err,
		})
		return
	}

	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err,
		})
	}
}
