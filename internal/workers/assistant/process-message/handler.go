package processmessage

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"assistant-console/internal/assistant/orchestrator"
	"assistant-console/internal/assistant/visitstore"
	apperrors "assistant-console/internal/common/errors"
	"assistant-console/internal/common/logger"
	"assistant-console/internal/common/metrics"
	"assistant-console/internal/common/validation"
)

const TaskType = "process-assistant-message"

// MessageHandler is implemented by *orchestrator.Orchestrator.
type MessageHandler interface {
	HandleMessage(ctx context.Context, text, actor string) (*orchestrator.Response, error)
}

type Handler struct {
	config     *Config
	messages   MessageHandler
	schema     *validation.Schema
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, messages MessageHandler, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		messages:   messages,
		schema:     validation.MustCompile(inputSchema),
		errHandler: apperrors.NewErrorHandler(l),
		logger:     l,
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
	return &input, nil
}

// Execute runs one message through the orchestrator.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	actor := input.Actor
	if actor == "" {
		actor = h.config.DefaultActor
	}

	resp, err := h.messages.HandleMessage(ctx, input.Text, actor)
	if err != nil {
		switch {
		case stderrors.Is(err, context.DeadlineExceeded):
			return nil, apperrors.NewMessageTimeoutError(err)
		case stderrors.Is(err, visitstore.ErrInvalidVisit):
			return nil, apperrors.NewVisitValidationFailedError(err)
		default:
			return nil, apperrors.NewMessageProcessingError(err)
		}
	}

	output := &Output{
		Kind:         resp.Kind,
		Message:      resp.Message,
		VisitCreated: resp.VisitCreated,
		QuickAction:  resp.QuickAction,
		Result:       resp.Result,
		Visit:        resp.Visit,
	}
	if resp.QuickAction != nil {
		output.SectionID = resp.QuickAction.SectionID
	}
	if resp.Result != nil {
		output.Intent = resp.Result.Intent
		output.Confidence = resp.Result.Confidence
	}
	if resp.Visit != nil {
		output.VisitID = resp.Visit.ID
	}

	h.logger.Info("message processed", map[string]interface{}{
		"kind":      output.Kind,
		"intent":    string(output.Intent),
		"sectionId": output.SectionID,
		"visitId":   output.VisitID,
	})
	return output, nil
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
