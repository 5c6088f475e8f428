// Package orchestrator is the single entry point for assistant messages: it tries
// the quick-action router first, then interprets the message and records VIP
// visits in the store.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"assistant-console/internal/assistant/quickaction"
	"assistant-console/internal/common/logger"
	"assistant-console/internal/common/metrics"
	"assistant-console/internal/models"
)

// Response kinds.
const (
	KindQuickAction    = "quick-action"
	KindInterpretation = "interpretation"
)

// Response is what the console shows for one message. Exactly one of
// QuickAction and Result is set.
type Response struct {
	Kind         string                    `json:"kind"`
	QuickAction  *models.QuickActionResult `json:"quickAction,omitempty"`
	Result       *models.ParsedQueryResult `json:"result,omitempty"`
	Visit        *models.VIPVisit          `json:"visit,omitempty"`
	VisitCreated bool                      `json:"visitCreated,omitempty"`
	Message      string                    `json:"message"`
}

type Interpreter interface {
	Interpret(text string, now time.Time) *models.ParsedQueryResult
}

type VisitStore interface {
	Upsert(ctx context.Context, in models.VisitInput) (*models.VIPVisit, error)
}

// EscortNotifier is told about every maximum-protocol visit that is recorded.
type EscortNotifier interface {
	NotifyEscort(ctx context.Context, visit models.VIPVisit) error
}

// Recorder receives one outcome per handled message.
type Recorder interface {
	RecordMessageProcessed(ctx context.Context, outcome string)
	RecordMessageDuration(ctx context.Context, d time.Duration, outcome string)
}

type Config struct {
	DefaultActor          string
	MaximumProtocolEscort string
	Location              *time.Location
	Clock                 func() time.Time
}

type Orchestrator struct {
	config      Config
	interpreter Interpreter
	store       VisitStore
	notifier    EscortNotifier
	recorder    Recorder
	logger      logger.Logger
}

type Option func(*Orchestrator)

func WithEscortNotifier(n EscortNotifier) Option {
	return func(o *Orchestrator) { o.notifier = n }
}

func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) { o.recorder = r }
}

func New(config Config, interpreter Interpreter, store VisitStore, log logger.Logger, opts ...Option) *Orchestrator {
	if config.Location == nil {
		config.Location = time.UTC
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}
	if config.DefaultActor == "" {
		config.DefaultActor = "assistant"
	}
	o := &Orchestrator{
		config:      config,
		interpreter: interpreter,
		store:       store,
		logger:      log.WithFields(map[string]interface{}{"component": "orchestrator"}),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// HandleMessage answers one message on behalf of actor. Persistence failures of
// the snapshot never surface here; only upsert rejections and cancellation do.
func (o *Orchestrator) HandleMessage(ctx context.Context, text, actor string) (*Response, error) {
	start := time.Now()
	if actor == "" {
		actor = o.config.DefaultActor
	}

	resp, err := o.handle(ctx, text, actor)

	outcome := "failed"
	if err == nil {
		outcome = resp.Kind
	}
	if o.recorder != nil {
		o.recorder.RecordMessageProcessed(ctx, outcome)
		o.recorder.RecordMessageDuration(ctx, time.Since(start), outcome)
	}
	return resp, err
}

func (o *Orchestrator) handle(ctx context.Context, text, actor string) (*Response, error) {
	if qa := quickaction.Route(text); qa != nil {
		metrics.QuickActionsRouted.WithLabelValues(qa.SectionID).Inc()
		o.logger.Debug("quick action routed", map[string]interface{}{"sectionId": qa.SectionID, "actor": actor})
		return &Response{Kind: KindQuickAction, QuickAction: qa, Message: qa.ResponseMessage}, nil
	}

	now := o.config.Clock().In(o.config.Location)
	result := o.interpreter.Interpret(text, now)
	resp := &Response{Kind: KindInterpretation, Result: result}

	parsed, ok := result.VIPVisit()
	if !ok {
		resp.Message = describe(result)
		return resp, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	visit, err := o.store.Upsert(ctx, o.visitInput(parsed, actor))
	if err != nil {
		return nil, fmt.Errorf("record vip visit: %w", err)
	}
	resp.Visit = visit
	resp.VisitCreated = visit.CreatedAt.Equal(visit.UpdatedAt)
	resp.Message = visitMessage(visit, resp.VisitCreated)

	if visit.ProtocolLevel == models.ProtocolMaximum && o.notifier != nil {
		if err := o.notifier.NotifyEscort(ctx, *visit); err != nil {
			o.logger.Error("escort notification failed", map[string]interface{}{"visitId": visit.ID, "error": err})
		}
	}
	return resp, nil
}

func (o *Orchestrator) visitInput(p *models.ParsedVIPVisit, actor string) models.VisitInput {
	in := models.VisitInput{
		Visitor:       p.Visitor,
		Title:         p.Title,
		Date:          p.Date.String(),
		Time:          p.Time.String(),
		ProtocolLevel: p.ProtocolLevel,
		Actor:         actor,
	}
	if p.Location != nil {
		in.Location = p.Location.Location
	}
	if p.ProtocolLevel == models.ProtocolMaximum {
		in.AssignedEscort = o.config.MaximumProtocolEscort
	}
	return in
}

func visitMessage(v *models.VIPVisit, created bool) string {
	verb := "Updated"
	if created {
		verb = "Scheduled"
	}
	name := v.Visitor
	if v.Title != "" {
		name = v.Title + " " + v.Visitor
	}
	msg := fmt.Sprintf("%s VIP visit for %s on %s at %s", verb, name, v.Date, v.Time)
	if v.Location != "" {
		msg += " in " + v.Location
	}
	msg += fmt.Sprintf(" (%s protocol)", v.ProtocolLevel)
	if v.AssignedEscort != "" {
		msg += ". Escort: " + v.AssignedEscort
	}
	return msg + "."
}

func describe(r *models.ParsedQueryResult) string {
	switch {
	case r.Intent == models.IntentUnknown:
		return "I didn't understand that. Did you mean one of the suggestions?"
	case len(r.Errors) > 0:
		return fmt.Sprintf("I need more details for this %s: %s.", r.Intent, joinErrors(r.Errors))
	default:
		return fmt.Sprintf("Understood as %s.", r.Intent)
	}
}

func joinErrors(errs []string) string {
	switch len(errs) {
	case 0:
		return ""
	case 1:
		return errs[0]
	}
	out := errs[0]
	for _, e := range errs[1 : len(errs)-1] {
		out += ", " + e
	}
	return out + " and " + errs[len(errs)-1]
}
