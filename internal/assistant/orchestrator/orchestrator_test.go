package orchestrator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assistant-console/internal/assistant/interpreter"
	"assistant-console/internal/assistant/visitstore"
	"assistant-console/internal/common/logger"
	"assistant-console/internal/models"
)

// Monday 10 March 2025, 09:00 UTC.
var refNow = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

type fakeNotifier struct {
	mu     sync.Mutex
	visits []models.VIPVisit
	err    error
}

func (f *fakeNotifier) NotifyEscort(_ context.Context, v models.VIPVisit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visits = append(f.visits, v)
	return f.err
}

type fakeRecorder struct {
	outcomes []string
}

func (f *fakeRecorder) RecordMessageProcessed(_ context.Context, outcome string) {
	f.outcomes = append(f.outcomes, outcome)
}

func (f *fakeRecorder) RecordMessageDuration(context.Context, time.Duration, string) {}

type failingStore struct{ err error }

func (f failingStore) Upsert(context.Context, models.VisitInput) (*models.VIPVisit, error) {
	return nil, f.err
}

type harness struct {
	orch     *Orchestrator
	store    *visitstore.Store
	notifier *fakeNotifier
	recorder *fakeRecorder
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log := logger.NewTestLogger(t)
	now := refNow

	storeCfg := visitstore.DefaultConfig()
	storeCfg.Clock = func() time.Time { return now }
	store := visitstore.New(context.Background(), storeCfg, visitstore.NewMemorySubstrate(), log)
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	h := &harness{store: store, notifier: &fakeNotifier{}, recorder: &fakeRecorder{}}
	h.orch = New(Config{
		DefaultActor:          "assistant",
		MaximumProtocolEscort: "Protocol Security Detail",
		Location:              time.UTC,
		Clock:                 func() time.Time { return now },
	}, interpreter.New(log), store, log, WithEscortNotifier(h.notifier), WithRecorder(h.recorder))
	return h
}

func TestHandleMessage_QuickActionFirst(t *testing.T) {
	h := newHarness(t)

	resp, err := h.orch.HandleMessage(context.Background(), "show vip visits and appointments tomorrow", "alice")
	require.NoError(t, err)

	assert.Equal(t, KindQuickAction, resp.Kind)
	require.NotNil(t, resp.QuickAction)
	assert.Equal(t, models.SectionVIP, resp.QuickAction.SectionID)
	assert.Equal(t, "Tomorrow's VIP Visits", resp.QuickAction.SectionTitle)
	assert.Equal(t, resp.QuickAction.ResponseMessage, resp.Message)
	assert.Nil(t, resp.Result)
	assert.Zero(t, h.store.Len())
	assert.Equal(t, []string{KindQuickAction}, h.recorder.outcomes)
}

func TestHandleMessage_RecordsVisit(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	resp, err := h.orch.HandleMessage(ctx, "VIP visit from Ambassador Li Wei tomorrow at 10am in Conference Room A", "alice")
	require.NoError(t, err)

	assert.Equal(t, KindInterpretation, resp.Kind)
	require.NotNil(t, resp.Visit)
	assert.True(t, resp.VisitCreated)
	assert.Equal(t, "Li Wei", resp.Visit.Visitor)
	assert.Equal(t, "Ambassador", resp.Visit.Title)
	assert.Equal(t, "2025-03-11", resp.Visit.Date)
	assert.Equal(t, "10:00", resp.Visit.Time)
	assert.Equal(t, "Conference Room A", resp.Visit.Location)
	assert.Equal(t, models.ProtocolHigh, resp.Visit.ProtocolLevel)
	assert.Empty(t, resp.Visit.AssignedEscort)
	assert.Equal(t, "alice", resp.Visit.CreatedBy)
	assert.Equal(t, "Scheduled VIP visit for Ambassador Li Wei on 2025-03-11 at 10:00 in Conference Room A (high protocol).", resp.Message)
	assert.Empty(t, h.notifier.visits)
	assert.Equal(t, 1, h.store.Len())
}

func TestHandleMessage_ReMentionUpdates(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	first, err := h.orch.HandleMessage(ctx, "VIP visit from Ambassador Li Wei tomorrow at 10am", "alice")
	require.NoError(t, err)
	second, err := h.orch.HandleMessage(ctx, "VIP visit from Ambassador Li Wei tomorrow at 10:00 in the main lobby", "bob")
	require.NoError(t, err)

	assert.Equal(t, 1, h.store.Len())
	assert.Equal(t, first.Visit.ID, second.Visit.ID)
	assert.False(t, second.VisitCreated)
	assert.Equal(t, "main lobby", second.Visit.Location)
	assert.Equal(t, "bob", second.Visit.UpdatedBy)
	assert.True(t, second.Visit.UpdatedAt.After(first.Visit.UpdatedAt))
	assert.Contains(t, second.Message, "Updated VIP visit")
}

func TestHandleMessage_MaximumProtocolAssignsEscort(t *testing.T) {
	h := newHarness(t)

	resp, err := h.orch.HandleMessage(context.Background(), "VIP visit from Prime Minister John Carter on Friday at 3pm", "")
	require.NoError(t, err)

	require.NotNil(t, resp.Visit)
	assert.Equal(t, models.ProtocolMaximum, resp.Visit.ProtocolLevel)
	assert.Equal(t, "Protocol Security Detail", resp.Visit.AssignedEscort)
	assert.Equal(t, "assistant", resp.Visit.CreatedBy)
	assert.Contains(t, resp.Message, "Escort: Protocol Security Detail")
	require.Len(t, h.notifier.visits, 1)
	assert.Equal(t, resp.Visit.ID, h.notifier.visits[0].ID)
}

func TestHandleMessage_NotifierFailureIsLogged(t *testing.T) {
	h := newHarness(t)
	h.notifier.err = errors.New("sns unavailable")

	resp, err := h.orch.HandleMessage(context.Background(), "VIP visit from President Maria Lopez tomorrow at noon", "alice")
	require.NoError(t, err)
	assert.NotNil(t, resp.Visit)
	assert.Equal(t, 1, h.store.Len())
}

func TestHandleMessage_IncompleteVisitIsNotStored(t *testing.T) {
	h := newHarness(t)

	resp, err := h.orch.HandleMessage(context.Background(), "VIP visit from Minister Jane Doe tomorrow", "alice")
	require.NoError(t, err)

	assert.Nil(t, resp.Visit)
	require.NotNil(t, resp.Result)
	assert.Equal(t, []string{"visit time is missing"}, resp.Result.Errors)
	assert.Equal(t, "I need more details for this vip-visit: visit time is missing.", resp.Message)
	assert.Zero(t, h.store.Len())
}

func TestHandleMessage_OtherIntents(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name        string
		text        string
		wantIntent  models.QueryIntent
		wantMessage string
	}{
		{"approval", "approve the leave request for Alice", models.IntentApproval, "Understood as approval."},
		{"unknown", "hello there", models.IntentUnknown, "I didn't understand that. Did you mean one of the suggestions?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := h.orch.HandleMessage(context.Background(), tt.text, "alice")
			require.NoError(t, err)
			require.NotNil(t, resp.Result)
			assert.Equal(t, tt.wantIntent, resp.Result.Intent)
			assert.Equal(t, tt.wantMessage, resp.Message)
			assert.Nil(t, resp.Visit)
		})
	}
}

func TestHandleMessage_ActionableFinanceRoutes(t *testing.T) {
	h := newHarness(t)

	resp, err := h.orch.HandleMessage(context.Background(), "approve the finance transfer", "alice")
	require.NoError(t, err)
	require.NotNil(t, resp.QuickAction)
	assert.Equal(t, models.SectionFinance, resp.QuickAction.SectionID)
	assert.Equal(t, "Finance Request", resp.QuickAction.SectionTitle)
}

func TestHandleMessage_VisitWithFinanceWordsIsRecorded(t *testing.T) {
	h := newHarness(t)

	resp, err := h.orch.HandleMessage(context.Background(), "Create a VIP visit for Finance Minister Jane Doe tomorrow at 10am", "alice")
	require.NoError(t, err)

	assert.Equal(t, KindInterpretation, resp.Kind)
	assert.Nil(t, resp.QuickAction)
	require.NotNil(t, resp.Visit)
	assert.Equal(t, "Jane Doe", resp.Visit.Visitor)
	assert.Equal(t, "Minister", resp.Visit.Title)
	assert.Equal(t, models.ProtocolHigh, resp.Visit.ProtocolLevel)
	assert.Equal(t, 1, h.store.Len())
}

func TestHandleMessage_CancelledBeforeUpsert(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.orch.HandleMessage(ctx, "VIP visit from John Smith tomorrow at 10am", "alice")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, h.store.Len())
	assert.Equal(t, []string{"failed"}, h.recorder.outcomes)
}

func TestHandleMessage_StoreRejection(t *testing.T) {
	log := logger.NewNoOpLogger()
	orch := New(Config{Clock: func() time.Time { return refNow }}, interpreter.New(log), failingStore{err: visitstore.ErrInvalidVisit}, log)

	_, err := orch.HandleMessage(context.Background(), "VIP visit from John Smith tomorrow at 10am", "alice")
	assert.ErrorIs(t, err, visitstore.ErrInvalidVisit)
}

func TestHandleMessage_UsesConfiguredTimezone(t *testing.T) {
	log := logger.NewNoOpLogger()
	store := visitstore.New(context.Background(), visitstore.DefaultConfig(), visitstore.NewMemorySubstrate(), log)
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	tokyo := time.FixedZone("JST", 9*3600)
	// 20:00 UTC on 10 March is already 11 March in Tokyo.
	orch := New(Config{
		Location: tokyo,
		Clock:    func() time.Time { return time.Date(2025, time.March, 10, 20, 0, 0, 0, time.UTC) },
	}, interpreter.New(log), store, log)

	resp, err := orch.HandleMessage(context.Background(), "VIP visit from John Smith tomorrow at 10am", "")
	require.NoError(t, err)
	require.NotNil(t, resp.Visit)
	assert.Equal(t, "2025-03-12", resp.Visit.Date)
}

func TestJoinErrors(t *testing.T) {
	assert.Equal(t, "", joinErrors(nil))
	assert.Equal(t, "a", joinErrors([]string{"a"}))
	assert.Equal(t, "a and b", joinErrors([]string{"a", "b"}))
	assert.Equal(t, "a, b and c", joinErrors([]string{"a", "b", "c"}))
}
