package quickaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assistant-console/internal/models"
)

func TestRoute(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantSection string
		wantTitle   string
	}{
		{"vip wins over appointments", "show vip visits and appointments tomorrow", models.SectionVIP, "Tomorrow's VIP Visits"},
		{"default prefix", "show approvals", models.SectionApprovals, "Today's Approvals"},
		{"pending approvals", "check pending approvals", models.SectionApprovals, "Today's Approvals"},
		{"pending requests", "list pending requests", models.SectionApprovals, "Today's Approvals"},
		{"pending payments are finance", "show pending payments", models.SectionFinance, "Today's Finance Summary"},
		{"calendar", "view my calendar for next week", models.SectionAppointments, "Tomorrow's Appointments"},
		{"meeting", "list meetings", models.SectionAppointments, "Today's Appointments"},
		{"alerts", "show alerts", models.SectionAlert, "Today's Alerts"},
		{"reminders with upcoming", "list upcoming reminders", models.SectionAlert, "Tomorrow's Alerts"},
		{"finance summary", "show the finance summary", models.SectionFinance, "Today's Finance Summary"},
		{"collections", "check collections", models.SectionFinance, "Today's Finance Summary"},
		{"case insensitive", "SHOW VIP VISITS", models.SectionVIP, "Today's VIP Visits"},
		{"actionable finance without read verb", "approve the finance transfer", models.SectionFinance, "Finance Request"},
		{"actionable finance with read verb", "check and pay the outstanding payments", models.SectionFinance, "Finance Request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Route(tt.text)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantSection, got.SectionID)
			assert.Equal(t, tt.wantTitle, got.SectionTitle)
			assert.NotEmpty(t, got.ResponseMessage)
		})
	}
}

func TestRoute_Declines(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"no read verb", "VIP visit from Minister Jane Doe tomorrow at 10am"},
		{"read verb inside another word", "overview of approvals"},
		{"read verb without topic", "show me something nice"},
		{"action verb without finance topic", "approve the vip visit"},
		{"vip visit with finance words", "Create a VIP visit for Finance Minister Jane Doe tomorrow at 10am"},
		{"dignitary with payment", "pay the dignitary delegation's hotel payment"},
		{"official visit with revenue", "create the revenue office official visit for Ambassador Li Wei"},
		{"appointment outranks finance", "create an appointment about the finance summary"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, Route(tt.text))
		})
	}
}

func TestRoute_FinanceActionDivergesFromSummary(t *testing.T) {
	summary := Route("show finance summary")
	action := Route("transfer the finance collection")
	require.NotNil(t, summary)
	require.NotNil(t, action)

	assert.Equal(t, summary.SectionID, action.SectionID)
	assert.NotEqual(t, summary.SectionTitle, action.SectionTitle)
	assert.NotEqual(t, summary.ResponseMessage, action.ResponseMessage)
	assert.Contains(t, action.ResponseMessage, "Processing")
}

func TestRoute_MessageUsesPrefix(t *testing.T) {
	got := Route("show upcoming vip visits")
	require.NotNil(t, got)
	assert.Contains(t, got.ResponseMessage, "tomorrow's")
}
