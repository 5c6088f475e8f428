// internal/workers/assistant/process-message/models.go
package processmessage

import "assistant-console/internal/models"

type Input struct {
	Text  string `json:"text"`
	Actor string `json:"actor,omitempty"`
}

type Output struct {
	Kind         string                    `json:"kind"`
	Message      string                    `json:"message"`
	Intent       models.QueryIntent        `json:"intent,omitempty"`
	Confidence   float64                   `json:"confidence"`
	SectionID    string                    `json:"sectionId,omitempty"`
	VisitID      string                    `json:"visitId,omitempty"`
	VisitCreated bool                      `json:"visitCreated"`
	QuickAction  *models.QuickActionResult `json:"quickAction,omitempty"`
	Result       *models.ParsedQueryResult `json:"result,omitempty"`
	Visit        *models.VIPVisit          `json:"visit,omitempty"`
}

var inputSchema = map[string]interface{}{
	"type":     "object",
	"required": []string{"text"},
	"properties": map[string]interface{}{
		"text":  map[string]interface{}{"type": "string", "minLength": 1, "maxLength": 4000},
		"actor": map[string]interface{}{"type": "string"},
	},
}
