// internal/workers/assistant/manage-vip-visit/models.go
package managevipvisit

import "assistant-console/internal/models"

const (
	ActionGet          = "get"
	ActionUpdate       = "update"
	ActionDelete       = "delete"
	ActionListUpcoming = "list-upcoming"
)

type Input struct {
	Action string             `json:"action"`
	ID     string             `json:"id,omitempty"`
	Patch  *models.VisitPatch `json:"patch,omitempty"`
	// Now is an optional RFC 3339 reference instant for list-upcoming.
	Now string `json:"now,omitempty"`
}

type Output struct {
	Action  string            `json:"action"`
	Visit   *models.VIPVisit  `json:"visit,omitempty"`
	Visits  []models.VIPVisit `json:"visits,omitempty"`
	Count   int               `json:"count"`
	Deleted bool              `json:"deleted,omitempty"`
}

var inputSchema = map[string]interface{}{
	"type":     "object",
	"required": []string{"action"},
	"properties": map[string]interface{}{
		"action": map[string]interface{}{
			"type": "string",
			"enum": []string{ActionGet, ActionUpdate, ActionDelete, ActionListUpcoming},
		},
		"id":    map[string]interface{}{"type": "string"},
		"patch": map[string]interface{}{"type": "object"},
		"now":   map[string]interface{}{"type": "string", "format": "date-time"},
	},
}
