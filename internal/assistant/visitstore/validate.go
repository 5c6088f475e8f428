package visitstore

import (
	"fmt"
	"time"

	"assistant-console/internal/common/validation"
	"assistant-console/internal/models"
)

var visitSchema = validation.MustCompile(map[string]interface{}{
	"type":     "object",
	"required": []string{"visitor", "date", "time"},
	"properties": map[string]interface{}{
		"visitor":       map[string]interface{}{"type": "string", "pattern": `\S`},
		"date":          map[string]interface{}{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
		"time":          map[string]interface{}{"type": "string", "pattern": `^([01]\d|2[0-3]):[0-5]\d$`},
		"protocolLevel": map[string]interface{}{"type": "string", "enum": []string{"maximum", "high", "standard"}},
	},
})

// validateInput reports the first problem with a candidate, wrapped in ErrInvalidVisit.
func validateInput(in models.VisitInput) error {
	result, err := visitSchema.Validate(in)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidVisit, err)
	}
	if !result.Valid {
		return fmt.Errorf("%w: %s", ErrInvalidVisit, result.Summary())
	}
	if _, err := time.Parse(models.DateLayout, in.Date); err != nil {
		return fmt.Errorf("%w: date %q is not a calendar date", ErrInvalidVisit, in.Date)
	}
	return nil
}
