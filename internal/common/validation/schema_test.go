package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSchema = map[string]interface{}{
	"type":     "object",
	"required": []string{"text"},
	"properties": map[string]interface{}{
		"text":  map[string]interface{}{"type": "string", "minLength": 1},
		"actor": map[string]interface{}{"type": "string"},
		"level": map[string]interface{}{"type": "string", "enum": []string{"high", "low"}},
	},
}

func TestSchema_Validate(t *testing.T) {
	schema := MustCompile(testSchema)

	tests := []struct {
		name      string
		document  interface{}
		wantValid bool
		wantField string
	}{
		{"valid map", map[string]interface{}{"text": "show approvals"}, true, ""},
		{"valid struct", struct {
			Text  string `json:"text"`
			Actor string `json:"actor"`
		}{Text: "hi", Actor: "ops"}, true, ""},
		{"missing required", map[string]interface{}{"actor": "ops"}, false, "(root)"},
		{"empty text", map[string]interface{}{"text": ""}, false, "text"},
		{"enum violation", map[string]interface{}{"text": "x", "level": "medium"}, false, "level"},
		{"wrong type", map[string]interface{}{"text": 42}, false, "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := schema.Validate(tt.document)
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, result.Valid)
			if tt.wantValid {
				assert.Empty(t, result.Errors)
				return
			}
			require.NotEmpty(t, result.Errors)
			assert.Equal(t, tt.wantField, result.Errors[0].Field)
			assert.Contains(t, result.Summary(), tt.wantField)
		})
	}
}

func TestCompile_InvalidSchema(t *testing.T) {
	_, err := Compile(map[string]interface{}{"type": 12})
	assert.Error(t, err)
}
