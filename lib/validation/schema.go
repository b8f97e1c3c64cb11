package validation

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// AppearanceSchema defines the JSON schema for the POST /appearances body.
// The rating range is checked by ValidateRating, not here.
var AppearanceSchema = `{
	"type": "object",
	"properties": {
		"rating": {"type": "integer"},
		"episode_id": {"type": "integer", "minimum": 1},
		"guest_id": {"type": "integer", "minimum": 1}
	},
	"required": ["rating", "episode_id", "guest_id"]
}`

var appearanceSchema = gojsonschema.NewStringLoader(AppearanceSchema)

// AppearanceRequest is the decoded body of POST /appearances.
type AppearanceRequest struct {
	Rating    int  `json:"rating"`
	EpisodeID uint `json:"episode_id"`
	GuestID   uint `json:"guest_id"`
}

// SchemaError carries one message per schema violation.
type SchemaError struct {
	Messages []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("JSON validation failed: %v", e.Messages)
}

// ValidateAppearanceRequest checks a raw body against AppearanceSchema.
// Malformed JSON and schema violations are both reported as *SchemaError.
func ValidateAppearanceRequest(jsonData []byte) error {
	result, err := gojsonschema.Validate(appearanceSchema, gojsonschema.NewBytesLoader(jsonData))
	if err != nil {
		return &SchemaError{Messages: []string{"Request body must be a JSON object"}}
	}

	if !result.Valid() {
		var messages []string
		for _, desc := range result.Errors() {
			messages = append(messages, desc.String())
		}
		return &SchemaError{Messages: messages}
	}

	return nil
}

// ParseAppearanceRequest validates and decodes a POST /appearances body.
func ParseAppearanceRequest(jsonData []byte) (*AppearanceRequest, error) {
	if err := ValidateAppearanceRequest(jsonData); err != nil {
		return nil, err
	}

	var req AppearanceRequest
	if err := json.Unmarshal(jsonData, &req); err != nil {
		return nil, &SchemaError{Messages: []string{fmt.Sprintf("Invalid request body: %v", err)}}
	}

	return &req, nil
}

// Messages flattens a validation failure into the human readable strings
// used in {"errors": [...]} responses. It returns nil for other errors.
func Messages(err error) []string {
	var schemaErr *SchemaError
	if errors.As(err, &schemaErr) {
		return schemaErr.Messages
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return []string{validationErr.Error()}
	}
	return nil
}
