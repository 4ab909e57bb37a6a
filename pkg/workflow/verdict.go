package workflow

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// verdictSchema describes the feasibility model output
const verdictSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["reasoning", "can_answer"],
  "properties": {
    "reasoning": {"type": "string"},
    "can_answer": {"type": "boolean"}
  }
}`

var verdictSchemaLoader = gojsonschema.NewStringLoader(verdictSchema)

// Verdict is the feasibility judgment returned by the model
type Verdict struct {
	Reasoning string `json:"reasoning"`
	CanAnswer bool   `json:"can_answer"`
}

// fallbackVerdict is used whenever the model output cannot be parsed
var fallbackVerdict = Verdict{Reasoning: "", CanAnswer: false}

// ParseVerdict parses raw model output as a JSON verdict. The output must be
// a single JSON object with a string "reasoning" and a boolean "can_answer".
func ParseVerdict(raw string) (Verdict, error) {
	result, err := gojsonschema.Validate(verdictSchemaLoader, gojsonschema.NewStringLoader(raw))
	if err != nil {
		return fallbackVerdict, fmt.Errorf("invalid verdict JSON: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fallbackVerdict, errors.New("verdict schema validation failed: " + strings.Join(msgs, "; "))
	}

	var v Verdict
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return fallbackVerdict, fmt.Errorf("invalid verdict JSON: %w", err)
	}
	return v, nil
}
