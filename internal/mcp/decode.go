package mcp

import (
	"bytes"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/lagna/internal/errors"
)

// decode converts tool arguments into T. Unknown argument keys are rejected
// so a misspelled field is reported instead of silently dropped.
func decode[T any](req mcp.CallToolRequest) (T, error) {
	var result T
	raw, err := json.Marshal(req.GetArguments())
	if err != nil {
		return result, errors.NewInvalidRequest("arguments are not valid JSON: " + err.Error())
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&result); err != nil {
		return result, errors.NewInvalidRequest("invalid arguments: " + err.Error())
	}
	return result, nil
}
