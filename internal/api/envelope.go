package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// The backend is inconsistent about response envelopes: some endpoints
// return the payload directly, others wrap it one level as {"data": ...}.
// unwrap normalizes both shapes before anything reaches core code.
func unwrap(body []byte, out any) error {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}

	if trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &envelope); err == nil && len(envelope.Data) > 0 {
			if err := json.Unmarshal(envelope.Data, out); err != nil {
				return fmt.Errorf("failed to decode enveloped response: %w", err)
			}
			return nil
		}
	}

	if err := json.Unmarshal(trimmed, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// serverMessage extracts the human-readable message from an error body,
// accepting both {"message": ...} and {"error": ...} shapes.
func serverMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
