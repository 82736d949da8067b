package sharepoint

import (
	"bytes"
	"encoding/json"

	"github.com/sehadigital/roomstatus/pkg/apperrors"
)

// The store wraps payloads in a single verbose-odata envelope under a
// top-level "d" key. Both the wrapped and the plain shape are accepted;
// anything else is a decode failure, never a silent fallback.

type envelope struct {
	D json.RawMessage `json:"d"`
}

type resultSet struct {
	Results *json.RawMessage `json:"results"`
}

// unwrap strips one envelope level from payload if present.
func unwrap(payload []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil, nil
	}

	switch trimmed[0] {
	case '[':
		return trimmed, nil
	case '{':
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, apperrors.NewExternalError("decode response envelope", err)
		}
		if len(env.D) > 0 && !bytes.Equal(env.D, []byte("null")) {
			return env.D, nil
		}
		return trimmed, nil
	}
	return nil, apperrors.NewExternalError("unrecognized response shape", nil)
}

// resultsArray extracts the results array from an unwrapped list payload.
// A bare array is accepted as-is; an object must carry a "results" key.
// A missing array (nil return) means the store answered with no results.
func resultsArray(payload json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		return trimmed, nil
	}
	if trimmed[0] != '{' {
		return nil, apperrors.NewExternalError("unrecognized list response shape", nil)
	}

	var set resultSet
	if err := json.Unmarshal(trimmed, &set); err != nil {
		return nil, apperrors.NewExternalError("decode list response", err)
	}
	if set.Results == nil {
		return nil, apperrors.NewExternalError("list response has no results array", nil)
	}
	if bytes.Equal(bytes.TrimSpace(*set.Results), []byte("null")) {
		return nil, nil
	}
	return *set.Results, nil
}
