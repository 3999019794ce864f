package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// maxBodyBytes caps JSON request bodies; form payloads here are small.
const maxBodyBytes = 1 << 20

// ErrInvalidJSON is returned by DecodeJSON when the body is empty or malformed.
var ErrInvalidJSON = errors.New("invalid json")

type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// OK is the body of mutation endpoints that have nothing else to report.
type OK struct {
	OK bool `json:"ok"`
}

// Created is the body returned after a record has been persisted.
type Created struct {
	ID string `json:"id"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	var body []byte
	var err error
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			// best-effort error response; avoid writing partial JSON
			http.Error(w, `{"error":"encode_error"}`, http.StatusInternalServerError)
			return
		}
	} else {
		body = []byte("null")
	}
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		// nothing we can do at this point
		_ = err
	}
}

func JSONError(w http.ResponseWriter, status int, msg string, details any) {
	JSON(w, status, ErrorResponse{Error: msg, Details: details})
}

// DecodeJSON reads the request body into dst. Any read or syntax problem,
// including an empty body or a JSON null, yields ErrInvalidJSON.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return ErrInvalidJSON
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil || len(raw) == 0 {
		return ErrInvalidJSON
	}
	if string(raw) == "null" {
		return ErrInvalidJSON
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return ErrInvalidJSON
	}
	return nil
}
