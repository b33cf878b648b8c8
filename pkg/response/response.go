// Package response writes the API's JSON bodies.
//
// Success bodies are either a raw row-set, a single row, or a confirmation
// object carrying any generated id. Error bodies are always
//
//	{"message": "...", "error": "..."}
//
// where error holds the underlying fault text for diagnostics and is omitted
// when there is none. This is an internal tool; error text is not sanitised.
package response

import (
	"encoding/json"
	"net/http"
)

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func write(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// JSON sends a 200 response with v as the body.
func JSON(w http.ResponseWriter, v interface{}) {
	write(w, http.StatusOK, v)
}

// OK sends a 200 confirmation with just a message.
func OK(w http.ResponseWriter, message string) {
	write(w, http.StatusOK, map[string]interface{}{"message": message})
}

// Created sends a 201 confirmation object; extra carries generated ids and
// any other fields the caller wants echoed back.
func Created(w http.ResponseWriter, message string, extra map[string]interface{}) {
	body := map[string]interface{}{"message": message}
	for k, v := range extra {
		body[k] = v
	}
	write(w, http.StatusCreated, body)
}

// Error sends an error body without underlying fault detail.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, errorBody{Message: message})
}

// ErrorWith sends an error body with the underlying fault message attached.
func ErrorWith(w http.ResponseWriter, status int, message string, err error) {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	write(w, status, errorBody{Message: message, Error: detail})
}
