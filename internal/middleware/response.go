package middleware

import (
	"encoding/json"
	"net/http"
)

// Response is the envelope of every API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Count   *int        `json:"count,omitempty"`
}

// RespondWithJSON sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// RespondWithData sends a successful envelope carrying data
func RespondWithData(w http.ResponseWriter, statusCode int, data interface{}) {
	RespondWithJSON(w, statusCode, Response{Success: true, Data: data})
}

// RespondWithList sends a successful envelope carrying a collection and its size
func RespondWithList(w http.ResponseWriter, statusCode int, data interface{}, count int) {
	RespondWithJSON(w, statusCode, Response{Success: true, Data: data, Count: &count})
}

// RespondWithMessage sends a successful envelope carrying only a message
func RespondWithMessage(w http.ResponseWriter, statusCode int, message string) {
	RespondWithJSON(w, statusCode, Response{Success: true, Message: message})
}

// RespondWithError sends a failed envelope
func RespondWithError(w http.ResponseWriter, statusCode int, message string) {
	RespondWithJSON(w, statusCode, Response{Success: false, Message: message})
}
