package api

import (
	"encoding/json"
	"net/http"
)

// WriteJSON encodes data and writes it with the given status code. The body
// is encoded before any header is written, so an encoding failure never
// produces a half-written 200 response.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	if statusCode == 0 {
		statusCode = http.StatusOK
	}

	body, err := json.Marshal(data)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, err = w.Write(body)
	return err
}
