package api

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Fallback messages when nothing better is available.
const (
	msgRequestFailed = "Request failed"
	msgNetworkError  = "Network error"
)

// errorBody covers the error shapes backends commonly return:
// {"error":"..."}, {"error":{"message":"..."}} and {"message":"..."}.
type errorBody struct {
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message"`
}

type nestedError struct {
	Message string `json:"message"`
}

// errorMessage picks the message for a non-2xx response.
func errorMessage(status int, raw []byte) string {
	if !json.Valid(raw) {
		if text := http.StatusText(status); text != "" {
			return text
		}
		return msgRequestFailed
	}

	// Valid JSON that is not an object carries no message.
	var body errorBody
	_ = json.Unmarshal(raw, &body)

	if msg := decodeErrorField(body.Error); msg != "" {
		return msg
	}
	if body.Message != "" {
		return body.Message
	}
	return msgRequestFailed
}

func decodeErrorField(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var nested nestedError
	if err := json.Unmarshal(raw, &nested); err == nil {
		return nested.Message
	}
	return ""
}

func networkMessage(err error) string {
	if err == nil || strings.TrimSpace(err.Error()) == "" {
		return msgNetworkError
	}
	return err.Error()
}
