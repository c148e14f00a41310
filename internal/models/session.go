package models

import "time"

// SessionState is the portal's view of the current identity.
type SessionState struct {
	User    *User  `json:"user"`
	Token   string `json:"token,omitempty"`
	Loading bool   `json:"loading"`
}

// Authenticated reports whether a token is held.
func (s SessionState) Authenticated() bool {
	return s.Token != ""
}

// HealthStatus is the liveness probe payload.
type HealthStatus struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Service   string `json:"service"`
}

// isoMillis matches the ISO-8601 form browsers emit (2006-01-02T15:04:05.000Z).
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// NewHealthStatus reports the service as healthy at the given instant.
func NewHealthStatus(service string, now time.Time) HealthStatus {
	return HealthStatus{
		Status:    "healthy",
		Timestamp: now.UTC().Format(isoMillis),
		Service:   service,
	}
}
