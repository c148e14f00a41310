package models

import "time"

// Session event types.
const (
	EventLogin          = "LOGIN"
	EventLoginFailed    = "LOGIN_FAILED"
	EventRegister       = "REGISTER"
	EventRegisterFailed = "REGISTER_FAILED"
	EventLogout         = "LOGOUT"
	EventRestore        = "RESTORE"
	EventRestoreFailed  = "RESTORE_FAILED"
	EventRefresh        = "REFRESH"
	EventRefreshFailed  = "REFRESH_FAILED"
)

// SessionEvent is a single entry of the session activity log.
type SessionEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Metadata    any       `json:"metadata,omitempty"`
}
