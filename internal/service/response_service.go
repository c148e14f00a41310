package service

import "time"

// LogFilter narrows the activity log by time range and event type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "LOGIN", "LOGOUT", "REFRESH_FAILED", ...
}
