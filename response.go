package web_portal

// Response is the uniform result of every backend exchange.
// Exactly one of Data or Error is set.
type Response[T any] struct {
	Data  *T     `json:"data,omitempty"`
	Error string `json:"error,omitempty"`

	// Status is the upstream HTTP status, 0 when the request never completed.
	Status int `json:"-"`
}

// OK wraps a successful payload.
func OK[T any](data T, status int) Response[T] {
	return Response[T]{Data: &data, Status: status}
}

// Fail wraps an error message. An empty message is never produced by callers.
func Fail[T any](msg string, status int) Response[T] {
	return Response[T]{Error: msg, Status: status}
}

// Ok reports whether the response carries data.
func (r Response[T]) Ok() bool {
	return r.Error == "" && r.Data != nil
}
