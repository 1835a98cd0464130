package api

import "net/http"

// StatusSet is a finite set of HTTP status codes.
type StatusSet map[int]struct{}

// NewStatusSet returns a set holding codes.
func NewStatusSet(codes ...int) StatusSet {
	s := make(StatusSet, len(codes))
	for _, c := range codes {
		s[c] = struct{}{}
	}
	return s
}

func (s StatusSet) Contains(code int) bool {
	_, ok := s[code]
	return ok
}

// NotifyStatuses are the error statuses whose server message is shown to the user.
var NotifyStatuses = NewStatusSet(
	http.StatusBadRequest,
	http.StatusNotFound,
)
