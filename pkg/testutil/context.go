// Package testutil holds small helpers shared by handler and service tests.
package testutil

import (
	"net/http"
	"time"

	"steward/pkg/requestcontext"
)

// WithCaller injects an authenticated caller identity into the request
// context, simulating what the auth middleware does for signed-in requests.
func WithCaller(req *http.Request, identity string) *http.Request {
	return req.WithContext(requestcontext.WithCaller(req.Context(), identity))
}

// WithRequestTime pins the request-scoped wall clock so event envelopes
// carry a deterministic timestamp.
func WithRequestTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
