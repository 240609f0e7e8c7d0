package httpclient

import (
	"net/http"
	"time"
)

// New returns a client with an overall request deadline. Outbound calls to
// the upstream API and the routing service never run unbounded.
func New(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}
