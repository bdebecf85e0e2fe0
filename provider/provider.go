package provider

import (
	"fmt"
	"net/http"
	"time"
)

// StatusError is returned for any non-2xx provider response. Callers that
// tolerate absence (hook already gone, repo revoked) switch on StatusCode.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e StatusError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.StatusCode, e.Body)
}

func IsStatus(err error, codes ...int) bool {
	se, ok := err.(StatusError)
	if !ok {
		return false
	}
	for _, code := range codes {
		if se.StatusCode == code {
			return true
		}
	}
	return false
}

func NewHttpClient() *http.Client {
	return &http.Client{Timeout: 15 * time.Second}
}
