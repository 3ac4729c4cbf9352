package fedora

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

// ErrNotFound is returned when an object or datastream does not exist.
var ErrNotFound = errors.New("fedora: not found")

// RequestError represents a non-2xx response from the repository.
type RequestError struct {
	StatusCode int
	Status     string
	// Detail is the first line of the server stack trace on 500
	// responses, when one could be extracted from the body.
	Detail string
}

func (e *RequestError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("fedora: %s: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("fedora: %s", e.Status)
}

// Fedora wraps 500 stack traces in a <pre> block when responding with HTML.
var preDetailRe = regexp.MustCompile(`<pre>.*\n(.*)\n`)

func newRequestError(resp *http.Response, body []byte) *RequestError {
	reqErr := &RequestError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
	}
	if resp.StatusCode != http.StatusInternalServerError {
		return reqErr
	}
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain") {
		// plain text: first line of the stack trace is the first line
		reqErr.Detail, _, _ = strings.Cut(string(body), "\n")
	} else if m := preDetailRe.FindSubmatch(body); m != nil {
		reqErr.Detail = string(m[1])
	}
	return reqErr
}
