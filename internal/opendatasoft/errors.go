package opendatasoft

import (
	"fmt"
	"net/http"
)

// SchemaError reports a response body that does not have the expected shape.
type SchemaError struct {
	Endpoint string
	Field    string
	Reason   string
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("opendatasoft %s: invalid response: %s", e.Endpoint, e.Reason)
	}
	return fmt.Sprintf("opendatasoft %s: invalid response: %s: %s", e.Endpoint, e.Field, e.Reason)
}

// StatusError reports a non-200 answer from the upstream.
type StatusError struct {
	Endpoint string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("opendatasoft %s: unexpected status %d %s",
		e.Endpoint, e.Code, http.StatusText(e.Code))
}
