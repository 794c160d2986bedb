package handlers

import (
	"errors"
	"net/http"

	"github.com/namefreezers/city-directory/internal/directory"
	"github.com/namefreezers/city-directory/internal/metrics"
)

// LookupRecorder receives the outcome of every weather lookup.
type LookupRecorder interface {
	ObserveLookup(outcome string)
}

// classifyLookup maps a SelectCity error to a metrics outcome and an HTTP status.
func classifyLookup(err error) (string, int) {
	switch {
	case err == nil:
		return metrics.LookupApplied, http.StatusOK
	case errors.Is(err, directory.ErrUnknownCity):
		return metrics.LookupUnknown, http.StatusNotFound
	case errors.Is(err, directory.ErrSuperseded):
		return metrics.LookupSuperseded, http.StatusConflict
	default:
		return metrics.LookupFailed, http.StatusBadGateway
	}
}
