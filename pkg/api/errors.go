package api

import (
	"errors"
	"net/http"

	"github.com/seekfs/seekfs/pkg/provider"
	"github.com/seekfs/seekfs/pkg/search"
)

// writeError maps a service error onto an HTTP status via the shared
// error taxonomy. Unclassified errors become 500s with their message
// intact; the taxonomy sentinels are the API contract, so anything
// outside it is a bug worth surfacing loudly.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, provider.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, provider.ErrPermissionDenied):
		status = http.StatusForbidden
	case errors.Is(err, provider.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, provider.ErrConnection):
		status = http.StatusBadGateway
	case errors.Is(err, search.ErrEmptyQuery), errors.Is(err, search.ErrUnsafeDir):
		status = http.StatusBadRequest
	}
	writeDetail(w, status, err.Error())
}
