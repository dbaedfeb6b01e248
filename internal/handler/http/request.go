package http

import (
	"net/http"
	"strconv"

	"github.com/utafrali/sellerhub/pkg/httputil"
	"github.com/utafrali/sellerhub/pkg/validator"
)

const maxBodyBytes = 1 << 20

// decodeJSON decodes and validates the request body into dst. On failure it
// writes a 400 response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := validator.DecodeAndValidate(r.Body, dst); err != nil {
		httputil.WriteValidationError(w, err)
		return false
	}
	return true
}

// queryInt parses an optional integer query parameter. It returns nil when
// the parameter is absent and writes a 400 response when it is malformed.
func queryInt(w http.ResponseWriter, r *http.Request, name string) (*int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		writeInvalidParameter(w, name, raw)
		return nil, false
	}
	return &v, true
}

func writeInvalidParameter(w http.ResponseWriter, name, value string) {
	httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
		Error: &httputil.ErrorResponse{
			Code:    "INVALID_PARAMETER",
			Message: "invalid " + name + ": " + value,
		},
	})
}
