package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	apperrors "roombook/pkg/errors"
)

// DecodeJSON decodes a single JSON object from the request body into v,
// rejecting unknown fields and trailing data.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return apperrors.InvalidInput("Request body is required")
		case errors.As(err, &maxBytesErr):
			return apperrors.InvalidInput("Request body too large")
		default:
			return apperrors.InvalidInput("Invalid request body: " + cleanDecodeError(err))
		}
	}

	if dec.More() {
		return apperrors.InvalidInput("Request body must contain a single JSON object")
	}
	return nil
}

func cleanDecodeError(err error) string {
	return strings.TrimPrefix(err.Error(), "json: ")
}
