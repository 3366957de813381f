package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "roombook/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestWriteError_AppError(t *testing.T) {
	rec := httptest.NewRecorder()
	err := apperrors.Conflict("Room already booked").WithDetails(map[string]any{"conflictingBookingId": "b-1"})

	WriteError(rec, fmt.Errorf("create: %w", err))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	resp := decodeError(t, rec)
	assert.Equal(t, "Room already booked", resp.Error)
	assert.Equal(t, apperrors.CodeConflict, resp.Code)
	assert.Equal(t, "b-1", resp.Details["conflictingBookingId"])
}

func TestWriteError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, apperrors.Internal("secret failure detail", errors.New("boom")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decodeError(t, rec).Error)
}

func TestWriteError_PlainError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, apperrors.CodeInternal, decodeError(t, rec).Code)
}

func TestWriteSuccessWrapsData(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteCreated(rec, map[string]string{"id": "b-1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"data":{"id":"b-1"}}`, rec.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		RoomID string `json:"roomId"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"valid", `{"roomId":"A101"}`, ""},
		{"empty", ``, "Request body is required"},
		{"malformed", `{"roomId":`, "Invalid request body"},
		{"unknown field", `{"room":"A101"}`, "unknown field"},
		{"trailing object", `{"roomId":"A101"}{"roomId":"A102"}`, "single JSON object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var p payload
			err := DecodeJSON(r, &p)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "A101", p.RoomID)
				return
			}
			require.Error(t, err)
			appErr := apperrors.AsAppError(err)
			assert.Equal(t, http.StatusBadRequest, appErr.StatusCode())
			assert.Contains(t, appErr.Message, tt.wantErr)
		})
	}
}

func TestDecodeJSON_TooLarge(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"roomId":"`+strings.Repeat("x", 64)+`"}`))
	r.Body = http.MaxBytesReader(rec, r.Body, 16)

	var p struct {
		RoomID string `json:"roomId"`
	}
	err := DecodeJSON(r, &p)
	require.Error(t, err)
	assert.Equal(t, "Request body too large", apperrors.AsAppError(err).Message)
}
