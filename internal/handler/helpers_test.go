package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/lucianocastr/estudiors/internal/config"
	customError "github.com/lucianocastr/estudiors/pkg/errors"
)

func TestWriteServiceError_StatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "case not found maps to 404",
			err:      customError.WrapCaseNotFound(uuid.NewString()),
			expected: http.StatusNotFound,
		},
		{
			name:     "inquiry not found maps to 404",
			err:      customError.WrapInquiryNotFound(uuid.NewString()),
			expected: http.StatusNotFound,
		},
		{
			name:     "invalid debt category maps to 400",
			err:      customError.WrapInvalidDebtCategory("crypto"),
			expected: http.StatusBadRequest,
		},
		{
			name:     "contact required maps to 400",
			err:      customError.NewBusinessError(customError.ErrCodeContactRequired, "a contact is required", nil),
			expected: http.StatusBadRequest,
		},
		{
			name:     "alert already closed maps to 409",
			err:      customError.NewBusinessError(customError.ErrCodeAlertAlreadyClosed, "alert already resolved", nil),
			expected: http.StatusConflict,
		},
		{
			name:     "database error maps to 500",
			err:      customError.WrapDatabaseError(sql.ErrConnDone),
			expected: http.StatusInternalServerError,
		},
		{
			name:     "plain error maps to 500",
			err:      sql.ErrConnDone,
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()

			writeServiceError(recorder, tt.err)

			assert.Equal(t, tt.expected, recorder.Code)
			assert.Contains(t, recorder.Header().Get("Content-Type"), "application/json")
		})
	}
}

func TestAuthorFromHeader(t *testing.T) {
	id := uuid.New()

	request := httptest.NewRequest(http.MethodPost, "/api/v1/inquiries", nil)
	request.Header.Set("X-User-ID", id.String())
	author := authorFromHeader(request)
	assert.NotNil(t, author)
	assert.Equal(t, id, *author)

	request = httptest.NewRequest(http.MethodPost, "/api/v1/inquiries", nil)
	assert.Nil(t, authorFromHeader(request))

	request.Header.Set("X-User-ID", "not-a-uuid")
	assert.Nil(t, authorFromHeader(request))
}

func TestQueueHandler_RejectsBadCronToken(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{CronToken: "secret-token"},
	}
	handler := NewQueueHandler(nil, nil, cfg)

	tests := []struct {
		name  string
		token string
	}{
		{name: "missing token", token: ""},
		{name: "wrong token", token: "wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodPost, "/internal/queue/dispatch", nil)
			if tt.token != "" {
				request.Header.Set("X-Cron-Token", tt.token)
			}
			recorder := httptest.NewRecorder()

			handler.DispatchNotifications(recorder, request)

			assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		})
	}
}
