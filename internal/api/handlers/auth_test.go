package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fatitalo/quickfeedback/internal/pkg/logger"
	"github.com/fatitalo/quickfeedback/internal/services"
	"github.com/fatitalo/quickfeedback/internal/testutil"
)

func newAuthHandler(t *testing.T) (*AuthHandler, *testutil.MockUserRepository) {
	t.Helper()
	mockRepo := testutil.NewMockUserRepository()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	service := services.NewUserService(mockRepo, log)
	return NewAuthHandler(service, log), mockRepo
}

func TestAuthHandler_Bootstrap(t *testing.T) {
	handler, _ := newAuthHandler(t)

	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "valid email",
			body:           `{"email":"owner@example.com"}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "empty email",
			body:           `{"email":""}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Email is required",
		},
		{
			name:           "malformed body",
			body:           `{`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Email is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/auth", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			handler.Bootstrap(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v, body: %s", rr.Code, tt.expectedStatus, rr.Body.String())
			}

			if tt.expectedError != "" {
				var response map[string]string
				if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if response["error"] != tt.expectedError {
					t.Errorf("error = %q, want %q", response["error"], tt.expectedError)
				}
			}
		})
	}
}

func TestAuthHandler_Bootstrap_Idempotent(t *testing.T) {
	handler, _ := newAuthHandler(t)

	bootstrap := func() map[string]interface{} {
		body, _ := json.Marshal(map[string]string{"email": "owner@example.com"})
		req := httptest.NewRequest(http.MethodPost, "/api/auth", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		handler.Bootstrap(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("handler returned wrong status code: got %v, body: %s", rr.Code, rr.Body.String())
		}

		var response map[string]interface{}
		if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		return response
	}

	first := bootstrap()
	second := bootstrap()

	if first["success"] != true {
		t.Error("response success = false, want true")
	}

	firstUser, ok := first["user"].(map[string]interface{})
	if !ok {
		t.Fatalf("response user = %v, want object", first["user"])
	}
	secondUser := second["user"].(map[string]interface{})

	if firstUser["id"] != secondUser["id"] {
		t.Errorf("repeated bootstrap returned different user: %v vs %v", firstUser["id"], secondUser["id"])
	}
	if firstUser["plan"] != "free" {
		t.Errorf("new user plan = %v, want free", firstUser["plan"])
	}
}
