package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/fatitalo/quickfeedback/internal/api/dto"
	"github.com/fatitalo/quickfeedback/internal/domain/feedback"
	"github.com/fatitalo/quickfeedback/internal/pkg/logger"
	"github.com/fatitalo/quickfeedback/internal/pkg/validator"
	"github.com/fatitalo/quickfeedback/internal/services"
	"github.com/fatitalo/quickfeedback/internal/testutil"
)

func newFeedbackHandler(t *testing.T) (*FeedbackHandler, *testutil.MockFeedbackRepository) {
	t.Helper()
	mockRepo := testutil.NewMockFeedbackRepository()
	mockUsers := testutil.NewMockUserRepository()
	mockMail := testutil.NewMockMailer()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	service := services.NewFeedbackService(mockRepo, mockUsers, mockMail, "", log)
	val := validator.New()
	return NewFeedbackHandler(service, log, val), mockRepo
}

func TestFeedbackHandler_Submit(t *testing.T) {
	handler, _ := newFeedbackHandler(t)

	tests := []struct {
		name            string
		requestBody     dto.SubmitFeedbackRequest
		expectedStatus  int
		expectedMessage string
	}{
		{
			name: "valid submission",
			requestBody: dto.SubmitFeedbackRequest{
				Name:      "Jane",
				Email:     "jane@example.com",
				Message:   "Love the product",
				SiteURL:   "https://example.com",
				ProjectID: "owner-1",
			},
			expectedStatus:  http.StatusOK,
			expectedMessage: "Feedback submitted successfully",
		},
		{
			name: "missing project id",
			requestBody: dto.SubmitFeedbackRequest{
				Name:    "Jane",
				Email:   "jane@example.com",
				Message: "Love the product",
			},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Missing project ID",
		},
		{
			name: "missing fields",
			requestBody: dto.SubmitFeedbackRequest{
				ProjectID: "owner-1",
			},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Missing required fields",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.requestBody)
			req := httptest.NewRequest(http.MethodPost, "/api/feedback", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			handler.Submit(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v, body: %s", rr.Code, tt.expectedStatus, rr.Body.String())
			}

			var response map[string]interface{}
			if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if response["message"] != tt.expectedMessage {
				t.Errorf("message = %q, want %q", response["message"], tt.expectedMessage)
			}

			wantSuccess := tt.expectedStatus == http.StatusOK
			if response["success"] != wantSuccess {
				t.Errorf("success = %v, want %v", response["success"], wantSuccess)
			}
		})
	}
}

func TestFeedbackHandler_List(t *testing.T) {
	handler, mockRepo := newFeedbackHandler(t)
	ctx := context.Background()

	mockRepo.Create(ctx, &feedback.Feedback{
		Name: "Jane", Email: "jane@example.com", Message: "first", UserID: "owner-1",
	})
	mockRepo.Create(ctx, &feedback.Feedback{
		Name: "Sam", Email: "sam@example.com", Message: "second", UserID: "owner-2",
	})

	tests := []struct {
		name          string
		query         string
		expectedCount int
	}{
		{
			name:          "list all",
			query:         "",
			expectedCount: 2,
		},
		{
			name:          "filter by owner",
			query:         "?userId=owner-1",
			expectedCount: 1,
		},
		{
			name:          "unknown owner returns empty array",
			query:         "?userId=owner-999",
			expectedCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/feedback"+tt.query, nil)
			rr := httptest.NewRecorder()

			handler.List(rr, req)

			if rr.Code != http.StatusOK {
				t.Fatalf("handler returned wrong status code: got %v, body: %s", rr.Code, rr.Body.String())
			}

			// The dashboard expects a bare array, not an envelope.
			var items []map[string]interface{}
			if err := json.NewDecoder(rr.Body).Decode(&items); err != nil {
				t.Fatalf("failed to decode response as array: %v", err)
			}
			if len(items) != tt.expectedCount {
				t.Errorf("returned %d items, want %d", len(items), tt.expectedCount)
			}
		})
	}
}

func TestFeedbackHandler_Delete(t *testing.T) {
	handler, mockRepo := newFeedbackHandler(t)
	ctx := context.Background()

	fb := &feedback.Feedback{
		Name: "Jane", Email: "jane@example.com", Message: "hi", UserID: "owner-1",
	}
	mockRepo.Create(ctx, fb)

	deleteReq := func(id string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodDelete, "/api/feedback/"+id, nil)

		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

		rr := httptest.NewRecorder()
		handler.Delete(rr, req)
		return rr
	}

	rr := deleteReq(fb.ID)
	if rr.Code != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v, body: %s", rr.Code, rr.Body.String())
	}
	if len(mockRepo.Rows) != 0 {
		t.Errorf("delete left %d rows, want 0", len(mockRepo.Rows))
	}

	// Deleting the same row again still succeeds.
	rr = deleteReq(fb.ID)
	if rr.Code != http.StatusOK {
		t.Errorf("second delete returned wrong status code: got %v", rr.Code)
	}
}
