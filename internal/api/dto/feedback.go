package dto

// SubmitFeedbackRequest is the body the widget posts. Field names are
// part of the embed contract and must not change.
type SubmitFeedbackRequest struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required"`
	Message   string `json:"message" validate:"required"`
	SiteURL   string `json:"siteUrl,omitempty"`
	ProjectID string `json:"projectId" validate:"required"`
}
