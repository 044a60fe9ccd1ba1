// Package server provides the HTTP server for the rehab API.
// It includes handlers, middleware, routes, and DTOs separated from domain types.
package server

import (
	"mime/multipart"
	"time"

	"github.com/hallym-rehab/rehab-api/internal/program"
)

// CreateProgramRequest is the HTTP request body for registering a program.
// Title, category and description are accepted as sent, including empty values.
type CreateProgramRequest struct {
	// ProgramTitle is the program title.
	ProgramTitle string `json:"programTitle"`
	// Category is the body area or program category.
	Category string `json:"category"`
	// Description is a free-form description.
	Description string `json:"description"`
	// MemberID is the id of the owning member.
	MemberID uint `json:"mid" validate:"required"`
}

// UploadVideoRequest is the multipart form for uploading a program video.
// Files holds exactly two parts: the guide video followed by its JSON metadata.
type UploadVideoRequest struct {
	ActName string                  `validate:"max=255"`
	Files   []*multipart.FileHeader `validate:"len=2"`
}

// ProgramResponse is the HTTP response for a program.
type ProgramResponse struct {
	ID          uint                   `json:"id"`
	Title       string                 `json:"programTitle"`
	Category    string                 `json:"category"`
	Description string                 `json:"description"`
	MemberID    uint                   `json:"mid"`
	CreatedAt   time.Time              `json:"createdAt"`
	Videos      []ProgramVideoResponse `json:"videos,omitempty"`
}

// ProgramVideoResponse is the HTTP response for an uploaded program video.
type ProgramVideoResponse struct {
	ID                   uint      `json:"id"`
	ProgramID            uint      `json:"programId"`
	ActName              string    `json:"actName,omitempty"`
	GuideVideoURL        string    `json:"guideVideoUrl"`
	GuideVideoObjectPath string    `json:"guideVideoObjectPath"`
	JSONURL              string    `json:"jsonUrl"`
	JSONObjectPath       string    `json:"jsonObjectPath"`
	CreatedAt            time.Time `json:"createdAt"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the human-readable error message.
	Error string `json:"error"`
	// Code is the error code for programmatic handling.
	Code string `json:"code"`
	// Detail carries the object store's error code when one is available.
	Detail string `json:"detail,omitempty"`
}

// HealthResponse is the HTTP response for the health check endpoint.
type HealthResponse struct {
	// Status is the health status of the service.
	Status string `json:"status"`
}

func newProgramResponse(p *program.Program, videos []*program.ProgramVideo) ProgramResponse {
	resp := ProgramResponse{
		ID:          p.ID,
		Title:       p.Title,
		Category:    p.Category,
		Description: p.Description,
		MemberID:    p.MemberID,
		CreatedAt:   p.CreatedAt,
	}
	for _, v := range videos {
		resp.Videos = append(resp.Videos, newProgramVideoResponse(v))
	}
	return resp
}

func newProgramVideoResponse(v *program.ProgramVideo) ProgramVideoResponse {
	return ProgramVideoResponse{
		ID:                   v.ID,
		ProgramID:            v.ProgramID,
		ActName:              v.ActName,
		GuideVideoURL:        v.GuideVideoURL,
		GuideVideoObjectPath: v.GuideVideoObjectPath,
		JSONURL:              v.JSONURL,
		JSONObjectPath:       v.JSONObjectPath,
		CreatedAt:            v.CreatedAt,
	}
}
