package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"mime/multipart"
	"net/http"
	"time"

	"lunarlog/internal/model"
)

// CreateProjectInput is the write payload for project creation. LeadScientistID
// is always the acting user's id; the backend enforces the LeadScientist role.
type CreateProjectInput struct {
	Name            string              `json:"name"`
	Description     string              `json:"description,omitempty"`
	Status          model.ProjectStatus `json:"status"`
	LeadScientistID string              `json:"leadScientistId"`
}

// CreateProject creates a project record.
func (c *Client) CreateProject(ctx context.Context, input CreateProjectInput) (model.Project, error) {
	var created model.Project
	path := "/collections/" + model.EntityProject.String()
	if err := c.do(ctx, http.MethodPost, path, input, &created); err != nil {
		return model.Project{}, err
	}
	return created, nil
}

// CreateLogInput is the write payload for observation log creation. ObserverID
// and ObservationDate are attached by the caller at submit time and are never
// user-editable.
type CreateLogInput struct {
	Title           string        `json:"title"`
	Details         string        `json:"details,omitempty"`
	LogType         model.LogType `json:"logType"`
	GravityReading  float64       `json:"gravityReading"`
	ObservationDate time.Time     `json:"observationDate"`
	ProjectID       string        `json:"projectId,omitempty"`
	ObserverID      string        `json:"observerId"`
}

// PhotoUpload carries the transmittable attachment payload. The local preview
// is a separate concern and never leaves the client.
type PhotoUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// CreateLog creates an observation log. With a photo the request is multipart
// (JSON fields plus a file part); without one it is plain JSON.
func (c *Client) CreateLog(ctx context.Context, input CreateLogInput, photo *PhotoUpload) (model.ObservationLog, error) {
	if math.IsNaN(input.GravityReading) {
		// The NaN sentinel marks unparsed numeric input; it is not encodable
		// and must not reach the wire.
		input.GravityReading = 0
	}
	path := "/collections/" + model.EntityObservationLog.String()
	var created model.ObservationLog
	if photo == nil {
		if err := c.do(ctx, http.MethodPost, path, input, &created); err != nil {
			return model.ObservationLog{}, err
		}
		return created, nil
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields, err := json.Marshal(input)
	if err != nil {
		return model.ObservationLog{}, fmt.Errorf("encode log fields: %w", err)
	}
	if err := w.WriteField("record", string(fields)); err != nil {
		return model.ObservationLog{}, fmt.Errorf("write record field: %w", err)
	}
	part, err := w.CreateFormFile("subjectPhoto", photo.Filename)
	if err != nil {
		return model.ObservationLog{}, fmt.Errorf("create photo part: %w", err)
	}
	if _, err := part.Write(photo.Data); err != nil {
		return model.ObservationLog{}, fmt.Errorf("write photo part: %w", err)
	}
	if err := w.Close(); err != nil {
		return model.ObservationLog{}, fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return model.ObservationLog{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := c.send(req, &created); err != nil {
		return model.ObservationLog{}, err
	}
	return created, nil
}
