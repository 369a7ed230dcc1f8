package tui

import (
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"lunarlog/internal/api"

	tea "github.com/charmbracelet/bubbletea"
)

// attachment holds a captured subject photo: the transmittable payload and a
// locally renderable preview. The two arrive in separate phases — the payload
// as soon as the file is read, the preview once encoding completes — and the
// UI tolerates a set payload with an unset preview.
type attachment struct {
	path           string
	contentType    string
	payload        []byte
	previewDataURI string
	errMsg         string
}

type photoPayloadMsg struct {
	path        string
	contentType string
	data        []byte
	err         error
}

type photoPreviewMsg struct {
	path    string
	dataURI string
}

// capturePhotoCmd reads the chosen file into the transmittable payload.
// No validation of type, size, or dimensions happens client-side; enforcement
// is the backend's job.
func capturePhotoCmd(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return photoPayloadMsg{path: path, err: err}
		}
		ct := mime.TypeByExtension(filepath.Ext(path))
		if ct == "" {
			ct = "application/octet-stream"
		}
		return photoPayloadMsg{path: path, contentType: ct, data: data}
	}
}

// previewCmd derives the inline-renderable data URI from an already captured
// payload. Kept separate from capture so the payload is usable immediately.
func previewCmd(path, contentType string, data []byte) tea.Cmd {
	return func() tea.Msg {
		uri := "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
		return photoPreviewMsg{path: path, dataURI: uri}
	}
}

func (a *attachment) applyPayload(msg photoPayloadMsg) tea.Cmd {
	if msg.err != nil {
		a.errMsg = msg.err.Error()
		return nil
	}
	a.path = msg.path
	a.contentType = msg.contentType
	a.payload = msg.data
	a.previewDataURI = ""
	a.errMsg = ""
	return previewCmd(msg.path, msg.contentType, msg.data)
}

func (a *attachment) applyPreview(msg photoPreviewMsg) {
	// A stale preview for a cleared or replaced capture is dropped.
	if msg.path != a.path {
		return
	}
	a.previewDataURI = msg.dataURI
}

// clear discards payload and preview unconditionally; calling it on an
// already-empty attachment is a no-op.
func (a *attachment) clear() {
	*a = attachment{}
}

func (a *attachment) upload() *api.PhotoUpload {
	if len(a.payload) == 0 {
		return nil
	}
	return &api.PhotoUpload{
		Filename:    filepath.Base(a.path),
		ContentType: a.contentType,
		Data:        a.payload,
	}
}

// summary is the one-line field rendering for the form.
func (a *attachment) summary() string {
	if a.errMsg != "" {
		return "error: " + a.errMsg
	}
	if len(a.payload) == 0 {
		return "(none)"
	}
	state := "preview pending…"
	if a.previewDataURI != "" {
		state = fmt.Sprintf("preview %dB", len(a.previewDataURI))
	}
	return fmt.Sprintf("%s (%dKB, %s)", filepath.Base(a.path), len(a.payload)/1024, state)
}
