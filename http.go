package icpa

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/Davibfr13/ICPA/internal"
)

type HttpHandler struct {
	app *application
}

func (h *HttpHandler) SubmitMessage(w http.ResponseWriter, r *http.Request) {
	body := &internal.SubmitMessageRequest{}
	if err := json.NewDecoder(r.Body).Decode(body); err != nil {
		http.Error(w, "Failed to parse incoming json", 400)
		return
	}

	mediaRef := body.MediaPath

	if body.Media != "" {
		if h.app.mediaStore == nil {
			http.Error(w, "Inline media uploads are not enabled", 400)
			return
		}

		data, err := base64.StdEncoding.DecodeString(body.Media)
		if err != nil {
			http.Error(w, "Media is not valid base64", 400)
			return
		}

		mediaRef, err = h.app.mediaStore.Save(data, fileExtension(body.FileName, MediaKind(body.MediaType)))
		if err != nil {
			http.Error(w, "Failed to store media", 500)
			return
		}
	}

	if mediaRef == "" {
		http.Error(w, "Either media or mediaPath must be provided", 400)
		return
	}

	jobId, err := h.app.Submit(body.Number, mediaRef, "", MediaKind(body.MediaType), body.Caption, body.ScheduledAt)
	if err != nil {
		switch errors.Cause(err) {
		case MissingRecipientErr, UnknownMediaKindErr, InvalidDueTimeErr, MediaUnavailableErr:
			http.Error(w, err.Error(), 400)

		case DuplicateJobErr:
			http.Error(w, err.Error(), 409)

		default:
			http.Error(w, "Failed to create delivery job", 500)
		}

		return
	}

	job, err := h.app.Get(jobId)
	if err != nil {
		http.Error(w, "Failed to retrieve delivery job", 500)
		return
	}

	payload := struct {
		JobId  string    `json:"jobId"`
		Status JobStatus `json:"status"`
	}{job.JobId, job.Status}

	data, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to convert to json", 500)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	w.Write(data)
}

func (h *HttpHandler) GetMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := mux.Vars(r)["id"]
	if !ok {
		http.Error(w, "Route id var", 400)
		return
	}

	job, err := h.app.Get(id)
	if err != nil {
		if errors.Cause(err) == JobNotFoundErr {
			http.Error(w, "Delivery job not found", 404)
			return
		}

		http.Error(w, "Failed to retrieve delivery job", 500)
		return
	}

	data, err := json.Marshal(job)
	if err != nil {
		http.Error(w, "Failed to convert delivery job to json", 500)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (h *HttpHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.app.List()
	if err != nil {
		http.Error(w, "Failed to retrieve delivery jobs", 500)
		return
	}

	payload := struct {
		Data []DeliveryJob `json:"data"`
	}{jobs}

	data, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to convert to json", 500)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func fileExtension(fileName string, kind MediaKind) string {
	if ext := strings.TrimPrefix(filepath.Ext(fileName), "."); ext != "" {
		return ext
	}

	switch kind {
	case MediaImage:
		return "jpg"
	case MediaVideo:
		return "mp4"
	case MediaAudio:
		return "ogg"
	default:
		return "bin"
	}
}
