package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// Upload size cap, matching the original webapp's multipart limit.
const maxUploadBytes = 100 * 1024 * 1024

type fileResponse struct {
	ID          int64     `json:"id"`
	FileName    string    `json:"fileName"`
	SizeBytes   int64     `json:"sizeBytes"`
	SizeDisplay float64   `json:"sizeDisplayMb"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	owner := ownerFromContext(r.Context())

	records, err := s.files.List(r.Context(), owner.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := make([]fileResponse, 0, len(records))
	for _, record := range records {
		resp = append(resp, fileResponse{
			ID:          record.ID,
			FileName:    record.FileName,
			SizeBytes:   record.SizeBytes,
			SizeDisplay: record.SizeDisplay,
			UploadedAt:  record.UploadedAt,
		})
	}

	writeSuccess(w, http.StatusOK, resp, "")
}

func (s *Server) handleUploadFile(w http.ResponseWriter, r *http.Request) {
	owner := ownerFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 * 1024 * 1024); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "form field 'file' is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read upload")
		return
	}

	record, err := s.files.Upload(r.Context(), owner, header.Filename, data)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, fileResponse{
		ID:          record.ID,
		FileName:    record.FileName,
		SizeBytes:   record.SizeBytes,
		SizeDisplay: record.SizeDisplay,
		UploadedAt:  record.UploadedAt,
	}, "file uploaded")
}

func (s *Server) handleDownloadFile(w http.ResponseWriter, r *http.Request) {
	owner := ownerFromContext(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid file id")
		return
	}

	result, err := s.files.Download(r.Context(), id, owner)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Data)
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	owner := ownerFromContext(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid file id")
		return
	}

	// Unknown or foreign ids are a no-op, not an error.
	if err := s.files.DeleteOne(r.Context(), id, owner); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, nil, "file deleted")
}
