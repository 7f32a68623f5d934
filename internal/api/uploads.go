package api

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"hiring-platform/internal/common/errors"
	"hiring-platform/internal/store"
	"hiring-platform/internal/uploads"
)

const multipartMemory = 1 << 20

type uploadResponse struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	Message  string `json:"message"`
}

func (s *Server) handleChallengeAttachment(w http.ResponseWriter, r *http.Request) {
	if !s.uploadsEnabled(w, r) {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	if _, err := s.challenges.GetCompanyChallenge(r.Context(), id, currentUser(r.Context()).ID); err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			err = errors.NewResourceNotFoundError("challenge", fmt.Sprintf(
				"Challenge with ID %d not found or you don't have permission to upload attachments", id))
		}
		writeError(w, r, s.logger, err)
		return
	}

	s.saveUpload(w, r, uploads.KindChallengeAttachment, id)
}

func (s *Server) handleSubmissionFile(w http.ResponseWriter, r *http.Request) {
	if !s.uploadsEnabled(w, r) {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	if _, err := s.submissions.GetCandidateSubmission(r.Context(), id, currentUser(r.Context()).ID); err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			err = errors.NewResourceNotFoundError("submission", fmt.Sprintf(
				"Submission with ID %d not found or you don't have permission to upload files", id))
		}
		writeError(w, r, s.logger, err)
		return
	}

	s.saveUpload(w, r, uploads.KindSubmissionFile, id)
}

func (s *Server) uploadsEnabled(w http.ResponseWriter, r *http.Request) bool {
	if !s.config.Features.Uploads || s.uploads == nil {
		writeError(w, r, s.logger, errors.NewFeatureDisabledError("uploads"))
		return false
	}
	return true
}

func (s *Server) saveUpload(w http.ResponseWriter, r *http.Request, kind string, ownerID int64) {
	limit := s.uploads.MaxBytes()
	if limit > 0 {
		// Room for multipart framing around the file itself.
		r.Body = http.MaxBytesReader(w, r.Body, limit+multipartMemory)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeError(w, r, s.logger, errors.NewPayloadTooLargeError(limit))
			return
		}
		writeError(w, r, s.logger, errors.NewValidationError("Invalid multipart body", err.Error()))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, s.logger, errors.NewValidationError("Missing form field 'file'", err.Error()))
		return
	}
	defer file.Close()

	stored, err := s.uploads.Save(kind, ownerID, header.Filename, file)
	if err != nil {
		switch {
		case stderrors.Is(err, uploads.ErrInvalidFilename):
			err = errors.NewValidationError("Invalid filename", err.Error())
		case stderrors.Is(err, uploads.ErrTooLarge):
			err = errors.NewPayloadTooLargeError(limit)
		default:
			err = errors.NewStorageWriteFailedError(kind, err)
		}
		writeError(w, r, s.logger, err)
		return
	}

	s.logger.Info("file uploaded", map[string]interface{}{
		"kind":    kind,
		"ownerId": ownerID,
		"path":    stored.Path,
		"bytes":   stored.Size,
	})
	writeJSON(w, http.StatusOK, uploadResponse{
		Filename: stored.Filename,
		Path:     stored.Path,
		Message:  "File uploaded successfully",
	})
}
