package server

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jobalign/jobalign-api/internal/db"
	"github.com/jobalign/jobalign-api/internal/extract"
	"github.com/jobalign/jobalign-api/internal/server/middleware"
)

// handleUploadResume stores an uploaded resume, extracts its text and
// runs the AI parse synchronously. The row is created as pending and
// moved to completed or failed before the response is written.
func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.errorResponse(w, http.StatusBadRequest, "File exceeds the upload size limit")
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "A file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	if !extract.IsSupported(header.Filename) {
		s.errorResponse(w, http.StatusBadRequest,
			"Unsupported file type; accepted: "+strings.Join(extract.SupportedExtensions, ", "))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read upload: "+err.Error())
		return
	}

	text, err := extract.Text(data, header.Filename)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to extract text: "+err.Error())
		return
	}
	if strings.TrimSpace(text) == "" {
		s.errorResponse(w, http.StatusBadRequest, "The file contains no extractable text")
		return
	}

	resumeID, err := s.store.CreateResume(r.Context(), &db.ResumeCreateInput{
		UserID:        userID,
		Filename:      header.Filename,
		FileType:      strings.TrimPrefix(filepath.Ext(header.Filename), "."),
		FileSize:      int64(len(data)),
		ExtractedText: text,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	analysis, err := s.analyzer.ParseResume(r.Context(), text)
	if err != nil {
		// Keep the upload; the extracted text is still usable
		if statusErr := s.store.SetResumeStatus(r.Context(), resumeID, db.StatusFailed); statusErr != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Database error: "+statusErr.Error())
			return
		}
	} else if err := s.store.UpdateResumeAnalysis(r.Context(), resumeID, analysis); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	resume, err := s.store.GetResume(r.Context(), resumeID, userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.logActivity(r, userID, "resume_upload", "Uploaded resume "+header.Filename, map[string]any{
		"resume_id": resumeID.String(),
		"file_type": resume.FileType,
	})

	s.jsonResponse(w, http.StatusCreated, resume)
}

// handleListResumes returns the caller's resumes, newest first
func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	resumes, err := s.store.ListResumes(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"resumes": resumes,
		"count":   len(resumes),
	})
}

// handleGetResume returns one resume with its full parse
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	resumeID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid resume ID format")
		return
	}

	resume, err := s.store.GetResume(r.Context(), resumeID, userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if resume == nil {
		s.errorResponse(w, http.StatusNotFound, "Resume not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, resume)
}

// handleDeleteResume deletes one of the caller's resumes
func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	resumeID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid resume ID format")
		return
	}

	deleted, err := s.store.DeleteResume(r.Context(), resumeID, userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if !deleted {
		s.errorResponse(w, http.StatusNotFound, "Resume not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}
