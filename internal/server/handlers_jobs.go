package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jobalign/jobalign-api/internal/db"
	"github.com/jobalign/jobalign-api/internal/extract"
	"github.com/jobalign/jobalign-api/internal/fetch"
	"github.com/jobalign/jobalign-api/internal/server/middleware"
)

// JobFromURLRequest is the body for POST /api/job/from-url
type JobFromURLRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// handleUploadJob stores a job description from an uploaded file or from
// inline form fields and runs the AI analysis synchronously.
func (s *Server) handleUploadJob(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	input := &db.JobCreateInput{
		UserID:     userID,
		Title:      r.FormValue("title"),
		Company:    r.FormValue("company"),
		Location:   r.FormValue("location"),
		SourceType: "text",
	}

	if file, header, err := r.FormFile("file"); err == nil {
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
		input.JobText = text
		input.SourceType = "upload"
		input.FileType = strings.TrimPrefix(filepath.Ext(header.Filename), ".")
	} else {
		input.JobText = r.FormValue("job_text")
	}

	if strings.TrimSpace(input.JobText) == "" {
		s.errorResponse(w, http.StatusBadRequest, "Either a file or job_text is required")
		return
	}

	s.analyzeAndRespondJob(w, r, userID, input)
}

// handleJobFromURL fetches a posting page, extracts its text and stores
// it like an upload with the source link retained.
func (s *Server) handleJobFromURL(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req JobFromURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}
	if u, err := url.Parse(req.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		s.errorResponse(w, http.StatusBadRequest, "URL must use http or https")
		return
	}

	text, err := fetch.JobPage(r.Context(), req.URL, s.cfg.UseBrowser)
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, "Failed to fetch job posting: "+err.Error())
		return
	}

	s.analyzeAndRespondJob(w, r, userID, &db.JobCreateInput{
		UserID:     userID,
		JobText:    text,
		SourceLink: req.URL,
		SourceType: "url",
	})
}

// analyzeAndRespondJob persists a job description, runs the AI analysis
// and writes the completed row. Shared by the upload and from-url paths.
func (s *Server) analyzeAndRespondJob(w http.ResponseWriter, r *http.Request, userID uuid.UUID, input *db.JobCreateInput) {
	jobID, err := s.store.CreateJobDescription(r.Context(), input)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	analysis, err := s.analyzer.AnalyzeJob(r.Context(), input.JobText)
	if err != nil {
		if statusErr := s.store.SetJobStatus(r.Context(), jobID, db.StatusFailed); statusErr != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Database error: "+statusErr.Error())
			return
		}
	} else if err := s.store.UpdateJobAnalysis(r.Context(), jobID, analysis); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	job, err := s.store.GetJobDescription(r.Context(), jobID, userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.logActivity(r, userID, "job_added", "Added job description", map[string]any{
		"job_id":      jobID.String(),
		"source_type": input.SourceType,
	})

	s.jsonResponse(w, http.StatusCreated, job)
}

// handleListJobs returns the caller's job descriptions, newest first
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	jobs, err := s.store.ListJobDescriptions(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"jobs":  jobs,
		"count": len(jobs),
	})
}

// handleGetJob returns one job description with its analysis
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID format")
		return
	}

	job, err := s.store.GetJobDescription(r.Context(), jobID, userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "Job description not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, job)
}

// handleDeleteJob deletes one of the caller's job descriptions
func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID format")
		return
	}

	deleted, err := s.store.DeleteJobDescription(r.Context(), jobID, userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if !deleted {
		s.errorResponse(w, http.StatusNotFound, "Job description not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}
