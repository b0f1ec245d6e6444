package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jobboard/job-board-api/internal/core/domain"
	"github.com/jobboard/job-board-api/internal/core/ports"
)

const resumeField = "resume"

// SeekerHandler serves job browsing and applications for seekers.
type SeekerHandler struct {
	jobs      ports.JobService
	resumes   ports.ResumeStore
	integrity ports.IntegrityService
}

func NewSeekerHandler(jobs ports.JobService, resumes ports.ResumeStore, integrity ports.IntegrityService) *SeekerHandler {
	return &SeekerHandler{jobs: jobs, resumes: resumes, integrity: integrity}
}

// Available handles GET /user/jobs/available.
//
// @Summary      Jobs not applied to yet
// @Tags         seeker
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  jobsResponse
// @Router       /user/jobs/available [get]
func (h *SeekerHandler) Available(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	jobs, err := h.jobs.Available(c.Request().Context(), who.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, jobsResponse{Message: "Fetched the list of jobs", Jobs: jobs})
}

// Applied handles GET /user/jobs/applied.
//
// @Summary      Jobs applied to, with status
// @Tags         seeker
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  appliedJobsResponse
// @Router       /user/jobs/applied [get]
func (h *SeekerHandler) Applied(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	applied, err := h.jobs.Applied(c.Request().Context(), who.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, appliedJobsResponse{Message: "Fetched the list of jobs", JobsApplied: applied})
}

// Apply handles POST /user/jobs/:jobId/apply. The resume is stored first; the
// application itself discards it again if it cannot be recorded.
//
// @Summary      Apply to a job
// @Tags         seeker
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        jobId       path      string  true   "Job id"
// @Param        resume      formData  file    true   "Resume (PDF)"
// @Param        providerId  formData  string  false  "Owner of the job"
// @Success      201         {object}  applyResponse
// @Failure      404         {object}  errorResponse
// @Failure      409         {object}  errorResponse
// @Failure      422         {object}  errorResponse
// @Router       /user/jobs/{jobId}/apply [post]
func (h *SeekerHandler) Apply(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile(resumeField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return domain.Invalid("Resume not Found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, "invalid multipart form")
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	ctx := c.Request().Context()
	path, err := h.resumes.Save(ctx, f)
	if err != nil {
		return err
	}

	applicant, err := h.integrity.ApplyToJob(ctx, ports.ApplyInput{
		JobID:      c.Param("jobId"),
		SeekerID:   who.UserID,
		ProviderID: c.FormValue("providerId"),
		ResumePath: path,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, applyResponse{Message: "Successfully applied for the job!", Applicant: applicant})
}
