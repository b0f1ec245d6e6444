package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jobboard/job-board-api/internal/core/ports"
)

// ProviderHandler serves the provider dashboard and applicant review.
type ProviderHandler struct {
	jobs       ports.JobService
	applicants ports.ApplicantService
	integrity  ports.IntegrityService
}

func NewProviderHandler(jobs ports.JobService, applicants ports.ApplicantService, integrity ports.IntegrityService) *ProviderHandler {
	return &ProviderHandler{jobs: jobs, applicants: applicants, integrity: integrity}
}

// Stats handles GET /provider/stats.
//
// @Summary      Provider dashboard counts
// @Tags         provider
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  providerStatsResponse
// @Router       /provider/stats [get]
func (h *ProviderHandler) Stats(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	stats, err := h.jobs.ProviderStats(c.Request().Context(), who.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, providerStatsResponse{Message: "Successfully fetched the stats", Stats: *stats})
}

// Recent handles GET /provider/recent.
//
// @Summary      Provider's newest jobs
// @Tags         provider
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  providerRecentResponse
// @Router       /provider/recent [get]
func (h *ProviderHandler) Recent(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	jobs, err := h.jobs.Recent(c.Request().Context(), who.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, providerRecentResponse{Message: "Successfully fetched the recent jobs", RecentJobs: jobs})
}

// Applicants handles GET /provider/jobs/:jobId/applicants.
//
// @Summary      Applicants awaiting a decision
// @Tags         provider
// @Produce      json
// @Security     BearerAuth
// @Param        jobId  path      string  true  "Job id"
// @Success      200    {object}  applicantsResponse
// @Router       /provider/jobs/{jobId}/applicants [get]
func (h *ProviderHandler) Applicants(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	views, err := h.applicants.ListForJob(c.Request().Context(), who.UserID, c.Param("jobId"), ports.StageApplied)
	if err != nil {
		return err
	}
	msg := "Successfully fetched the applicants"
	if len(views) == 0 {
		msg = "Looks like no one has applied yet!"
	}
	return c.JSON(http.StatusOK, applicantsResponse{Message: msg, Applicants: views})
}

// Shortlists handles GET /provider/jobs/:jobId/shortlists.
//
// @Summary      Shortlisted applicants
// @Tags         provider
// @Produce      json
// @Security     BearerAuth
// @Param        jobId  path      string  true  "Job id"
// @Success      200    {object}  shortlistsResponse
// @Router       /provider/jobs/{jobId}/shortlists [get]
func (h *ProviderHandler) Shortlists(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	views, err := h.applicants.ListForJob(c.Request().Context(), who.UserID, c.Param("jobId"), ports.StageShortlisted)
	if err != nil {
		return err
	}
	msg := "Successfully fetched the shortlists"
	if len(views) == 0 {
		msg = "Looks like no one has been shortlisted yet!"
	}
	return c.JSON(http.StatusOK, shortlistsResponse{Message: msg, Shortlists: views})
}

// Resume handles GET /provider/applicants/:applicantId/resume.
//
// @Summary      Download an applicant's resume
// @Tags         provider
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        applicantId  path  string  true  "Applicant id"
// @Success      200
// @Failure      404  {object}  errorResponse
// @Router       /provider/applicants/{applicantId}/resume [get]
func (h *ProviderHandler) Resume(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	rc, err := h.applicants.Resume(c.Request().Context(), c.Param("applicantId"), who.UserID)
	if err != nil {
		return err
	}
	defer rc.Close()

	return c.Stream(http.StatusOK, "application/pdf", rc)
}

// Shortlist handles PATCH /provider/applicants/:applicantId/shortlist.
//
// @Summary      Shortlist an applicant
// @Tags         provider
// @Produce      json
// @Security     BearerAuth
// @Param        applicantId  path      string  true  "Applicant id"
// @Success      200          {object}  messageResponse
// @Failure      403          {object}  errorResponse
// @Failure      404          {object}  errorResponse
// @Failure      409          {object}  errorResponse
// @Router       /provider/applicants/{applicantId}/shortlist [patch]
func (h *ProviderHandler) Shortlist(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.integrity.ShortlistApplicant(c.Request().Context(), c.Param("applicantId"), who.UserID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Shortlisted the candidate!"})
}

// Reject handles DELETE /provider/applicants/:applicantId.
//
// @Summary      Reject an applicant
// @Tags         provider
// @Produce      json
// @Security     BearerAuth
// @Param        applicantId  path      string  true  "Applicant id"
// @Success      200          {object}  messageResponse
// @Failure      403          {object}  errorResponse
// @Failure      404          {object}  errorResponse
// @Router       /provider/applicants/{applicantId} [delete]
func (h *ProviderHandler) Reject(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.integrity.RejectApplicant(c.Request().Context(), c.Param("applicantId"), who.UserID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Applicant rejected successfully!"})
}
