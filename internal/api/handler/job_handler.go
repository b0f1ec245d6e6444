package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jobboard/job-board-api/internal/core/ports"
)

// JobHandler serves job CRUD. Provider routes are scoped to the caller's own
// jobs; admin routes see every job.
type JobHandler struct {
	jobs      ports.JobService
	integrity ports.IntegrityService
	ownOnly   bool
}

// NewAdminJobHandler builds the unscoped variant used under /admin.
func NewAdminJobHandler(jobs ports.JobService, integrity ports.IntegrityService) *JobHandler {
	return &JobHandler{jobs: jobs, integrity: integrity}
}

// NewProviderJobHandler builds the variant used under /provider.
func NewProviderJobHandler(jobs ports.JobService, integrity ports.IntegrityService) *JobHandler {
	return &JobHandler{jobs: jobs, integrity: integrity, ownOnly: true}
}

func (h *JobHandler) owner(who ports.Identity) string {
	if h.ownOnly {
		return who.UserID
	}
	return ""
}

// List returns the jobs visible to the caller.
//
// @Summary      List jobs
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  jobsResponse
// @Router       /admin/jobs [get]
// @Router       /provider/jobs [get]
func (h *JobHandler) List(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	jobs, err := h.jobs.List(c.Request().Context(), h.owner(who))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, jobsResponse{Message: "Fetched the list of jobs", Jobs: jobs})
}

// Create posts a job owned by the caller.
//
// @Summary      Add a job
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      jobRequest  true  "Job details"
// @Success      201   {object}  jobResponse
// @Failure      422   {object}  errorResponse
// @Router       /admin/jobs [post]
// @Router       /provider/jobs [post]
func (h *JobHandler) Create(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	var req jobRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	job, err := h.jobs.Create(c.Request().Context(), who.UserID, req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, jobResponse{Message: "Job Added Successfully", Job: job})
}

// Get returns a single job.
//
// @Summary      Get a job
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Param        jobId  path      string  true  "Job id"
// @Success      200    {object}  jobResponse
// @Failure      404    {object}  errorResponse
// @Router       /admin/jobs/{jobId} [get]
// @Router       /provider/jobs/{jobId} [get]
func (h *JobHandler) Get(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	job, err := h.jobs.Get(c.Request().Context(), c.Param("jobId"), h.owner(who))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, jobResponse{Message: "Fetched the job Successfully", Job: job})
}

// Edit updates a job.
//
// @Summary      Update a job
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        jobId  path      string          true  "Job id"
// @Param        body   body      editJobRequest  true  "Fields to change"
// @Success      200    {object}  messageResponse
// @Failure      404    {object}  errorResponse
// @Router       /admin/jobs/{jobId} [put]
// @Router       /provider/jobs/{jobId} [put]
func (h *JobHandler) Edit(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	var req editJobRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.jobs.Edit(c.Request().Context(), c.Param("jobId"), h.owner(who), req.toInput()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Job was updated successfully."})
}

// Delete removes a job together with its applicants and their resumes.
//
// @Summary      Delete a job
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Param        jobId  path      string  true  "Job id"
// @Success      200    {object}  messageResponse
// @Failure      404    {object}  errorResponse
// @Router       /admin/jobs/{jobId} [delete]
// @Router       /provider/jobs/{jobId} [delete]
func (h *JobHandler) Delete(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.integrity.DeleteJob(c.Request().Context(), c.Param("jobId"), who.UserID, h.ownOnly); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Job record was deleted successfully!"})
}
