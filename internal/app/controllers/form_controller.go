package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/audease/audease-backend/internal/app/models/dto"
	"github.com/audease/audease-backend/internal/app/services"
	"github.com/audease/audease-backend/internal/middleware"
)

// FormController handles form templates and the submission workflow.
type FormController struct {
	formService services.FormService
	actionLogs  services.AppLogService
}

// NewFormController creates a new FormController
func NewFormController(formService services.FormService, actionLogs services.AppLogService) *FormController {
	return &FormController{
		formService: formService,
		actionLogs:  actionLogs,
	}
}

// ListForms handles the form template catalog
// @Summary List form templates
// @Description Lists the available form templates
// @Tags forms
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Forms retrieved successfully"
// @Router /forms [get]
func (c *FormController) ListForms(ctx *gin.Context) {
	forms, err := c.formService.ListForms(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      forms,
		Timestamp: time.Now(),
	})
}

// CreateDraft handles starting a draft submission
// @Summary Create a draft submission
// @Description Starts a draft submission for a student against the active template of the given type
// @Tags forms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateDraftRequest true "Form type, student and initial data"
// @Success 201 {object} dto.APIResponse{data=models.FormSubmission} "Draft created successfully"
// @Failure 400 {object} dto.ErrorResponse "Unknown form type"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /forms/submissions [post]
func (c *FormController) CreateDraft(ctx *gin.Context) {
	userID, schoolID, ok := requestScope(ctx)
	if !ok {
		return
	}

	var req dto.CreateDraftRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid submission data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	submission, err := c.formService.CreateDraft(ctx, schoolID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.actionLogs.Record(ctx, userID, "form.draft_create", "started a form submission")

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      submission,
		Timestamp: time.Now(),
	})
}

// UpdateDraft handles editing a draft submission
// @Summary Update a draft submission
// @Description Shallow-merges new data into a draft. Submitted forms cannot be edited.
// @Tags forms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Param request body dto.UpdateDraftRequest true "Data to merge"
// @Success 200 {object} dto.APIResponse{data=models.FormSubmission} "Draft updated successfully"
// @Failure 409 {object} dto.ErrorResponse "Submission is not a draft"
// @Router /forms/submissions/{id} [put]
func (c *FormController) UpdateDraft(ctx *gin.Context) {
	_, schoolID, ok := requestScope(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateDraftRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid submission data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	submission, err := c.formService.UpdateDraft(ctx, schoolID, id, req.Data)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      submission,
		Timestamp: time.Now(),
	})
}

// Submit handles finalizing a draft
// @Summary Submit a draft
// @Description Moves a draft submission into the review queue
// @Tags forms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Success 200 {object} dto.APIResponse{data=models.FormSubmission} "Submission sent for review"
// @Failure 409 {object} dto.ErrorResponse "Submission is not a draft"
// @Router /forms/submissions/{id}/submit [post]
func (c *FormController) Submit(ctx *gin.Context) {
	userID, schoolID, ok := requestScope(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	submission, err := c.formService.Submit(ctx, schoolID, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.actionLogs.Record(ctx, userID, "form.submit", "submitted a form for review")

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      submission,
		Timestamp: time.Now(),
	})
}

// SubmitForStudent handles submitting all of a student's drafts at once
// @Summary Submit a student's drafts
// @Description Moves every draft submission of one student into the review queue
// @Tags forms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse "Submissions sent for review"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/submissions/submit [post]
func (c *FormController) SubmitForStudent(ctx *gin.Context) {
	userID, schoolID, ok := requestScope(ctx)
	if !ok {
		return
	}
	studentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	submissions, err := c.formService.SubmitForStudent(ctx, schoolID, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.actionLogs.Record(ctx, userID, "form.submit", "submitted a student's forms for review")

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      submissions,
		Timestamp: time.Now(),
	})
}

// Review handles the reviewer's decision on a submission
// @Summary Review a submission
// @Description Approves, rejects or parks a submitted form
// @Tags forms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Param request body dto.ReviewSubmissionRequest true "Review decision"
// @Success 200 {object} dto.APIResponse{data=models.FormSubmission} "Review recorded"
// @Failure 409 {object} dto.ErrorResponse "Submission is not awaiting review"
// @Router /forms/submissions/{id}/review [post]
func (c *FormController) Review(ctx *gin.Context) {
	userID, schoolID, ok := requestScope(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ReviewSubmissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid review data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	submission, err := c.formService.Review(ctx, schoolID, id, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.actionLogs.Record(ctx, userID, "form.review", "reviewed a form submission")

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      submission,
		Timestamp: time.Now(),
	})
}

// GetSubmission handles fetching one submission
// @Summary Get a submission
// @Description Retrieves one form submission with its data
// @Tags forms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Success 200 {object} dto.APIResponse{data=models.FormSubmission} "Submission retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Submission not found"
// @Router /forms/submissions/{id} [get]
func (c *FormController) GetSubmission(ctx *gin.Context) {
	_, schoolID, ok := requestScope(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	submission, err := c.formService.GetSubmission(ctx, schoolID, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      submission,
		Timestamp: time.Now(),
	})
}

// ListByStudent handles a student's submission history
// @Summary List a student's submissions
// @Description Lists every form submission recorded for one student
// @Tags forms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse "Submissions retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/submissions [get]
func (c *FormController) ListByStudent(ctx *gin.Context) {
	_, schoolID, ok := requestScope(ctx)
	if !ok {
		return
	}
	studentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	submissions, err := c.formService.ListByStudent(ctx, schoolID, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      submissions,
		Timestamp: time.Now(),
	})
}
