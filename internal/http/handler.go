package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Nastya870/smetalab-sub001/internal/http/middleware"
	"github.com/Nastya870/smetalab-sub001/internal/model"
	"github.com/Nastya870/smetalab-sub001/internal/repository"
	"github.com/Nastya870/smetalab-sub001/internal/service"
)

type Handler struct {
	acts        *service.ActService
	completions *service.CompletionService
	documents   *service.DocumentService
	log         zerolog.Logger
}

func NewHandler(
	acts *service.ActService,
	completions *service.CompletionService,
	documents *service.DocumentService,
	log zerolog.Logger,
) *Handler {
	return &Handler{acts: acts, completions: completions, documents: documents, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)

	acts := protected.Group("/work-completion-acts")
	acts.POST("/generate", h.generateActs)
	acts.GET("/estimate/:estimateId", h.listActs)
	acts.GET("/:actId", h.getAct)
	acts.DELETE("/:actId", h.deleteAct)
	acts.PATCH("/:actId/status", h.updateActStatus)
	acts.PATCH("/:actId/details", h.updateActDetails)
	acts.POST("/:actId/signatories", h.addSignatory)
	acts.GET("/:actId/forms/ks2", h.ks2Form)
	acts.GET("/:actId/forms/ks3", h.ks3Form)
	acts.GET("/:actId/forms/print", h.printForm)

	completions := protected.Group("/estimates/:estimateId/work-completions")
	completions.GET("", h.listCompletions)
	completions.POST("", h.upsertCompletion)
	completions.POST("/batch", h.batchUpsertCompletions)
	completions.PATCH("/:lineItemId", h.updateCompletion)
	completions.DELETE("/:lineItemId", h.removeCompletion)
}

type generateActsRequest struct {
	EstimateID string `json:"estimateId" binding:"required"`
	ProjectID  string `json:"projectId" binding:"required"`
	ActType    string `json:"actType" binding:"required"`
	PeriodFrom string `json:"periodFrom"`
	PeriodTo   string `json:"periodTo"`
	ActDate    string `json:"actDate"`
}

func (h *Handler) generateActs(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req generateActsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	estimateID, err := uuid.Parse(strings.TrimSpace(req.EstimateID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid estimateId"})
		return
	}
	projectID, err := uuid.Parse(strings.TrimSpace(req.ProjectID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid projectId"})
		return
	}
	kinds, err := parseActType(req.ActType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid actType"})
		return
	}

	input := service.GenerateInput{
		EstimateID: estimateID,
		ProjectID:  projectID,
		Kinds:      kinds,
	}
	if req.PeriodFrom != "" {
		from, err := parseDate(req.PeriodFrom)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid periodFrom"})
			return
		}
		input.PeriodFrom = &from
	}
	if req.PeriodTo != "" {
		to, err := parseDate(req.PeriodTo)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid periodTo"})
			return
		}
		input.PeriodTo = &to
	}
	if req.ActDate != "" {
		actDate, err := parseDate(req.ActDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid actDate"})
			return
		}
		input.ActDate = actDate
	}

	created, err := h.acts.Generate(c.Request.Context(), principal, input)
	if err != nil {
		// "both" runs as two independent transactions; a failure on the
		// second still reports the first as created.
		if len(created) > 0 {
			h.log.Error().Err(err).Msg("partial act generation")
			c.JSON(http.StatusCreated, gin.H{
				"acts":  actSummaries(created),
				"error": "one of the requested acts was not generated",
			})
			return
		}
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"acts": actSummaries(created)})
}

func (h *Handler) listActs(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	estimateID, err := uuid.Parse(c.Param("estimateId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid estimateId"})
		return
	}

	var kind *model.ActKind
	if raw := c.Query("actType"); raw != "" {
		kinds, err := parseActType(raw)
		if err != nil || len(kinds) != 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid actType"})
			return
		}
		kind = &kinds[0]
	}

	acts, err := h.acts.List(c.Request.Context(), principal, estimateID, kind)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"acts": actSummaries(acts)})
}

func (h *Handler) getAct(c *gin.Context) {
	principal, actID, ok := h.actRequest(c)
	if !ok {
		return
	}
	view, err := h.acts.Get(c.Request.Context(), principal, actID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, actViewResponse(view))
}

func (h *Handler) deleteAct(c *gin.Context) {
	principal, actID, ok := h.actRequest(c)
	if !ok {
		return
	}
	if err := h.acts.Delete(c.Request.Context(), principal, actID); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) updateActStatus(c *gin.Context) {
	principal, actID, ok := h.actRequest(c)
	if !ok {
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.acts.UpdateStatus(c.Request.Context(), principal, actID, strings.ToUpper(strings.TrimSpace(req.Status))); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type updateDetailsRequest struct {
	ActDate           *string `json:"actDate"`
	Notes             *string `json:"notes"`
	CustomerName      *string `json:"customerName"`
	ContractorName    *string `json:"contractorName"`
	ContractReference *string `json:"contractReference"`
	ObjectName        *string `json:"objectName"`
	ObjectAddress     *string `json:"objectAddress"`
}

func (h *Handler) updateActDetails(c *gin.Context) {
	principal, actID, ok := h.actRequest(c)
	if !ok {
		return
	}
	var req updateDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	details := repository.ActDetails{
		Notes:             req.Notes,
		CustomerName:      req.CustomerName,
		ContractorName:    req.ContractorName,
		ContractReference: req.ContractReference,
		ObjectName:        req.ObjectName,
		ObjectAddress:     req.ObjectAddress,
	}
	if req.ActDate != nil {
		actDate, err := parseDate(*req.ActDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid actDate"})
			return
		}
		details.ActDate = &actDate
	}

	if err := h.acts.UpdateDetails(c.Request.Context(), principal, actID, details); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type addSignatoryRequest struct {
	Role     string  `json:"role" binding:"required"`
	FullName string  `json:"fullName" binding:"required"`
	Position string  `json:"position"`
	Basis    *string `json:"basis"`
}

func (h *Handler) addSignatory(c *gin.Context) {
	principal, actID, ok := h.actRequest(c)
	if !ok {
		return
	}
	var req addSignatoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	saved, err := h.acts.AddSignatory(c.Request.Context(), principal, actID, service.SignatoryInput{
		Role:     model.SignatoryRole(strings.ToUpper(strings.TrimSpace(req.Role))),
		FullName: strings.TrimSpace(req.FullName),
		Position: strings.TrimSpace(req.Position),
		Basis:    req.Basis,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, signatoryResponse(*saved))
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNoCompletedWorks):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h *Handler) actRequest(c *gin.Context) (model.Principal, uuid.UUID, bool) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return model.Principal{}, uuid.Nil, false
	}
	actID, err := uuid.Parse(c.Param("actId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid actId"})
		return model.Principal{}, uuid.Nil, false
	}
	return principal, actID, true
}

func parseActType(raw string) ([]model.ActKind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "client":
		return []model.ActKind{model.ActKindClient}, nil
	case "specialist":
		return []model.ActKind{model.ActKindSpecialist}, nil
	case "both":
		return []model.ActKind{model.ActKindClient, model.ActKindSpecialist}, nil
	default:
		return nil, service.ErrInvalidInput
	}
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrInvalidInput
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}
