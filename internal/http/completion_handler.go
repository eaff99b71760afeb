package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Nastya870/smetalab-sub001/internal/http/middleware"
	"github.com/Nastya870/smetalab-sub001/internal/model"
	"github.com/Nastya870/smetalab-sub001/internal/service"
)

type completionRequest struct {
	LineItemID     string  `json:"lineItemId"`
	Completed      bool    `json:"completed"`
	ActualQuantity string  `json:"actualQuantity"`
	ActualTotal    string  `json:"actualTotal"`
	Note           *string `json:"note"`
}

type batchCompletionRequest struct {
	Records []completionRequest `json:"records" binding:"required"`
}

func (h *Handler) listCompletions(c *gin.Context) {
	principal, estimateID, ok := h.completionRequest(c)
	if !ok {
		return
	}
	records, err := h.completions.List(c.Request.Context(), principal, estimateID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": completionResponses(records)})
}

func (h *Handler) upsertCompletion(c *gin.Context) {
	principal, estimateID, ok := h.completionRequest(c)
	if !ok {
		return
	}
	var req completionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input, err := completionInput(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	saved, err := h.completions.Upsert(c.Request.Context(), principal, estimateID, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, completionResponseBody(*saved))
}

func (h *Handler) updateCompletion(c *gin.Context) {
	principal, estimateID, ok := h.completionRequest(c)
	if !ok {
		return
	}
	lineItemID, err := uuid.Parse(c.Param("lineItemId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lineItemId"})
		return
	}

	var req completionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.LineItemID = lineItemID.String()
	input, err := completionInput(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	saved, err := h.completions.Upsert(c.Request.Context(), principal, estimateID, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, completionResponseBody(*saved))
}

func (h *Handler) batchUpsertCompletions(c *gin.Context) {
	principal, estimateID, ok := h.completionRequest(c)
	if !ok {
		return
	}
	var req batchCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inputs := make([]service.CompletionInput, 0, len(req.Records))
	for i, record := range req.Records {
		input, err := completionInput(record)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "item": i + 1})
			return
		}
		inputs = append(inputs, input)
	}

	saved, err := h.completions.BatchUpsert(c.Request.Context(), principal, estimateID, inputs)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": completionResponses(saved)})
}

func (h *Handler) removeCompletion(c *gin.Context) {
	principal, estimateID, ok := h.completionRequest(c)
	if !ok {
		return
	}
	lineItemID, err := uuid.Parse(c.Param("lineItemId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lineItemId"})
		return
	}
	if err := h.completions.Remove(c.Request.Context(), principal, estimateID, lineItemID); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) completionRequest(c *gin.Context) (model.Principal, uuid.UUID, bool) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return model.Principal{}, uuid.Nil, false
	}
	estimateID, err := uuid.Parse(c.Param("estimateId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid estimateId"})
		return model.Principal{}, uuid.Nil, false
	}
	return principal, estimateID, true
}

func completionInput(req completionRequest) (service.CompletionInput, error) {
	lineItemID, err := uuid.Parse(strings.TrimSpace(req.LineItemID))
	if err != nil {
		return service.CompletionInput{}, service.ErrInvalidInput
	}

	quantity := decimal.Zero
	if req.ActualQuantity != "" {
		quantity, err = decimal.NewFromString(req.ActualQuantity)
		if err != nil {
			return service.CompletionInput{}, service.ErrInvalidInput
		}
	}
	total := decimal.Zero
	if req.ActualTotal != "" {
		total, err = decimal.NewFromString(req.ActualTotal)
		if err != nil {
			return service.CompletionInput{}, service.ErrInvalidInput
		}
	}

	return service.CompletionInput{
		LineItemID:     lineItemID,
		Completed:      req.Completed,
		ActualQuantity: quantity,
		ActualTotal:    total,
		Note:           req.Note,
	}, nil
}
