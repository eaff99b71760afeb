package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Forms endpoints return the layout payload as JSON by default; with
// ?download=1 they stream the rendered workbook.

func (h *Handler) ks2Form(c *gin.Context) {
	principal, actID, ok := h.actRequest(c)
	if !ok {
		return
	}
	includeVAT := c.Query("includeVat") == "1"

	if c.Query("download") == "1" {
		doc, err := h.documents.RenderKS2(c.Request.Context(), principal, actID, includeVAT)
		if err != nil {
			h.handleError(c, err)
			return
		}
		sendDocument(c, doc.FileName, doc.ContentType, doc.Content)
		return
	}

	data, err := h.documents.KS2Data(c.Request.Context(), principal, actID, includeVAT)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

func (h *Handler) ks3Form(c *gin.Context) {
	principal, actID, ok := h.actRequest(c)
	if !ok {
		return
	}
	includeVAT := c.Query("includeVat") == "1"

	if c.Query("download") == "1" {
		doc, err := h.documents.RenderKS3(c.Request.Context(), principal, actID, includeVAT)
		if err != nil {
			h.handleError(c, err)
			return
		}
		sendDocument(c, doc.FileName, doc.ContentType, doc.Content)
		return
	}

	data, err := h.documents.KS3Data(c.Request.Context(), principal, actID, includeVAT)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

func (h *Handler) printForm(c *gin.Context) {
	principal, actID, ok := h.actRequest(c)
	if !ok {
		return
	}
	doc, err := h.documents.RenderPrint(c.Request.Context(), principal, actID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	sendDocument(c, doc.FileName, doc.ContentType, doc.Content)
}

func sendDocument(c *gin.Context, fileName, contentType string, content []byte) {
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", "attachment; filename=\""+fileName+"\"")
	c.Data(http.StatusOK, contentType, content)
}
