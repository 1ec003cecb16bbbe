// internal/interfaces/http/handlers/upload.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/upload"
)

// UploadHandler handles payment proof upload endpoints
type UploadHandler struct {
	uploads   *upload.Service
	checkouts *checkout.Manager
	config    *config.Config
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploads *upload.Service, checkouts *checkout.Manager, cfg *config.Config) *UploadHandler {
	return &UploadHandler{
		uploads:   uploads,
		checkouts: checkouts,
		config:    cfg,
	}
}

// UploadProof handles POST /checkout/proof. The transfer runs to its
// terminal result before responding; a failed upload leaves the proof
// unset so the shopper can retry.
func (h *UploadHandler) UploadProof(c *gin.Context) {
	sessionID := GetOrCreateSessionID(c, h.config)
	orchestrator, err := h.checkouts.Orchestrator(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve checkout session",
		})
		return
	}

	if orchestrator.Step() != checkout.StepPaymentInfo {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Proof can only be uploaded during the payment step",
		})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "A file is required",
		})
		return
	}
	defer file.Close()

	task, err := h.uploads.Upload(c.Request.Context(), file, header)
	if err != nil {
		h.renderUploadError(c, err)
		return
	}

	// Drain progress so the uploader never blocks on a slow consumer
	go func() {
		for range task.Progress {
		}
	}()

	result := task.Wait()
	if result.Err != nil {
		h.renderUploadError(c, result.Err)
		return
	}

	if err := orchestrator.AttachProof(c.Request.Context(), result.Ref); err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Failed to attach proof to checkout session",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment proof uploaded successfully",
		"data": gin.H{
			"proof_ref": result.Ref,
			"local":     task.Local,
		},
	})
}

// RemoveProof handles DELETE /checkout/proof
func (h *UploadHandler) RemoveProof(c *gin.Context) {
	sessionID := GetOrCreateSessionID(c, h.config)
	orchestrator, err := h.checkouts.Orchestrator(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve checkout session",
		})
		return
	}

	if err := orchestrator.RemoveProof(c.Request.Context()); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "No checkout in progress",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment proof removed",
	})
}

// renderUploadError maps upload failures onto HTTP responses
func (h *UploadHandler) renderUploadError(c *gin.Context, err error) {
	var uploadErr *upload.Error
	if errors.As(err, &uploadErr) {
		status := http.StatusBadRequest
		if uploadErr.Kind == upload.KindRemote {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{
			"error": uploadErr.Message,
			"code":  string(uploadErr.Kind),
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "Upload failed",
	})
}
