package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/llmgate/promptimprover/improver"
	"github.com/llmgate/promptimprover/models"
)

type PromptImprover interface {
	Improve(ctx context.Context, prompt string) (*improver.Result, error)
}

type ImproveHandler struct {
	improver PromptImprover
}

func NewImproveHandler(promptImprover PromptImprover) *ImproveHandler {
	return &ImproveHandler{
		improver: promptImprover,
	}
}

func (h *ImproveHandler) ImprovePrompt(c *gin.Context) {
	var request models.ImprovePromptRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, improver.Present(nil, improver.ErrInvalidRequest))
		return
	}

	result, err := h.improver.Improve(c.Request.Context(), request.Prompt)
	c.JSON(statusForKind(improver.KindOf(err)), improver.Present(result, err))
}

func statusForKind(kind improver.Kind) int {
	switch kind {
	case improver.KindSuccess:
		return http.StatusOK
	case improver.KindEmptyPrompt, improver.KindInvalidRequest:
		return http.StatusBadRequest
	case improver.KindMissingCredential, improver.KindInvalidCredential:
		return http.StatusUnauthorized
	case improver.KindBusy:
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}
