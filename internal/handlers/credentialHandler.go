package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	internalutils "github.com/llmgate/promptimprover/internal/utils"
	"github.com/llmgate/promptimprover/keystore"
	"github.com/llmgate/promptimprover/models"
	"github.com/llmgate/promptimprover/utils"
)

type CredentialHandler struct {
	store  keystore.Store
	logger *zap.Logger
}

func NewCredentialHandler(store keystore.Store, logger *zap.Logger) *CredentialHandler {
	return &CredentialHandler{
		store:  store,
		logger: logger,
	}
}

func (h *CredentialHandler) GetStatus(c *gin.Context) {
	key, err := h.store.Get(c.Request.Context())
	if errors.Is(err, keystore.ErrNotConfigured) {
		c.JSON(http.StatusOK, models.CredentialStatus{Configured: false})
		return
	}
	if err != nil {
		h.logger.Error("failed to read api key", zap.Error(err))
		internalutils.ProcessGenericInternalError(c)
		return
	}

	c.JSON(http.StatusOK, models.CredentialStatus{Configured: true, Masked: utils.MaskKey(key)})
}

func (h *CredentialHandler) SetCredential(c *gin.Context) {
	var request models.CredentialRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		internalutils.ProcessGenericBadRequest(c)
		return
	}

	err := h.store.Set(c.Request.Context(), request.ApiKey)
	if errors.Is(err, keystore.ErrEmptyKey) {
		internalutils.ProcessBadRequest(c, "api key must not be empty")
		return
	}
	if err != nil {
		h.logger.Error("failed to store api key", zap.Error(err))
		internalutils.ProcessGenericInternalError(c)
		return
	}

	h.logger.Info("api key updated")
	c.JSON(http.StatusOK, models.CredentialStatus{Configured: true, Masked: utils.MaskKey(request.ApiKey)})
}

func (h *CredentialHandler) ClearCredential(c *gin.Context) {
	if err := h.store.Clear(c.Request.Context()); err != nil {
		h.logger.Error("failed to clear api key", zap.Error(err))
		internalutils.ProcessGenericInternalError(c)
		return
	}

	h.logger.Info("api key cleared")
	c.JSON(http.StatusOK, models.CredentialStatus{Configured: false})
}
