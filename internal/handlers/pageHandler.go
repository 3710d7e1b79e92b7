package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/llmgate/promptimprover/keystore"
	"github.com/llmgate/promptimprover/webui"
)

type PageHandler struct {
	store    keystore.Store
	provider string
	model    string
}

func NewPageHandler(store keystore.Store, provider, model string) *PageHandler {
	return &PageHandler{
		store:    store,
		provider: provider,
		model:    model,
	}
}

func (h *PageHandler) Index(c *gin.Context) {
	_, err := h.store.Get(c.Request.Context())
	webui.Render(c, webui.PageData{
		Provider:             h.provider,
		Model:                h.model,
		CredentialConfigured: err == nil,
	})
}
