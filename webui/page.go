package webui

import (
	_ "embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed index.html
var indexHTML string

var pageTemplate = template.Must(template.New("index").Parse(indexHTML))

type PageData struct {
	Provider             string
	Model                string
	CredentialConfigured bool
}

// Render writes the single page UI.
func Render(c *gin.Context, data PageData) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := pageTemplate.Execute(c.Writer, data); err != nil {
		_ = c.Error(err)
	}
}
