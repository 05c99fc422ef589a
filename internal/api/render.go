package api

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"github.com/pageza/homeaway/backend/internal/actions"
	"github.com/pageza/homeaway/backend/internal/format"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageFuncs = template.FuncMap{
	"currency": format.Currency,
	"quantity": format.Quantity,
	"title":    format.Title,
	"country":  format.CountryLabel,
}

func parsePages() *template.Template {
	return template.Must(template.New("pages").Funcs(pageFuncs).ParseFS(templateFS, "templates/*.html"))
}

func (h *Handler) html(c *gin.Context, status int, name string, data any) {
	c.Render(status, render.HTML{Template: h.pages, Name: name, Data: data})
}

// respond writes an action outcome: a 303 navigation or a JSON message
func respond(c *gin.Context, out actions.Outcome) {
	if out.IsRedirect() {
		c.Redirect(http.StatusSeeOther, out.Redirect)
		return
	}
	c.JSON(http.StatusOK, out)
}
