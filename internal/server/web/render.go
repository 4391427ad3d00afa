package web

import (
	"embed"
	"html/template"
	"strconv"

	"github.com/dmitrijs2005/yatube/internal/server/models"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer writes a named page with its context.
type Renderer interface {
	Render(c *gin.Context, code int, name string, data gin.H)
}

// HTMLRenderer renders through the engine's HTML templates.
type HTMLRenderer struct{}

func (HTMLRenderer) Render(c *gin.Context, code int, name string, data gin.H) {
	c.HTML(code, name, data)
}

var templateFuncs = template.FuncMap{
	"profileURL": func(u *models.User) string {
		if u == nil {
			return "/"
		}
		return profilePath(u.UserName)
	},
	"postURL": func(p *models.Post) string {
		if p == nil || p.Author == nil {
			return "/"
		}
		return postPath(p.Author.UserName, p.ID)
	},
	"mediaURL": func(key string) string {
		return "/media/" + key
	},
	"itoa": func(n int64) string {
		return strconv.FormatInt(n, 10)
	},
}

// LoadTemplates parses the embedded page templates.
func LoadTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
}
