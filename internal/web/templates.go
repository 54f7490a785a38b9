package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

//go:embed templates/*.html
var templates embed.FS

// Engine loads the page templates from dir, or the built-in ones when dir
// is empty.
func Engine(dir string) *html.Engine {
	if dir != "" {
		return html.New(dir, ".html")
	}
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		panic(err)
	}
	return html.NewFileSystem(http.FS(sub), ".html")
}
