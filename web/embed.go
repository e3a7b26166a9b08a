// Package web embeds the HTML templates and static assets of the dashboard
// so the server ships as a single binary.
//
// Usage in the API server:
//
//	import "github.com/seenimoa/stockdash/web"
//	tmpl, err := web.Templates()
//	static := web.StaticFS() // io/fs.FS rooted at static/
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"log"
)

//go:embed templates/*.html
var templates embed.FS

//go:embed static/css static/js/*.js
var static embed.FS

// Templates parses every page template. Pages are executed by their defined
// name: "index", "setup" or "dashboard".
func Templates() (*template.Template, error) {
	return template.ParseFS(templates, "templates/*.html")
}

// StaticFS returns a filesystem rooted at the embedded static/ directory.
// This is ready to use with http.FileServerFS or http.FS.
func StaticFS() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		log.Fatalf("web.StaticFS: %v", err)
	}
	return sub
}
