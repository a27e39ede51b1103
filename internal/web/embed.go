package web

import (
	"embed"
	"io/fs"
	"path"
)

var (
	//go:embed static/*
	embeddedStaticFiles embed.FS

	//go:embed templates/*
	embeddedTemplates embed.FS
)

// templateEmbedFS exposes the embedded templates directory as an fs.FS rooted
// at the directory itself, the shape the template engine expects.
type templateEmbedFS struct {
	content embed.FS
}

// Open opens the named file relative to the templates directory.
func (e templateEmbedFS) Open(name string) (fs.File, error) {
	return e.content.Open(path.Join("templates", name))
}
