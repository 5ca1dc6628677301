package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/rs/zerolog/log"
)

//go:embed templates/*
var templateFiles embed.FS

const (
	contentTypeHTML = "text/html; charset=utf-8"

	layoutTemplate = "layout.html"
)

func TemplateFilesFS() fs.FS {
	// Create the sub filesystem once
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic("Failed to create templates sub filesystem: " + err.Error())
	}
	return subFS
}

// ParseTemplate parses a standalone template from the embedded filesystem
func ParseTemplate(name string) (*template.Template, error) {
	content, err := fs.ReadFile(TemplateFilesFS(), name)
	if err != nil {
		return nil, err
	}
	return template.New(name).Parse(string(content))
}

// parseWithLayout parses a page template into the shared shell layout.
func parseWithLayout(name string) (*template.Template, error) {
	return template.New(layoutTemplate).ParseFS(TemplateFilesFS(), layoutTemplate, name)
}

type pageTemplates struct {
	login    *template.Template
	page     *template.Template
	agents   *template.Template
	services *template.Template
}

func parsePageTemplates() (*pageTemplates, error) {
	var (
		p   pageTemplates
		err error
	)
	if p.login, err = ParseTemplate("login.html"); err != nil {
		return nil, err
	}
	if p.page, err = parseWithLayout("page.html"); err != nil {
		return nil, err
	}
	if p.agents, err = parseWithLayout("agents.html"); err != nil {
		return nil, err
	}
	if p.services, err = parseWithLayout("services.html"); err != nil {
		return nil, err
	}
	return &p, nil
}

// render executes into a buffer first so a template error never leaves a
// half-written page behind.
func render(w http.ResponseWriter, tmpl *template.Template, status int, data any) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		log.Err(err).Str("template", tmpl.Name()).Msg("Failed to render template")
		http.Error(w, fmt.Sprintf("Failed to render %s", tmpl.Name()), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
