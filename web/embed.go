package web

import "embed"

// TemplatesFS embeds the form page template.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS embeds the stylesheet and the note type-ahead script.
//
//go:embed static/*
var StaticFS embed.FS
