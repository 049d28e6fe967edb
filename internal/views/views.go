// Package views builds the HTML renderer from the embedded templates.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/gin-contrib/multitemplate"
)

//go:embed templates
var templatesFS embed.FS

// FuncMap 模板函数
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"timeAgo": timeAgo,
		"signed": func(n int) string {
			if n > 0 {
				return fmt.Sprintf("+%d", n)
			}
			return fmt.Sprintf("%d", n)
		},
	}
}

func timeAgo(t time.Time) string {
	seconds := int(time.Since(t).Seconds())
	switch {
	case seconds < 60:
		return "just now"
	case seconds < 3600:
		return fmt.Sprintf("%dm ago", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%dh ago", seconds/3600)
	case seconds < 2592000:
		return fmt.Sprintf("%dd ago", seconds/86400)
	case seconds < 31536000:
		return fmt.Sprintf("%dmo ago", seconds/2592000)
	}
	return fmt.Sprintf("%dy ago", seconds/31536000)
}

// pages maps a render name to its view file; every page shares the base layout.
var pages = map[string]string{
	"topic/list.html":   "templates/views/topic/list.html",
	"topic/detail.html": "templates/views/topic/detail.html",
	"error.html":        "templates/views/error.html",
}

// Renderer loads the templates with multitemplate so page names do not collide.
func Renderer() (multitemplate.Render, error) {
	layout, err := templatesFS.ReadFile("templates/layouts/base.html")
	if err != nil {
		return nil, err
	}

	r := multitemplate.New()
	for name, file := range pages {
		view, err := templatesFS.ReadFile(file)
		if err != nil {
			return nil, err
		}
		r.AddFromStringsFuncs(name, FuncMap(), string(layout), string(view))
	}
	return r, nil
}
