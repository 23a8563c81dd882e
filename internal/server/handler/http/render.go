package http

import (
	"html/template"
	"net/http"

	"go.uber.org/zap"
)

func render(w http.ResponseWriter, logger *zap.Logger, tpl *template.Template, view any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := tpl.ExecuteTemplate(w, "layout", view); err != nil {
		logger.Error("render page", zap.Error(err))
	}
}
