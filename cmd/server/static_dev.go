//go:build !embed
// +build !embed

package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/handler"
)

// setupStaticFiles serves a built frontend from webDir when it exists (development, no embedding)
func setupStaticFiles(router *gin.Engine, webDir string, logger *slog.Logger) {
	st, err := os.Stat(webDir)
	if err != nil || !st.IsDir() {
		logger.Info("no frontend build found, serving API only", "web_dir", webDir)
		logger.Info("build the frontend or run it separately with: cd frontend && npm run dev")
		return
	}

	logger.Info("serving frontend from local filesystem", "web_dir", webDir)
	router.NoRoute(handler.StaticFiles(os.DirFS(webDir)))
}
