//go:build embed
// +build embed

package main

import (
	"embed"
	"io/fs"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/handler"
)

//go:embed web/dist
var webDist embed.FS

// setupStaticFiles serves the frontend compiled into the binary; webDir is ignored
func setupStaticFiles(router *gin.Engine, _ string, logger *slog.Logger) {
	logger.Info("using embedded frontend assets")

	distFS, err := fs.Sub(webDist, "web/dist")
	if err != nil {
		logger.Error("failed to get dist subdirectory", "error", err)
		os.Exit(1)
	}

	router.NoRoute(handler.StaticFiles(distFS))
}
