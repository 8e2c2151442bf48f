package servehttp

import (
	"fieldops/bizerror"
	"fieldops/infra/tracing"
	"fieldops/session"

	"github.com/gin-gonic/gin"
)

// DefaultTemplateGlob points at the template directory relative to the
// repository root, where the binary runs. Tests pass their own glob.
const DefaultTemplateGlob = "servehttp/templates/*.tmpl"

// NewEngine assembles the console: tracing and error handling everywhere,
// the session filter on everything behind the login screen.
func NewEngine(templateGlob string) *gin.Engine {
	if templateGlob == "" {
		templateGlob = DefaultTemplateGlob
	}

	engine := gin.Default()
	engine.LoadHTMLGlob(templateGlob)
	engine.Use(tracing.TracingIngress(), bizerror.ErrorHandling())

	RegisterSessionHandler(engine)

	secured := []gin.HandlerFunc{session.AuthFilter()}
	RegisterConsoleHandler(engine, secured...)
	RegisterOrderHandler(engine, secured...)
	RegisterDirectoryHandler(engine, secured...)

	return engine
}
