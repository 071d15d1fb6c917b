package delivery

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// NewRouter wires middleware, the product API and the browser client.
// Unknown GET paths fall through to static, everything else gets a JSON 404.
func NewRouter(productHandler *ProductHandler, static http.Handler, logger *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.RedirectTrailingSlash = false
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(RequestLogger(logger))

	router.GET("/healthz", func(c *gin.Context) {
		SuccessResponse(c, http.StatusOK, MessageResponse{Message: "ok"})
	})
	productHandler.RegisterRoutes(router)

	router.NoRoute(func(c *gin.Context) {
		isRead := c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead
		if static != nil && isRead && !strings.HasPrefix(c.Request.URL.Path, "/products") {
			c.Status(http.StatusOK)
			static.ServeHTTP(c.Writer, c.Request)
			return
		}
		ErrorResponse(c, http.StatusNotFound, "Route not found")
	})

	return router
}
