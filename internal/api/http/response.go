package http

import (
	"net/http"

	"github.com/GriffinCanCode/jsexec/internal/service"
	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
)

const contentTypeJSON = "application/json; charset=utf-8"

// writeJSON encodes v with sonic
func writeJSON(c *gin.Context, status int, v interface{}) {
	body, err := sonic.Marshal(v)
	if err != nil {
		writeToolError(c, service.TranslateError(err))
		return
	}
	c.Data(status, contentTypeJSON, body)
}

func writeToolError(c *gin.Context, toolErr *service.ToolError) {
	body, err := sonic.Marshal(gin.H{"error": toolErr.Response()})
	if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Data(statusFor(toolErr.Code), contentTypeJSON, body)
}

// statusFor maps tool error codes onto HTTP statuses
func statusFor(code service.ErrorCode) int {
	switch code {
	case service.CodeInvalidRequest:
		return http.StatusBadRequest
	case service.CodeMethodNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
