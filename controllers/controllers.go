// Package controllers holds the HTTP delivery layer: gin handlers that
// validate input, run the permission gate once per action, and call the
// queries layer. All responses share the same envelope:
// {"success": bool, "data": ...} or {"success": false, "error": {code, message}}.
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// errorBody builds the error half of the response envelope.
func errorBody(code, message string) gin.H {
	return gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
}

// respondError writes an error envelope with the given status.
func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, errorBody(code, message))
}

// respondData writes a success envelope with the given status.
func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// respondValidationError writes the standard 400 for a binding failure.
func respondValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		},
	})
}

// idParam parses the :id path parameter. On failure it writes the 400
// response itself and returns ok=false.
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "ID must be a positive integer")
		return 0, false
	}
	return uint(id), true
}
