// Package response renders the JSON envelope every endpoint speaks:
// {"success": true, "data": ...} on the happy path and
// {"success": false, "error": {"code", "message", "details"}} otherwise.
package response

import "github.com/gin-gonic/gin"

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

func Success(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, envelope{Success: true, Data: data})
}

// Error writes a failure envelope. Codes are stable machine-readable
// identifiers like NOT_FOUND; the message is for humans.
func Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, envelope{Success: false, Error: &errorBody{Code: code, Message: message}})
}

// ErrorWithDetails is Error with a free-form details payload, used for
// per-field validation results.
func ErrorWithDetails(c *gin.Context, statusCode int, code, message string, details any) {
	c.JSON(statusCode, envelope{Success: false, Error: &errorBody{Code: code, Message: message, Details: details}})
}
