package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mybnb/service-booking/internal/domain"
)

// Envelope is the uniform JSON response body.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// Success writes a 200 response with the given payload.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 response with the given payload.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// Paginated writes a 200 response with items plus paging metadata.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    items,
		"meta": gin.H{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// BadRequest writes a 400 response with the given message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Envelope{Success: false, Error: message, Code: string(domain.CodeValidation)})
}

// Unauthorized writes a 401 response.
func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, Envelope{Success: false, Error: message, Code: string(domain.CodeUnauthorized)})
}

// Error maps a domain error to its HTTP status; anything unclassified is a 500
// with the detail withheld from the client.
func Error(c *gin.Context, err error) {
	code := domain.CodeOf(err)
	switch code {
	case domain.CodeValidation, domain.CodeConflict:
		// ConflictError is surfaced as 400: the caller retries with
		// different dates, not the same request.
		c.JSON(http.StatusBadRequest, Envelope{Success: false, Error: err.Error(), Code: string(code)})
	case domain.CodeNotFound:
		c.JSON(http.StatusNotFound, Envelope{Success: false, Error: err.Error(), Code: string(code)})
	case domain.CodeUnauthorized:
		c.JSON(http.StatusUnauthorized, Envelope{Success: false, Error: err.Error(), Code: string(code)})
	case domain.CodeForbidden:
		c.JSON(http.StatusForbidden, Envelope{Success: false, Error: err.Error(), Code: string(code)})
	default:
		c.JSON(http.StatusInternalServerError, Envelope{Success: false, Error: "internal server error"})
	}
}
