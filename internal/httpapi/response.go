package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roach88/desk/internal/ledger"
	"github.com/roach88/desk/internal/model"
)

// Error codes carried in the error envelope.
const (
	CodeBadRequest = "bad_request"
	CodeValidation = "validation"
	CodeNotFound   = "not_found"
	CodeIntegrity  = "integrity"
	CodeInternal   = "internal"
	CodeUnhealthy  = "unhealthy"
)

// APIError is the body of a failed request.
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorEnvelope wraps APIError as {"error": {...}}.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError writes an error envelope with the given status.
func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondOK writes payload with 200.
func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// respondFailure maps a service error onto a status and code.
func respondFailure(c *gin.Context, err error) {
	switch {
	case model.IsValidation(err):
		RespondError(c, http.StatusBadRequest, CodeValidation, err)
	case ledger.IsIntegrity(err):
		RespondError(c, http.StatusInternalServerError, CodeIntegrity, err)
	case errors.Is(err, errNotFound):
		RespondError(c, http.StatusNotFound, CodeNotFound, err)
	default:
		RespondError(c, http.StatusInternalServerError, CodeInternal, err)
	}
}

var errNotFound = errors.New("not found")
