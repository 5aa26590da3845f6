package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saarock/sopy-ecommerce/internal/domain"
)

// writeError maps the core error taxonomy onto HTTP status codes. Anything
// unclassified is an infrastructure failure and comes back as a 500.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrAlreadyInState),
		errors.Is(err, domain.ErrInsufficientStock):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrWindowExpired):
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
