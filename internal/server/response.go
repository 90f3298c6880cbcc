package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dshills/qualitymap/internal/qualitymap"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// respondGatewayError maps gateway failures to HTTP statuses.
func respondGatewayError(c *gin.Context, code string, err error) {
	switch {
	case errors.Is(err, qualitymap.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, qualitymap.ErrInvalid):
		RespondError(c, http.StatusUnprocessableEntity, "invalid_request", err)
	default:
		RespondError(c, http.StatusInternalServerError, code, err)
	}
}
