package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/airbooking-desk/internal/domain"
	"github.com/Domenick1991/airbooking-desk/internal/flightapi"
	"github.com/Domenick1991/airbooking-desk/internal/service/flights"
	"github.com/gin-gonic/gin"
)

// statusFor maps orchestrator errors onto desk API status codes.
func statusFor(err error) int {
	var (
		valErr   *domain.ValidationError
		svcErr   *domain.ServiceError
		transErr *domain.TransportError
	)
	switch {
	case errors.As(err, &valErr):
		return http.StatusBadRequest
	case errors.Is(err, flights.ErrSuperseded):
		return http.StatusConflict
	case flightapi.IsNotFound(err):
		return http.StatusNotFound
	case errors.As(err, &svcErr), errors.As(err, &transErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
