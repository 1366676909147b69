package api

import (
	"net/http"

	"github.com/Domenick1991/airbooking-desk/internal/service/booking"
	"github.com/Domenick1991/airbooking-desk/internal/service/flights"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the desk API consumed by the browser UI.
func NewRouter(flightSvc flights.FlightUseCase, bookingSvc booking.BookingUseCase, notifications NotificationStore) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	group := router.Group("/api")
	NewFlightHandler(flightSvc).Register(group)
	NewBookingHandler(bookingSvc, flightSvc).Register(group)
	NewNotificationHandler(notifications).Register(group)

	return router
}
