package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/airbooking-desk/internal/domain"
	"github.com/Domenick1991/airbooking-desk/internal/service/booking"
	"github.com/Domenick1991/airbooking-desk/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
	flights flights.FlightUseCase
}

type selectionRequest struct {
	Index *int `json:"index" binding:"required,min=0"`
}

type passengerRequest struct {
	PassengerName  string `json:"passengerName"`
	PassengerEmail string `json:"passengerEmail" binding:"omitempty,email"`
	PhoneNumber    string `json:"phoneNumber"`
}

func NewBookingHandler(service booking.BookingUseCase, flightSvc flights.FlightUseCase) *BookingHandler {
	return &BookingHandler{service: service, flights: flightSvc}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	form := router.Group("/booking")
	form.GET("", h.form)
	form.PUT("/selection", h.selectFlight)
	form.DELETE("/selection", h.clearSelection)
	form.PUT("/passenger", h.updatePassenger)
	form.POST("", h.submit)

	lookups := router.Group("/bookings")
	lookups.GET("", h.list)
	lookups.GET("/recent", h.recent)
	lookups.GET("/email/:email", h.byEmail)
	lookups.GET("/:id", h.get)
}

func (h *BookingHandler) form(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Form())
}

// selectFlight picks a flight from the current search results by position.
func (h *BookingHandler) selectFlight(c *gin.Context) {
	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results := h.flights.Results()
	if *req.Index >= len(results) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no flight at index " + strconv.Itoa(*req.Index)})
		return
	}

	h.service.Select(results[*req.Index])
	c.JSON(http.StatusOK, h.service.Form())
}

func (h *BookingHandler) clearSelection(c *gin.Context) {
	h.service.ClearSelection()
	c.JSON(http.StatusOK, h.service.Form())
}

func (h *BookingHandler) updatePassenger(c *gin.Context) {
	var req passengerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.service.UpdatePassenger(domain.PassengerFields{
		PassengerName:  req.PassengerName,
		PassengerEmail: req.PassengerEmail,
		PhoneNumber:    req.PhoneNumber,
	})
	c.JSON(http.StatusOK, h.service.Form())
}

func (h *BookingHandler) submit(c *gin.Context) {
	if h.service.Busy() {
		c.JSON(http.StatusConflict, gin.H{"error": "a booking is already being submitted"})
		return
	}

	created, err := h.service.Submit(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *BookingHandler) list(c *gin.Context) {
	bookings, err := h.service.ListBookings(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func (h *BookingHandler) recent(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	bookings, err := h.service.Recent(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func (h *BookingHandler) byEmail(c *gin.Context) {
	bookings, err := h.service.ByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func (h *BookingHandler) get(c *gin.Context) {
	found, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}
