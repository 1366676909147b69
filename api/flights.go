package api

import (
	"net/http"

	"github.com/Domenick1991/airbooking-desk/internal/domain"
	"github.com/Domenick1991/airbooking-desk/internal/service/flights"
	"github.com/Domenick1991/airbooking-desk/internal/timefmt"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

type searchRequest struct {
	FromCity string `json:"fromCity"`
	ToCity   string `json:"toCity"`
}

// flightView is a flight record plus the strings the results list renders.
type flightView struct {
	domain.FlightRecord
	DepartureTime string `json:"departureTime"`
	ArrivalTime   string `json:"arrivalTime"`
	Duration      string `json:"duration"`
}

type searchResponse struct {
	Flights        []flightView `json:"flights"`
	Dropped        int          `json:"dropped"`
	NotificationID string       `json:"notificationId"`
}

type resultsResponse struct {
	Status  flights.Status `json:"status"`
	Flights []flightView   `json:"flights"`
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/cities", h.cities)
	router.POST("/flights/search", h.search)
	router.GET("/flights", h.results)
}

func (h *FlightHandler) cities(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"cities": h.service.SupportedCities(c.Request.Context())})
}

func (h *FlightHandler) search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Search(c.Request.Context(), req.FromCity, req.ToCity)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, searchResponse{
		Flights:        toViews(result.Flights),
		Dropped:        result.Dropped,
		NotificationID: result.NotificationID,
	})
}

func (h *FlightHandler) results(c *gin.Context) {
	c.JSON(http.StatusOK, resultsResponse{
		Status:  h.service.Status(),
		Flights: toViews(h.service.Results()),
	})
}

func toViews(records []domain.FlightRecord) []flightView {
	views := make([]flightView, 0, len(records))
	for _, f := range records {
		views = append(views, flightView{
			FlightRecord:  f,
			DepartureTime: timefmt.ClockTime(f.Departure.Scheduled),
			ArrivalTime:   timefmt.ClockTime(f.Arrival.Scheduled),
			Duration:      timefmt.Duration(f.Departure.Scheduled, f.Arrival.Scheduled),
		})
	}
	return views
}
