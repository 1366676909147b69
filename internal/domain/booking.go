package domain

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// PassengerFields is what the user types into the booking form.
type PassengerFields struct {
	PassengerName  string `json:"passengerName"`
	PassengerEmail string `json:"passengerEmail"`
	PhoneNumber    string `json:"phoneNumber"`
}

func (p PassengerFields) Empty() bool {
	return p == PassengerFields{}
}

type BookingRequest struct {
	PassengerName     string `json:"passengerName"`
	PassengerEmail    string `json:"passengerEmail"`
	PhoneNumber       string `json:"phoneNumber"`
	FlightIata        string `json:"flightIata"`
	AirlineName       string `json:"airlineName"`
	DepartureAirport  string `json:"departureAirport"`
	ArrivalAirport    string `json:"arrivalAirport"`
	DepartureTerminal string `json:"departureTerminal,omitempty"`
	ArrivalTerminal   string `json:"arrivalTerminal,omitempty"`
	FlightDate        string `json:"flightDate"`
	AircraftIata      string `json:"aircraftIata"`
}

// NewBookingRequest copies the flight-derived fields from f at submission time.
// An invalid flight yields the ShapeError from Validate.
func NewBookingRequest(f FlightRecord, p PassengerFields) (BookingRequest, error) {
	if err := f.Validate(); err != nil {
		return BookingRequest{}, err
	}
	return BookingRequest{
		PassengerName:     p.PassengerName,
		PassengerEmail:    p.PassengerEmail,
		PhoneNumber:       p.PhoneNumber,
		FlightIata:        f.Flight.IATA,
		AirlineName:       f.Airline.Name,
		DepartureAirport:  f.Departure.IATA,
		ArrivalAirport:    f.Arrival.IATA,
		DepartureTerminal: f.Departure.Terminal,
		ArrivalTerminal:   f.Arrival.Terminal,
		FlightDate:        f.FlightDate,
		AircraftIata:      f.Aircraft.IATA,
	}, nil
}

// Booking is owned by the flight service; the desk never changes its status.
type Booking struct {
	ID                string        `json:"id"`
	FlightIata        string        `json:"flightIata"`
	PassengerName     string        `json:"passengerName"`
	PassengerEmail    string        `json:"passengerEmail"`
	PhoneNumber       string        `json:"phoneNumber"`
	AirlineName       string        `json:"airlineName"`
	DepartureAirport  string        `json:"departureAirport"`
	ArrivalAirport    string        `json:"arrivalAirport"`
	DepartureTerminal string        `json:"departureTerminal,omitempty"`
	ArrivalTerminal   string        `json:"arrivalTerminal,omitempty"`
	FlightDate        string        `json:"flightDate"`
	AircraftIata      string        `json:"aircraftIata,omitempty"`
	Status            BookingStatus `json:"bookingStatus"`
	CreatedAt         string        `json:"createdAt"`
}
