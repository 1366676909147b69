package domain

import (
	"encoding/json"
	"fmt"
)

type Aircraft struct {
	IATA         string `json:"iata"`
	ICAO         string `json:"icao"`
	Registration string `json:"registration"`
}

type Airline struct {
	IATA string `json:"iata"`
	ICAO string `json:"icao"`
	Name string `json:"name"`
}

// Endpoint is one end of a flight: the departure or the arrival side.
type Endpoint struct {
	Airport   string `json:"airport"`
	IATA      string `json:"iata"`
	ICAO      string `json:"icao"`
	Scheduled string `json:"scheduled"`
	Terminal  string `json:"terminal,omitempty"`
	Gate      string `json:"gate,omitempty"`
}

type FlightNumber struct {
	IATA   string `json:"iata"`
	ICAO   string `json:"icao"`
	Number string `json:"number"`
}

// FlightRecord is one scheduled flight as returned by the flight service.
// Sections are pointers because the service does not guarantee them.
type FlightRecord struct {
	Aircraft     *Aircraft     `json:"aircraft"`
	Airline      *Airline      `json:"airline"`
	Departure    *Endpoint     `json:"departure"`
	Arrival      *Endpoint     `json:"arrival"`
	Flight       *FlightNumber `json:"flight"`
	FlightDate   string        `json:"flight_date"`
	FlightStatus string        `json:"flight_status"`
}

// ParseFlight decodes a single raw element of a search response. It fails only
// when the element is not a JSON object; missing sections are reported later
// by Validate.
func ParseFlight(data []byte) (FlightRecord, error) {
	var rec FlightRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return FlightRecord{}, fmt.Errorf("decode flight record: %w", err)
	}
	return rec, nil
}

// Validate reports every required section that is absent.
func (f FlightRecord) Validate() error {
	var missing []string
	if f.Flight == nil {
		missing = append(missing, "flight")
	}
	if f.Airline == nil {
		missing = append(missing, "airline")
	}
	if f.Aircraft == nil {
		missing = append(missing, "aircraft")
	}
	if f.Departure == nil {
		missing = append(missing, "departure")
	}
	if f.Arrival == nil {
		missing = append(missing, "arrival")
	}
	if len(missing) > 0 {
		return &ShapeError{Missing: missing}
	}
	return nil
}

func (f FlightRecord) Valid() bool {
	return f.Validate() == nil
}

// Key is the display identity of the record. It is not unique across dates.
func (f FlightRecord) Key() string {
	if f.Flight == nil {
		return ""
	}
	return f.Flight.IATA
}
