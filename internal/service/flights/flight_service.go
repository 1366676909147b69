package flights

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/Domenick1991/airbooking-desk/internal/domain"
	"github.com/Domenick1991/airbooking-desk/internal/notify"
	"github.com/Domenick1991/airbooking-desk/internal/sanitize"
	"golang.org/x/sync/singleflight"
)

type FlightUseCase interface {
	Search(ctx context.Context, fromCity, toCity string) (*SearchResult, error)
	Results() []domain.FlightRecord
	Status() Status
	Busy() bool
	SupportedCities(ctx context.Context) []string
}

type FlightAPI interface {
	SearchFlights(ctx context.Context, fromCity, toCity string) ([]domain.FlightRecord, error)
	SupportedCities(ctx context.Context) ([]string, error)
}

type CityCache interface {
	GetCities(ctx context.Context) ([]string, error)
	SetCities(ctx context.Context, cities []string) error
}

type Notifier interface {
	Enqueue(title, description string, kind notify.Kind) string
}

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// ErrSuperseded is returned when a newer search was dispatched while this one
// was in flight. Its response is discarded.
var ErrSuperseded = errors.New("search superseded by a newer request")

const (
	msgSelectBothCities = "Please select both departure and destination cities"
	msgSameCities       = "Departure and destination cities cannot be the same"
	msgNoFlights        = "No flights available for the selected route. Only current-day domestic flights are supported."
	msgSearchFallback   = "Failed to search flights"
	msgCitiesFailed     = "Failed to load supported cities"
)

type SearchResult struct {
	Flights        []domain.FlightRecord
	Dropped        int
	NotificationID string
}

type FlightService struct {
	api      FlightAPI
	notifier Notifier
	cache    CityCache
	fallback []string
	loads    singleflight.Group

	mu         sync.Mutex
	status     Status
	flights    []domain.FlightRecord
	generation uint64
}

type FlightServiceOption func(*FlightService)

func WithCityCache(cache CityCache) FlightServiceOption {
	return func(s *FlightService) {
		s.cache = cache
	}
}

func WithFallbackCities(cities []string) FlightServiceOption {
	return func(s *FlightService) {
		s.fallback = append([]string(nil), cities...)
	}
}

func NewFlightService(api FlightAPI, notifier Notifier, opts ...FlightServiceOption) *FlightService {
	s := &FlightService{
		api:      api,
		notifier: notifier,
		status:   StatusIdle,
		flights:  []domain.FlightRecord{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search validates the route, queries the flight service with lower-cased
// city names and replaces the current results with the sanitized response.
// Every call enqueues exactly one notification unless it was superseded.
func (s *FlightService) Search(ctx context.Context, fromCity, toCity string) (*SearchResult, error) {
	if err := validateRoute(fromCity, toCity); err != nil {
		s.notifier.Enqueue("Error", err.Message, notify.KindError)
		return nil, err
	}

	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.status = StatusLoading
	s.mu.Unlock()

	// the call outlives a disconnected caller; the client timeout bounds it
	raw, err := s.api.SearchFlights(context.WithoutCancel(ctx), strings.ToLower(fromCity), strings.ToLower(toCity))

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		log.Printf("discarding search %s -> %s: generation %d superseded by %d", fromCity, toCity, gen, s.generation)
		return nil, ErrSuperseded
	}

	if err != nil {
		s.flights = []domain.FlightRecord{}
		s.status = StatusError
		s.notifier.Enqueue("Search Failed", domain.UserMessage(err, msgSearchFallback), notify.KindError)
		return nil, fmt.Errorf("search flights: %w", err)
	}

	flights := sanitize.Flights(raw)
	dropped := sanitize.Dropped(raw)
	if dropped > 0 {
		log.Printf("search %s -> %s: dropped %d malformed flight records", fromCity, toCity, dropped)
	}
	s.flights = flights
	s.status = StatusSuccess

	var id string
	if len(flights) == 0 {
		id = s.notifier.Enqueue("No Flights Available", msgNoFlights, notify.KindInfo)
	} else {
		id = s.notifier.Enqueue("Success", fmt.Sprintf("Found %d flights from %s to %s", len(flights), fromCity, toCity), notify.KindSuccess)
	}

	return &SearchResult{
		Flights:        copyFlights(flights),
		Dropped:        dropped,
		NotificationID: id,
	}, nil
}

func (s *FlightService) Results() []domain.FlightRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyFlights(s.flights)
}

func (s *FlightService) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Busy is advisory: callers use it to keep the search form disabled.
func (s *FlightService) Busy() bool {
	return s.Status() == StatusLoading
}

// SupportedCities never fails: when the flight service cannot be reached the
// user is notified and the configured fallback list is returned. Concurrent
// cache misses share one upstream load.
func (s *FlightService) SupportedCities(ctx context.Context) []string {
	if s.cache != nil {
		if cached, err := s.cache.GetCities(ctx); err == nil && len(cached) > 0 {
			return cached
		} else if err != nil {
			log.Printf("cities cache read failed: %v", err)
		}
	}

	v, _, _ := s.loads.Do("cities", func() (interface{}, error) {
		// shared by every waiting caller, so no single caller may cancel it
		return s.loadCities(context.WithoutCancel(ctx)), nil
	})
	return append([]string{}, v.([]string)...)
}

func (s *FlightService) loadCities(ctx context.Context) []string {
	cities, err := s.api.SupportedCities(ctx)
	if err != nil {
		log.Printf("failed to load cities: %v", err)
		s.notifier.Enqueue("Error", msgCitiesFailed, notify.KindError)
		return append([]string(nil), s.fallback...)
	}
	if s.cache != nil && len(cities) > 0 {
		if err := s.cache.SetCities(ctx, cities); err != nil {
			log.Printf("cities cache write failed: %v", err)
		}
	}
	return cities
}

func validateRoute(fromCity, toCity string) *domain.ValidationError {
	if fromCity == "" || toCity == "" {
		return &domain.ValidationError{Message: msgSelectBothCities}
	}
	if fromCity == toCity {
		return &domain.ValidationError{Message: msgSameCities}
	}
	return nil
}

func copyFlights(in []domain.FlightRecord) []domain.FlightRecord {
	return append([]domain.FlightRecord{}, in...)
}

var _ FlightUseCase = (*FlightService)(nil)
