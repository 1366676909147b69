package booking

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Domenick1991/airbooking-desk/internal/domain"
	"github.com/Domenick1991/airbooking-desk/internal/kafka"
	"github.com/Domenick1991/airbooking-desk/internal/notify"
	"github.com/Domenick1991/airbooking-desk/internal/timefmt"
)

type BookingUseCase interface {
	Select(flight domain.FlightRecord)
	ClearSelection()
	UpdatePassenger(fields domain.PassengerFields)
	Form() FormState
	Busy() bool
	Submit(ctx context.Context) (*domain.Booking, error)
	Book(ctx context.Context, selected *domain.FlightRecord, fields domain.PassengerFields) (*domain.Booking, error)

	ListBookings(ctx context.Context) ([]domain.Booking, error)
	Recent(ctx context.Context, n int) ([]domain.Booking, error)
	ByEmail(ctx context.Context, email string) ([]domain.Booking, error)
	Get(ctx context.Context, id string) (*domain.Booking, error)
}

type BookingAPI interface {
	CreateBooking(ctx context.Context, req domain.BookingRequest) (*domain.Booking, error)
	ListBookings(ctx context.Context) ([]domain.Booking, error)
	GetBooking(ctx context.Context, id string) (*domain.Booking, error)
	BookingsByEmail(ctx context.Context, email string) ([]domain.Booking, error)
}

type Notifier interface {
	Enqueue(title, description string, kind notify.Kind) string
}

type EventProducer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

const DefaultRecentLimit = 3

const publishTimeout = 5 * time.Second

const (
	msgIncompleteFlight = "Flight data is incomplete. Please select another flight."
	msgBookingFallback  = "Failed to create booking"
	msgListFailed       = "Failed to load bookings"
	msgRecentFailed     = "Failed to load recent bookings"
	msgEmailRequired    = "Please enter an email address"
	msgNoBookings       = "No bookings were found for this email address."
	msgLookupFailed     = "Failed to fetch bookings. Please try again."
)

// FormState is the booking form as the UI sees it.
type FormState struct {
	Selected  *domain.FlightRecord   `json:"selected"`
	Passenger domain.PassengerFields `json:"passenger"`
	Busy      bool                   `json:"busy"`
}

type BookingService struct {
	api          BookingAPI
	notifier     Notifier
	producer     EventProducer
	bookingTopic string
	now          func() time.Time

	mu        sync.Mutex
	selection *domain.FlightRecord
	form      domain.PassengerFields
	inFlight  int
}

type BookingServiceOption func(*BookingService)

func WithEventProducer(producer EventProducer, topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.bookingTopic = topic
	}
}

func NewBookingService(api BookingAPI, notifier Notifier, opts ...BookingServiceOption) *BookingService {
	service := &BookingService{
		api:      api,
		notifier: notifier,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) Select(flight domain.FlightRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = &flight
}

func (s *BookingService) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = nil
}

func (s *BookingService) UpdatePassenger(fields domain.PassengerFields) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = fields
}

func (s *BookingService) Form() FormState {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := FormState{Passenger: s.form, Busy: s.inFlight > 0}
	if s.selection != nil {
		selected := *s.selection
		state.Selected = &selected
	}
	return state
}

// Busy is advisory; the orchestrator itself accepts overlapping submits.
func (s *BookingService) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight > 0
}

// Submit books the held selection with the held passenger fields.
func (s *BookingService) Submit(ctx context.Context) (*domain.Booking, error) {
	s.mu.Lock()
	var selected *domain.FlightRecord
	if s.selection != nil {
		f := *s.selection
		selected = &f
	}
	fields := s.form
	s.mu.Unlock()

	return s.Book(ctx, selected, fields)
}

// Book sends a booking for selected to the flight service. On success the
// form and selection are cleared; on failure both are left as they were.
func (s *BookingService) Book(ctx context.Context, selected *domain.FlightRecord, fields domain.PassengerFields) (*domain.Booking, error) {
	if selected == nil {
		s.notifier.Enqueue("Booking Failed", msgIncompleteFlight, notify.KindError)
		return nil, &domain.ValidationError{Message: msgIncompleteFlight}
	}
	req, err := domain.NewBookingRequest(*selected, fields)
	if err != nil {
		log.Printf("refusing booking: %v", err)
		s.notifier.Enqueue("Booking Failed", msgIncompleteFlight, notify.KindError)
		return nil, &domain.ValidationError{Message: msgIncompleteFlight}
	}

	s.mu.Lock()
	s.inFlight++
	s.mu.Unlock()

	// a committed booking must be reported even if the caller went away
	booking, err := s.api.CreateBooking(context.WithoutCancel(ctx), req)

	s.mu.Lock()
	s.inFlight--
	if err == nil {
		s.form = domain.PassengerFields{}
		s.selection = nil
	}
	s.mu.Unlock()

	if err != nil {
		s.notifier.Enqueue("Booking Failed", domain.UserMessage(err, msgBookingFallback), notify.KindError)
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.notifier.Enqueue("Booking Confirmed", fmt.Sprintf("Your booking has been confirmed. Booking ID: %s", booking.ID), notify.KindSuccess)
	s.publishConfirmed(booking)
	return booking, nil
}

func (s *BookingService) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	bookings, err := s.api.ListBookings(ctx)
	if err != nil {
		s.notifier.Enqueue("Error", domain.UserMessage(err, msgListFailed), notify.KindError)
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// Recent returns the n newest bookings by createdAt. Bookings whose createdAt
// cannot be parsed sort last.
func (s *BookingService) Recent(ctx context.Context, n int) ([]domain.Booking, error) {
	if n <= 0 {
		n = DefaultRecentLimit
	}
	bookings, err := s.api.ListBookings(ctx)
	if err != nil {
		s.notifier.Enqueue("Error", msgRecentFailed, notify.KindError)
		return nil, fmt.Errorf("recent bookings: %w", err)
	}

	sorted := append([]domain.Booking{}, bookings...)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, errI := timefmt.Parse(sorted[i].CreatedAt, time.UTC)
		tj, errJ := timefmt.Parse(sorted[j].CreatedAt, time.UTC)
		switch {
		case errI != nil:
			return false
		case errJ != nil:
			return true
		default:
			return ti.After(tj)
		}
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted, nil
}

func (s *BookingService) ByEmail(ctx context.Context, email string) ([]domain.Booking, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		s.notifier.Enqueue("Error", msgEmailRequired, notify.KindError)
		return nil, &domain.ValidationError{Message: msgEmailRequired}
	}

	bookings, err := s.api.BookingsByEmail(ctx, email)
	if err != nil {
		s.notifier.Enqueue("Error", msgLookupFailed, notify.KindError)
		return nil, fmt.Errorf("bookings by email: %w", err)
	}
	if len(bookings) == 0 {
		s.notifier.Enqueue("No bookings found", msgNoBookings, notify.KindInfo)
		return []domain.Booking{}, nil
	}
	return bookings, nil
}

func (s *BookingService) Get(ctx context.Context, id string) (*domain.Booking, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &domain.ValidationError{Message: "booking id is required"}
	}
	booking, err := s.api.GetBooking(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking %s: %w", id, err)
	}
	return booking, nil
}

// publishConfirmed sends the booking_confirmed event off the caller's path.
// Delivery is best effort and bounded by publishTimeout.
func (s *BookingService) publishConfirmed(booking *domain.Booking) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:           kafka.EventBookingConfirmed,
		BookingID:      booking.ID,
		FlightIata:     booking.FlightIata,
		AirlineName:    booking.AirlineName,
		FlightDate:     booking.FlightDate,
		PassengerName:  booking.PassengerName,
		PassengerEmail: booking.PassengerEmail,
		Status:         string(booking.Status),
		OccurredAt:     s.now().UTC(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := s.producer.Publish(ctx, s.bookingTopic, event.BookingID, event); err != nil {
			log.Printf("WARNING: failed to publish %s event for booking %s: %v", event.Type, event.BookingID, err)
		}
	}()
}

var _ BookingUseCase = (*BookingService)(nil)
