package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Domenick1991/airbooking-desk/internal/domain"
	"github.com/Domenick1991/airbooking-desk/internal/notify"
	"github.com/Domenick1991/airbooking-desk/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) Select(flight domain.FlightRecord) {
	m.Called(flight)
}

func (m *MockBookingUseCase) ClearSelection() {
	m.Called()
}

func (m *MockBookingUseCase) UpdatePassenger(fields domain.PassengerFields) {
	m.Called(fields)
}

func (m *MockBookingUseCase) Form() booking.FormState {
	args := m.Called()
	return args.Get(0).(booking.FormState)
}

func (m *MockBookingUseCase) Busy() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockBookingUseCase) Submit(ctx context.Context) (*domain.Booking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) Book(ctx context.Context, selected *domain.FlightRecord, fields domain.PassengerFields) (*domain.Booking, error) {
	args := m.Called(ctx, selected, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) Recent(ctx context.Context, n int) ([]domain.Booking, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ByEmail(ctx context.Context, email string) ([]domain.Booking, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) Get(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

type MockNotificationStore struct {
	mock.Mock
}

func (m *MockNotificationStore) Snapshot() []notify.Notification {
	args := m.Called()
	return args.Get(0).([]notify.Notification)
}

func (m *MockNotificationStore) Dismiss(id string) {
	m.Called(id)
}

func newTestRouter(flightSvc *MockFlightUseCase, bookingSvc *MockBookingUseCase, store *MockNotificationStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(flightSvc, bookingSvc, store)
}

func serve(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestBookingHandler_selectFlight(t *testing.T) {
	flightSvc := &MockFlightUseCase{}
	bookingSvc := &MockBookingUseCase{}
	router := newTestRouter(flightSvc, bookingSvc, &MockNotificationStore{})

	second := sampleFlight("AA2")
	flightSvc.On("Results").Return([]domain.FlightRecord{sampleFlight("AA1"), second})
	bookingSvc.On("Select", second).Return().Once()
	bookingSvc.On("Form").Return(booking.FormState{Selected: &second})

	w := serve(router, http.MethodPut, "/api/booking/selection", `{"index":1}`)

	assert.Equal(t, http.StatusOK, w.Code)
	bookingSvc.AssertExpectations(t)
}

func TestBookingHandler_selectFlightInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "out of range", body: `{"index":5}`},
		{name: "negative", body: `{"index":-1}`},
		{name: "missing", body: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flightSvc := &MockFlightUseCase{}
			bookingSvc := &MockBookingUseCase{}
			router := newTestRouter(flightSvc, bookingSvc, &MockNotificationStore{})
			flightSvc.On("Results").Return([]domain.FlightRecord{sampleFlight("AA1")})

			w := serve(router, http.MethodPut, "/api/booking/selection", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			bookingSvc.AssertNotCalled(t, "Select", mock.Anything)
		})
	}
}

func TestBookingHandler_clearSelection(t *testing.T) {
	bookingSvc := &MockBookingUseCase{}
	router := newTestRouter(&MockFlightUseCase{}, bookingSvc, &MockNotificationStore{})

	bookingSvc.On("ClearSelection").Return().Once()
	bookingSvc.On("Form").Return(booking.FormState{})

	w := serve(router, http.MethodDelete, "/api/booking/selection", "")

	assert.Equal(t, http.StatusOK, w.Code)
	bookingSvc.AssertExpectations(t)
}

func TestBookingHandler_updatePassenger(t *testing.T) {
	bookingSvc := &MockBookingUseCase{}
	router := newTestRouter(&MockFlightUseCase{}, bookingSvc, &MockNotificationStore{})

	fields := domain.PassengerFields{PassengerName: "Jane", PassengerEmail: "jane@example.com", PhoneNumber: "123"}
	bookingSvc.On("UpdatePassenger", fields).Return().Once()
	bookingSvc.On("Form").Return(booking.FormState{Passenger: fields})

	w := serve(router, http.MethodPut, "/api/booking/passenger", `{"passengerName":"Jane","passengerEmail":"jane@example.com","phoneNumber":"123"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	bookingSvc.AssertExpectations(t)

	w = serve(router, http.MethodPut, "/api/booking/passenger", `{"passengerEmail":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandler_submit(t *testing.T) {
	bookingSvc := &MockBookingUseCase{}
	router := newTestRouter(&MockFlightUseCase{}, bookingSvc, &MockNotificationStore{})

	bookingSvc.On("Busy").Return(false).Once()
	bookingSvc.On("Submit", mock.Anything).Return(&domain.Booking{ID: "bk-1", Status: domain.BookingStatusConfirmed}, nil).Once()

	w := serve(router, http.MethodPost, "/api/booking", "")

	require.Equal(t, http.StatusCreated, w.Code)
	var created domain.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "bk-1", created.ID)
	assert.Equal(t, domain.BookingStatusConfirmed, created.Status)
}

func TestBookingHandler_submitWhileBusy(t *testing.T) {
	bookingSvc := &MockBookingUseCase{}
	router := newTestRouter(&MockFlightUseCase{}, bookingSvc, &MockNotificationStore{})

	bookingSvc.On("Busy").Return(true).Once()

	w := serve(router, http.MethodPost, "/api/booking", "")

	assert.Equal(t, http.StatusConflict, w.Code)
	bookingSvc.AssertNotCalled(t, "Submit", mock.Anything)
}

func TestBookingHandler_submitErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{name: "incomplete flight", err: &domain.ValidationError{Message: "Flight data is incomplete. Please select another flight."}, code: http.StatusBadRequest},
		{name: "service rejected", err: &domain.ServiceError{Status: 409, Message: "Flight is full"}, code: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookingSvc := &MockBookingUseCase{}
			router := newTestRouter(&MockFlightUseCase{}, bookingSvc, &MockNotificationStore{})
			bookingSvc.On("Busy").Return(false)
			bookingSvc.On("Submit", mock.Anything).Return(nil, tt.err)

			w := serve(router, http.MethodPost, "/api/booking", "")

			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestBookingHandler_recent(t *testing.T) {
	bookingSvc := &MockBookingUseCase{}
	router := newTestRouter(&MockFlightUseCase{}, bookingSvc, &MockNotificationStore{})

	bookingSvc.On("Recent", mock.Anything, 0).Return([]domain.Booking{{ID: "a"}}, nil).Once()
	bookingSvc.On("Recent", mock.Anything, 5).Return([]domain.Booking{{ID: "a"}, {ID: "b"}}, nil).Once()

	w := serve(router, http.MethodGet, "/api/bookings/recent", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(router, http.MethodGet, "/api/bookings/recent?limit=5", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Bookings []domain.Booking `json:"bookings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Bookings, 2)

	w = serve(router, http.MethodGet, "/api/bookings/recent?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	bookingSvc.AssertExpectations(t)
}

func TestBookingHandler_lookups(t *testing.T) {
	bookingSvc := &MockBookingUseCase{}
	router := newTestRouter(&MockFlightUseCase{}, bookingSvc, &MockNotificationStore{})

	bookingSvc.On("ListBookings", mock.Anything).Return([]domain.Booking{{ID: "a"}}, nil).Once()
	bookingSvc.On("ByEmail", mock.Anything, "jane@example.com").Return([]domain.Booking{}, nil).Once()
	bookingSvc.On("Get", mock.Anything, "bk-1").Return(&domain.Booking{ID: "bk-1"}, nil).Once()
	bookingSvc.On("Get", mock.Anything, "missing").Return(nil, &domain.ServiceError{Status: http.StatusNotFound, Message: "Booking not found"}).Once()

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/api/bookings", "").Code)

	w := serve(router, http.MethodGet, "/api/bookings/email/jane@example.com", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"bookings":[]}`, w.Body.String())

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/api/bookings/bk-1", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/api/bookings/missing", "").Code)

	bookingSvc.AssertExpectations(t)
}

func TestNotificationHandler(t *testing.T) {
	store := &MockNotificationStore{}
	router := newTestRouter(&MockFlightUseCase{}, &MockBookingUseCase{}, store)

	store.On("Snapshot").Return([]notify.Notification{{ID: "n1", Title: "Success", Kind: notify.KindSuccess, Visible: true}}).Once()
	store.On("Dismiss", "n1").Return().Once()

	w := serve(router, http.MethodGet, "/api/notifications", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Notifications []notify.Notification `json:"notifications"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Notifications, 1)
	assert.Equal(t, "n1", body.Notifications[0].ID)

	w = serve(router, http.MethodDelete, "/api/notifications/n1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	store.AssertExpectations(t)
}

func TestRouter_health(t *testing.T) {
	router := newTestRouter(&MockFlightUseCase{}, &MockBookingUseCase{}, &MockNotificationStore{})

	w := serve(router, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
