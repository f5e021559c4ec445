package cancel_booking

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SpaBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-SpaBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-SpaBookingService/pkg/logger"
)

type mockService struct {
	cancelFunc func(ctx context.Context, id int64, req *models.CancelBookingRequest) (*models.BookingResponse, error)
}

func (m *mockService) Cancel(ctx context.Context, id int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	return m.cancelFunc(ctx, id, req)
}

func serve(svc BookingService, id, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, "/bookings/"+id+"/cancel", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"bookingId": id})
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.Nop()).Handle(rec, req)
	return rec
}

func TestHandle_WithAndWithoutReason(t *testing.T) {
	var got *models.CancelBookingRequest
	svc := &mockService{cancelFunc: func(ctx context.Context, id int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
		got = req
		return &models.BookingResponse{ID: id, Status: "cancelled"}, nil
	}}

	rec := serve(svc, "5", `{"reason":"sick"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sick", *got.Reason)

	rec = serve(svc, "5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, got.Reason)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{bookings.ErrBookingNotFound, http.StatusNotFound},
		{bookings.ErrInvalidTransition, http.StatusConflict},
		{bookings.ErrInvalidInput, http.StatusBadRequest},
		{bookings.ErrGateTimeout, http.StatusServiceUnavailable},
		{bookings.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			svc := &mockService{cancelFunc: func(ctx context.Context, id int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
				return nil, tt.err
			}}
			assert.Equal(t, tt.code, serve(svc, "5", "").Code)
		})
	}

	noCall := &mockService{}
	assert.Equal(t, http.StatusBadRequest, serve(noCall, "x", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(noCall, "5", "{").Code)
	assert.Equal(t, http.StatusBadRequest, serve(noCall, "5", `{"reason":"`+strings.Repeat("a", 501)+`"}`).Code)
}

func TestHandle_InvalidInputHidesInternalDetails(t *testing.T) {
	svc := &mockService{cancelFunc: func(ctx context.Context, id int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
		return nil, fmt.Errorf("%w: reason is too long", bookings.ErrInvalidInput)
	}}

	rec := serve(svc, "5", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), msgInvalidInput)
	assert.NotContains(t, rec.Body.String(), "invalid input data")
}
