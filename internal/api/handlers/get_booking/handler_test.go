package get_booking

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SpaBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-SpaBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-SpaBookingService/pkg/logger"
)

type mockService struct {
	getByIDFunc func(ctx context.Context, id int64) (*models.BookingResponse, error)
}

func (m *mockService) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	return m.getByIDFunc(ctx, id)
}

func serve(svc BookingService, id string) *httptest.ResponseRecorder {
	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/bookings/"+id, nil), map[string]string{"bookingId": id})
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.Nop()).Handle(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	svc := &mockService{getByIDFunc: func(ctx context.Context, id int64) (*models.BookingResponse, error) {
		switch id {
		case 1:
			return &models.BookingResponse{ID: 1, Status: "pending"}, nil
		case 2:
			return nil, bookings.ErrBookingNotFound
		default:
			return nil, errors.New("db down")
		}
	}}

	rec := serve(svc, "1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"pending"`)

	assert.Equal(t, http.StatusNotFound, serve(svc, "2").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(svc, "3").Code)
	assert.Equal(t, http.StatusBadRequest, serve(svc, "abc").Code)
	assert.Equal(t, http.StatusBadRequest, serve(svc, "0").Code)
}
