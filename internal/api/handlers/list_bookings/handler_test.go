package list_bookings

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SpaBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-SpaBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-SpaBookingService/pkg/logger"
)

type mockService struct {
	listFunc func(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error)
}

func (m *mockService) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	return m.listFunc(ctx, req)
}

func serve(svc BookingService, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.Nop()).Handle(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle_ParsesQuery(t *testing.T) {
	var got *models.ListBookingsRequest
	svc := &mockService{listFunc: func(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
		got = req
		return &models.BookingListResponse{Bookings: []models.BookingResponse{{ID: 1}}}, nil
	}}

	rec := serve(svc, "/bookings?phone=%2B84900000000&branchId=2&date=2025-06-10&status=pending&limit=5")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "+84900000000", *got.Phone)
	assert.Equal(t, int64(2), *got.BranchID)
	assert.Equal(t, "2025-06-10", *got.Date)
	assert.Equal(t, "pending", *got.Status)
	assert.Equal(t, 5, got.Limit)
	assert.JSONEq(t, `{"bookings":[{"id":1,"customerName":"","phone":"","branchId":0,"serviceId":0,"staffId":0,"roomId":0,
		"date":"","startTime":"","endTime":"","bufferMinutes":0,"status":"","source":"","serviceName":"",
		"createdAt":"0001-01-01T00:00:00Z","updatedAt":"0001-01-01T00:00:00Z"}]}`, rec.Body.String())
}

func TestHandle_Errors(t *testing.T) {
	svc := &mockService{listFunc: func(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
		if req.Status != nil {
			return nil, bookings.ErrInvalidInput
		}
		return nil, errors.New("db down")
	}}

	assert.Equal(t, http.StatusBadRequest, serve(svc, "/bookings?branchId=abc").Code)
	assert.Equal(t, http.StatusBadRequest, serve(svc, "/bookings?limit=-1").Code)
	assert.Equal(t, http.StatusBadRequest, serve(svc, "/bookings?status=lost").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(svc, "/bookings").Code)
}
