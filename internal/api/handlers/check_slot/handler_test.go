package check_slot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	checkSlot "github.com/m04kA/SMC-SpaBookingService/internal/usecase/check_slot"
	"github.com/m04kA/SMC-SpaBookingService/pkg/logger"
	"github.com/m04kA/SMC-SpaBookingService/pkg/types"
)

type mockUseCase struct {
	executeFunc func(ctx context.Context, req *checkSlot.Request) (*checkSlot.Response, error)
}

func (m *mockUseCase) Execute(ctx context.Context, req *checkSlot.Request) (*checkSlot.Response, error) {
	return m.executeFunc(ctx, req)
}

func serve(uc CheckSlotUseCase, body string) *httptest.ResponseRecorder {
	h := NewHandler(uc, logger.Nop())
	req := httptest.NewRequest(http.MethodPost, "/bookings/check-slot", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_Success(t *testing.T) {
	var got *checkSlot.Request
	uc := &mockUseCase{executeFunc: func(ctx context.Context, req *checkSlot.Request) (*checkSlot.Response, error) {
		got = req
		return &checkSlot.Response{
			Date:        time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
			BranchID:    1,
			ServiceID:   3,
			ServiceName: "Thai Massage",
			Slots:       []types.TimeString{"10:30", "11:00"},
		}, nil
	}}

	rec := serve(uc, `{"date":"2025-06-10","serviceName":"Thai Massage","branchId":1}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Thai Massage", got.ServiceName)
	assert.Nil(t, got.ServiceID)

	var body CheckSlotResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, []string{"10:30", "11:00"}, body.AvailableSlots)
	assert.Equal(t, "2025-06-10", body.Date)
}

func TestHandle_ValidationErrors(t *testing.T) {
	uc := &mockUseCase{executeFunc: func(ctx context.Context, req *checkSlot.Request) (*checkSlot.Response, error) {
		t.Fatal("use case must not be called")
		return nil, nil
	}}

	tests := []struct {
		name string
		body string
	}{
		{"broken json", `{`},
		{"no date", `{"serviceId":1,"branchId":1}`},
		{"bad date", `{"date":"10-06-2025","serviceId":1,"branchId":1}`},
		{"no service", `{"date":"2025-06-10","branchId":1}`},
		{"no branch", `{"date":"2025-06-10","serviceId":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(uc, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), `"success":false`)
		})
	}
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{checkSlot.ErrServiceNotFound, http.StatusNotFound},
		{checkSlot.ErrBranchNotFound, http.StatusNotFound},
		{checkSlot.ErrInvalidDate, http.StatusBadRequest},
		{checkSlot.ErrDateTooFarInFuture, http.StatusBadRequest},
		{checkSlot.ErrInvalidInput, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			uc := &mockUseCase{executeFunc: func(ctx context.Context, req *checkSlot.Request) (*checkSlot.Response, error) {
				return nil, tt.err
			}}

			rec := serve(uc, `{"date":"2025-06-10","serviceId":1,"branchId":1}`)

			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestHandle_InvalidInputHidesInternalDetails(t *testing.T) {
	uc := &mockUseCase{executeFunc: func(ctx context.Context, req *checkSlot.Request) (*checkSlot.Response, error) {
		return nil, fmt.Errorf("%w: service name is too long", checkSlot.ErrInvalidInput)
	}}

	rec := serve(uc, `{"date":"2025-06-10","serviceId":1,"branchId":1}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), msgInvalidInput)
	assert.NotContains(t, rec.Body.String(), "invalid input data")
}
