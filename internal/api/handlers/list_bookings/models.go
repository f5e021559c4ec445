package list_bookings

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/m04kA/SMC-SpaBookingService/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров:
// phone, branchId, date, status, limit (все опциональны)
func ToServiceRequest(query url.Values) (*models.ListBookingsRequest, error) {
	req := &models.ListBookingsRequest{}

	if phone := query.Get("phone"); phone != "" {
		req.Phone = &phone
	}

	if branchIDStr := query.Get("branchId"); branchIDStr != "" {
		branchID, err := strconv.ParseInt(branchIDStr, 10, 64)
		if err != nil || branchID <= 0 {
			return nil, fmt.Errorf("invalid branchId %q", branchIDStr)
		}
		req.BranchID = &branchID
	}

	if date := query.Get("date"); date != "" {
		req.Date = &date
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			return nil, fmt.Errorf("invalid limit %q", limitStr)
		}
		req.Limit = limit
	}

	return req, nil
}
