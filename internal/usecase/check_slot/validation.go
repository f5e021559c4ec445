package check_slot

import (
	"fmt"
	"strings"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BranchID <= 0 {
		return fmt.Errorf("%w: branchId must be positive", ErrInvalidInput)
	}

	if req.ServiceID == nil && strings.TrimSpace(req.ServiceName) == "" {
		return fmt.Errorf("%w: serviceId or serviceName is required", ErrInvalidInput)
	}

	if req.ServiceID != nil && *req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceId must be positive", ErrInvalidInput)
	}

	if strings.TrimSpace(req.Date) == "" {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}
