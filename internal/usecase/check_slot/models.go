package check_slot

import (
	"time"

	"github.com/m04kA/SMC-SpaBookingService/pkg/types"
)

// Request модель запроса на проверку свободных слотов.
// Услуга задаётся либо ServiceID, либо ServiceName; ServiceID приоритетнее.
type Request struct {
	ServiceID   *int64
	ServiceName string
	BranchID    int64
	Date        string // YYYY-MM-DD
}

// Response модель ответа со списком свободных слотов
type Response struct {
	Date        time.Time
	BranchID    int64
	ServiceID   int64
	ServiceName string
	Slots       []types.TimeString // по возрастанию
}
