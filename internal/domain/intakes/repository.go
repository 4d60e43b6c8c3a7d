package intakes

import (
	"context"
	"time"
)

// Repository persiste marcas de toma. Set con StatusPending borra el
// registro (pending es la ausencia de registro).
type Repository interface {
	Set(ctx context.Context, rec Record) error
	Get(ctx context.Context, key Key) (Record, bool, error)
	ListByCourseDay(ctx context.Context, courseID string, day time.Time) ([]Record, error)
}
