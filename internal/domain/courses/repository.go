package courses

import "context"

type Repository interface {
	Create(ctx context.Context, c Course) error
	Update(ctx context.Context, c Course) error
	GetByID(ctx context.Context, id string) (Course, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]Course, error)
	Delete(ctx context.Context, id string) error
}
