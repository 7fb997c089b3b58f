package ports

import (
	"context"

	"github.com/aldasoro/geobridge/internal/core/domain"
)

// CapabilitiesSource fetches and parses the project capabilities document.
type CapabilitiesSource interface {
	Fetch(ctx context.Context) (*domain.Capabilities, error)
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishReconciliation(ctx context.Context, report *domain.ReconciliationReport) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
