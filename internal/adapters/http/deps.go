package http

import (
	natsadapter "github.com/aldasoro/geobridge/internal/adapters/nats"
	"github.com/aldasoro/geobridge/internal/adapters/valkey"
	"github.com/aldasoro/geobridge/internal/core/domain"
	"github.com/aldasoro/geobridge/internal/core/usecases"
)

// Dependencies holds everything the HTTP handlers need. The server is wired
// only after startup reconciliation has completed, so Transforms always sees
// validated axis order.
type Dependencies struct {
	Transforms     *usecases.TransformService
	Reconciliation *domain.ReconciliationReport
	Capabilities   *domain.Capabilities
	NATS           *natsadapter.Publisher
	Cache          *valkey.Cache
}
