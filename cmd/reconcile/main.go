// Command reconcile runs the axis-order reconciliation once against a
// capabilities document (local file or live service) and prints a JSON
// report. It mutates only a scratch registry, so operators can validate a
// project configuration before deploying it.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/aldasoro/geobridge/internal/adapters/wms"
	"github.com/aldasoro/geobridge/internal/core/domain"
	"github.com/aldasoro/geobridge/internal/core/usecases"
	"github.com/aldasoro/geobridge/internal/pkg/config"
	"github.com/aldasoro/geobridge/internal/pkg/logging"
	"github.com/aldasoro/geobridge/internal/pkg/projection"
)

func main() {
	var (
		file    = flag.String("file", "", "read the capabilities document from a file instead of wms.url")
		ref     = flag.String("ref", "", "project CRS code (overrides projection.ref)")
		proj4   = flag.String("proj4", "", "project CRS parameter string (overrides projection.proj4)")
		timeout = flag.Duration("timeout", 15*time.Second, "fetch timeout")
	)
	flag.Parse()

	cfg, err := config.Load("geobridge-reconcile")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(os.Getenv("LOG_LEVEL"), "text")

	if *ref == "" {
		*ref = cfg.Projection.Ref
	}
	if *proj4 == "" {
		*proj4 = cfg.Projection.Proj4
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	caps, err := loadCapabilities(ctx, cfg, *file, *timeout)
	if err != nil {
		log.Fatalf("capabilities: %v", err)
	}

	registry := projection.NewRegistry()
	if *ref != "" {
		if err := registry.Register(*ref, *proj4); err != nil {
			log.Fatalf("project CRS: %v", err)
		}
	}

	svc := usecases.NewReconcileService(registry, nil)
	report := svc.Run(ctx, usecases.BuildReconcileInput(*ref, *proj4, caps))

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Fatalf("encode report: %v", err)
	}
	fmt.Println(string(out))
}

func loadCapabilities(ctx context.Context, cfg *config.Config, file string, timeout time.Duration) (*domain.Capabilities, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		return wms.ParseCapabilities(data)
	}
	if cfg.WMS.URL == "" {
		return nil, fmt.Errorf("no -file given and wms.url is not configured")
	}
	client := wms.NewClient(cfg.WMS.URL, timeout, nil, 0)
	return client.Fetch(ctx)
}
