package usecases

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"github.com/aldasoro/geobridge/internal/core/domain"
	"github.com/aldasoro/geobridge/internal/core/ports"
	"github.com/aldasoro/geobridge/internal/pkg/metrics"
	"github.com/aldasoro/geobridge/internal/pkg/projection"
)

// proximityEpsilon is the relative tolerance for the pairwise proximity
// comparison, scaled by coordinate magnitude so exact ties do not flip on
// floating-point noise. The comparison can still be ambiguous when the map
// extent is nearly square in one axis; that limitation is inherent to the
// heuristic.
const proximityEpsilon = 1e-9

// axisOverride is the parameter token appended to a definition whose
// coordinate pairs turn out to be (north, east).
const axisOverride = "+axis=neu"

// ReconcileInput carries everything the reconciler needs: the project CRS,
// its base parameter string (no axis override), and the capabilities
// document's bounding boxes and geographic ground-truth extent.
type ReconcileInput struct {
	Ref       string
	Params    string
	Boxes     []domain.BoundingBox
	GeoExtent domain.Extent
}

// BuildReconcileInput assembles the reconciler input from the project
// configuration and a parsed capabilities document. This is the hand-off
// point between the two startup phases: load, then reconcile.
func BuildReconcileInput(ref, params string, caps *domain.Capabilities) ReconcileInput {
	in := ReconcileInput{Ref: ref, Params: params}
	if caps != nil {
		in.Boxes = caps.Layer.BoundingBoxes
		in.GeoExtent = caps.Layer.GeographicExtent
	}
	return in
}

// ReconcileService decides whether the project CRS needs its axis order
// flagged as reversed and applies the fix at most once per process.
type ReconcileService struct {
	registry *projection.Registry
	events   ports.EventPublisher
}

// NewReconcileService creates a ReconcileService. events may be nil.
func NewReconcileService(registry *projection.Registry, events ports.EventPublisher) *ReconcileService {
	return &ReconcileService{registry: registry, events: events}
}

// Run executes the reconciliation once. It never fails: a geometry mismatch
// is a signal the algorithm consumes, and a bounding box whose transform
// fails is skipped as if it were absent. An incorrect axis order degrades
// display fidelity downstream but must not abort startup.
func (s *ReconcileService) Run(ctx context.Context, in ReconcileInput) *domain.ReconciliationReport {
	report := s.run(in)
	metrics.Reconciliations.WithLabelValues(string(report.Outcome)).Inc()
	slog.Info("axis-order reconciliation finished",
		"ref", in.Ref,
		"outcome", string(report.Outcome),
		"secondary", report.Secondary,
	)
	if s.events != nil {
		if err := s.events.PublishReconciliation(ctx, report); err != nil {
			slog.Warn("publish reconciliation event failed", "error", err)
		}
	}
	return report
}

func (s *ReconcileService) run(in ReconcileInput) *domain.ReconciliationReport {
	report := &domain.ReconciliationReport{Ref: in.Ref, Params: in.Params}

	if in.Ref == "" {
		report.Outcome = domain.OutcomeSkipped
		return report
	}

	def, ok := s.registry.Lookup(in.Ref)
	if !ok {
		if err := s.registry.Register(in.Ref, in.Params); err != nil {
			slog.Warn("project CRS definition rejected, nothing to reconcile",
				"ref", in.Ref, "error", err)
			report.Outcome = domain.OutcomeNoMatch
			return report
		}
		def, _ = s.registry.Lookup(in.Ref)
	}
	report.Params = def.Params

	matched := false
	for i := range in.Boxes {
		box := in.Boxes[i]
		if box.CRS != in.Ref {
			continue
		}
		matched = true

		// An explicit east/north declaration needs no empirical check.
		if def.Orientation == domain.AxisENU {
			report.Outcome = domain.OutcomeOriented
			return report
		}

		// Candidate extent: the geographic ground truth transformed with the
		// current, unpatched definition.
		cand, err := s.registry.TransformExtent(in.GeoExtent, domain.GeographicCRS, in.Ref)
		if err != nil {
			slog.Debug("candidate extent transform failed, skipping box",
				"ref", in.Ref, "error", err)
			continue
		}
		report.MatchedBox = &box
		report.Candidate = &cand

		if swappedOrder(cand, box.Extent) {
			return s.apply(report, def.Params, false)
		}

		// Secondary check: the box, mapped back to the reference CRS, must
		// overlap the declared geographic extent if the axis order is right.
		geoBox, err := s.registry.TransformExtent(box.Extent, in.Ref, domain.GeographicCRS)
		if err != nil {
			slog.Debug("secondary extent transform failed, skipping box",
				"ref", in.Ref, "error", err)
			report.MatchedBox, report.Candidate = nil, nil
			continue
		}
		if !geoBox.Intersects(in.GeoExtent) {
			return s.apply(report, def.Params, true)
		}

		report.Outcome = domain.OutcomeConfirmed
		return report
	}

	if !matched {
		report.Outcome = domain.OutcomeNoMatch
		return report
	}
	// Every matching box failed to transform; treated as if none existed.
	report.Outcome = domain.OutcomeNoMatch
	return report
}

// apply rewrites the project CRS definition with the reversed-axis override
// and rebuilds the registry so every cached transformer picks it up.
func (s *ReconcileService) apply(report *domain.ReconciliationReport, params string, secondary bool) *domain.ReconciliationReport {
	patched := reversedParams(params)
	if err := s.registry.Commit(report.Ref, patched); err != nil {
		slog.Error("axis-order patch failed, registry left unchanged",
			"ref", report.Ref, "error", err)
		report.Outcome = domain.OutcomeNoMatch
		return report
	}
	report.Outcome = domain.OutcomePatched
	report.Secondary = secondary
	report.Params = patched
	return report
}

// reversedParams appends the axis override token, never duplicating it.
func reversedParams(params string) string {
	if strings.Contains(params, axisOverride) {
		return params
	}
	return strings.TrimSpace(params) + " " + axisOverride
}

// swappedOrder tests the swapped-order hypothesis: each candidate coordinate
// is strictly closer to its pairwise-swapped counterpart in the declared box
// than to its direct counterpart.
func swappedOrder(e, b domain.Extent) bool {
	return closer(e[0], b[1], b[0]) &&
		closer(e[1], b[0], b[1]) &&
		closer(e[2], b[3], b[2]) &&
		closer(e[3], b[2], b[3])
}

// closer reports whether v is nearer to a than to b by more than the relative
// tolerance.
func closer(v, a, b float64) bool {
	tol := proximityEpsilon * math.Max(1, math.Abs(v))
	return math.Abs(v-a)+tol < math.Abs(v-b)
}
