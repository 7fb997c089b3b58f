package domain

// ReconcileOutcome classifies the result of an axis-order reconciliation run.
type ReconcileOutcome string

const (
	// OutcomeSkipped means no project CRS was configured.
	OutcomeSkipped ReconcileOutcome = "skipped"
	// OutcomeNoMatch means no bounding box was declared for the project CRS.
	OutcomeNoMatch ReconcileOutcome = "no_match"
	// OutcomeOriented means the definition already declared east/north order.
	OutcomeOriented ReconcileOutcome = "oriented"
	// OutcomeConfirmed means the current axis order was validated unchanged.
	OutcomeConfirmed ReconcileOutcome = "confirmed"
	// OutcomePatched means the definition was rewritten with reversed axes.
	OutcomePatched ReconcileOutcome = "patched"
)

// ReconciliationReport records what a reconciliation run decided.
type ReconciliationReport struct {
	Outcome    ReconcileOutcome `json:"outcome"`
	Ref        string           `json:"ref,omitempty"`
	MatchedBox *BoundingBox     `json:"matched_box,omitempty"`
	Candidate  *Extent          `json:"candidate_extent,omitempty"`
	// Secondary is set when a patch came from the intersection fallback
	// rather than the pairwise proximity comparison.
	Secondary bool `json:"secondary_check,omitempty"`
	// Params is the active parameter string for Ref after the run.
	Params string `json:"params,omitempty"`
}
