package domain

// Phase is a step of the generation lifecycle as shown to the user.
type Phase string

// Progress phases.
const (
	PhaseIdle            Phase = "idle"
	PhaseGeneratingText  Phase = "generating_text"
	PhaseGeneratingCover Phase = "generating_cover"
	PhaseDone            Phase = "done"
	PhaseFailed          Phase = "failed"
)

// Active reports whether a request is running in this phase.
func (p Phase) Active() bool {
	return p == PhaseGeneratingText || p == PhaseGeneratingCover
}

// Terminal reports whether the phase ends a request.
func (p Phase) Terminal() bool {
	return p == PhaseDone || p == PhaseFailed
}

// ProgressState is the percentage and phase reported to the UI.
type ProgressState struct {
	Percent int   `json:"percent"`
	Phase   Phase `json:"phase"`
}
