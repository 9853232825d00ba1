// ABOUTME: Activation state machine values owned by the reader session
// ABOUTME: Replaces ad-hoc boolean re-entrancy flags with an explicit enumeration

package domain

// Mode is the display mode of an active session
type Mode string

const (
	ModeNone    Mode = ""
	ModeArticle Mode = "article"
	ModeListing Mode = "listing"
)

// Phase is the lifecycle phase of a session
type Phase string

const (
	PhaseInactive   Phase = "inactive"
	PhaseActivating Phase = "activating"
	PhaseActive     Phase = "active"
)

// ActivationState is Inactive, Activating (guard while an activation is in
// flight) or Active with a mode.
type ActivationState struct {
	Phase Phase `json:"phase"`
	Mode  Mode  `json:"mode,omitempty"`
}

// Inactive returns the idle state
func Inactive() ActivationState {
	return ActivationState{Phase: PhaseInactive}
}

// Active returns the active state for a mode
func Active(mode Mode) ActivationState {
	return ActivationState{Phase: PhaseActive, Mode: mode}
}

// IsActive reports whether a mode is currently displayed
func (s ActivationState) IsActive() bool {
	return s.Phase == PhaseActive
}

// IsBusy reports whether the state rejects a new activation
func (s ActivationState) IsBusy() bool {
	return s.Phase != PhaseInactive
}

func (s ActivationState) String() string {
	if s.Phase == PhaseActive {
		return string(s.Phase) + "(" + string(s.Mode) + ")"
	}
	return string(s.Phase)
}
