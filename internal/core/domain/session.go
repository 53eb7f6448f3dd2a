package domain

import "time"

// State is the position of a session in the provisioning sequence.
type State string

const (
	StateIdle                State = "idle"
	StateCheckingRuntime     State = "checking_runtime"
	StateCheckingLocalServer State = "checking_local_server"
	StateProvisioning        State = "provisioning"
	StateTunneling           State = "tunneling"
	StateDone                State = "done"
	StateFailed              State = "failed"
)

// Terminal reports whether no further step will run.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// Sequence steps, in execution order.
const (
	StepRuntime     = 1
	StepLocalServer = 2
	StepContainer   = 3
	StepTunnel      = 4
	StepComplete    = 5
)

// Session is the single in-process run that exposes one local URL.
type Session struct {
	ID          string    `json:"id"`
	LocalURL    string    `json:"local_url"`
	ContainerID string    `json:"container_id,omitempty"` // empty when no container is known to run
	TunnelURL   string    `json:"tunnel_url,omitempty"`   // empty when no tunnel is known to be open
	Step        int       `json:"step"`
	State       State     `json:"state"`
	StartedAt   time.Time `json:"started_at"`
}

// Active reports whether a new session must not replace this one.
func (s *Session) Active() bool {
	if s == nil {
		return false
	}
	return !s.State.Terminal() || s.ContainerID != "" || s.TunnelURL != ""
}
