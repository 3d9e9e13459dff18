package domain

// SessionStatus is the coarse lifecycle of a session.
type SessionStatus string

const (
	SessionIdle      SessionStatus = "idle"      // Created, not started
	SessionRunning   SessionStatus = "running"   // Driver loop active
	SessionCompleted SessionStatus = "completed" // Script done, loop ended cleanly
	SessionQuit      SessionStatus = "quit"      // QUIT action or no window alive
	SessionFailed    SessionStatus = "failed"    // Fatal error
)

// WindowSnapshot is a read-only copy of a window slot.
type WindowSnapshot struct {
	Index     int           `json:"index"`
	Name      string        `json:"name"`
	Handle    uint64        `json:"handle"`
	DOMHandle uint64        `json:"dom_handle"`
	Written   int           `json:"written"`
	Total     int           `json:"total"`
	State     TransferState `json:"state"`
}

// SessionSnapshot is a read-only view of a running session.
type SessionSnapshot struct {
	App       string           `json:"app"`
	Runner    string           `json:"runner"`
	Sample    string           `json:"sample"`
	Status    SessionStatus    `json:"status"`
	OpsIssued int              `json:"ops_issued"`
	OpsTotal  int              `json:"ops_total"`
	Pending   int              `json:"pending"`
	Windows   []WindowSnapshot `json:"windows"`
	Error     string           `json:"error,omitempty"`
}
