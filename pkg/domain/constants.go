package domain

const (
	// MaxWindows bounds the number of window slots a sample may declare.
	MaxWindows = 8

	// DefaultWindowTitle is used when a createPlainWindow operation has no title.
	DefaultWindowTitle = "No Title"

	// WindowNamePrefix is followed by the slot index to name created windows.
	WindowNamePrefix = "the-plain-window-"

	// ActionQuit is the reserved subscription action that ends the session.
	ActionQuit = "QUIT"

	// ProtocolName is announced in the startSession handshake.
	ProtocolName = "PURCMC"

	// EventDestroy is sent by the renderer when a window goes away.
	EventDestroy = "destroy"
)

// Operation names understood by the renderer.
const (
	OpStartSession      = "startSession"
	OpCreatePlainWindow = "createPlainWindow"
	OpLoad              = "load"
	OpWriteBegin        = "writeBegin"
	OpWriteMore         = "writeMore"
	OpWriteEnd          = "writeEnd"
	OpDisplace          = "displace"
	OpUpdate            = "update"
	OpErase             = "erase"
	OpClear             = "clear"
)

// Target kinds used in messages and locators.
const (
	TargetSession     = "session"
	TargetWorkspace   = "workspace"
	TargetPlainWindow = "plainwindow"
	TargetDOM         = "dom"
)

// Element kinds used in messages and element locators.
const (
	ElementVoid        = "void"
	ElementHandle      = "handle"
	ElementPlainWindow = "plainwindow" // locator-only, resolved to a handle
)

// DataType describes the payload carried by a message.
type DataType string

const (
	DataVoid  DataType = "void"
	DataText  DataType = "text"
	DataEJSON DataType = "ejson"
)

// StatusOK is the only success return code. Every other code is a failure.
const StatusOK = 200

// IsMutation reports whether name is one of the DOM mutation operations.
func IsMutation(name string) bool {
	switch name {
	case OpDisplace, OpUpdate, OpErase, OpClear:
		return true
	}
	return false
}
