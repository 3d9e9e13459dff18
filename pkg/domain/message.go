package domain

import "github.com/aretw0/rdrscript/pkg/variant"

// MessageType discriminates the frames exchanged with the renderer.
type MessageType string

const (
	MessageRequest  MessageType = "request"
	MessageResponse MessageType = "response"
	MessageEvent    MessageType = "event"
	MessagePing     MessageType = "ping"
	MessagePong     MessageType = "pong"
)

// ResponseState tells a regular answer apart from a cancelled request.
type ResponseState string

const (
	ResponseAnswered  ResponseState = "answered"
	ResponseCancelled ResponseState = "cancelled"
)

// Message is a single frame on the renderer connection.
// Requests fill Operation, responses fill RetCode and ResultValue,
// events fill Event. Target, element and data fields are shared.
type Message struct {
	Type      MessageType `json:"type"`
	RequestID string      `json:"requestId,omitempty"`

	Target      string `json:"target,omitempty"`
	TargetValue uint64 `json:"targetValue,omitempty"`
	Operation   string `json:"operation,omitempty"`
	Event       string `json:"event,omitempty"`

	ElementType string `json:"elementType,omitempty"`
	Element     string `json:"element,omitempty"`
	Property    string `json:"property,omitempty"`

	State       ResponseState `json:"state,omitempty"`
	RetCode     int           `json:"retCode,omitempty"`
	ResultValue uint64        `json:"resultValue,omitempty"`

	DataType DataType      `json:"dataType,omitempty"`
	Data     variant.Value `json:"data"`
}

// NewRequest builds a request without element or payload.
func NewRequest(target string, targetValue uint64, operation string) *Message {
	return &Message{
		Type:        MessageRequest,
		Target:      target,
		TargetValue: targetValue,
		Operation:   operation,
		ElementType: ElementVoid,
		DataType:    DataVoid,
	}
}

// WithText attaches a text payload.
func (m *Message) WithText(text string) *Message {
	m.DataType = DataText
	m.Data = variant.String(text)
	return m
}

// WithEJSON attaches a structured payload.
func (m *Message) WithEJSON(v variant.Value) *Message {
	m.DataType = DataEJSON
	m.Data = v
	return m
}

// WithElement addresses the request to an element of the target.
func (m *Message) WithElement(elementType, element string) *Message {
	m.ElementType = elementType
	m.Element = element
	return m
}

// Cancelled reports whether the renderer abandoned the request.
func (m *Message) Cancelled() bool {
	return m.State == ResponseCancelled
}

// OK reports whether a response carries the success code.
func (m *Message) OK() bool {
	return m.RetCode == StatusOK
}

// Text returns the payload when it is text.
func (m *Message) Text() (string, bool) {
	if m.DataType != DataText {
		return "", false
	}
	return m.Data.AsString()
}

// DataSize returns the byte length of a text payload, 0 otherwise.
func (m *Message) DataSize() int {
	s, ok := m.Text()
	if !ok {
		return 0
	}
	return len(s)
}
