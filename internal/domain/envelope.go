package domain

const (
	envelopeVersion = "v2"
	eventSend       = "send"
	bubbleTypeText  = "text"
)

// Envelope is the request payload for the CLOVA Chatbot custom API. The
// field order matches the wire layout the provider documents; the struct is
// marshaled exactly once per request so the signed bytes and the transmitted
// bytes are the same slice.
type Envelope struct {
	Version   string   `json:"version"`
	UserID    string   `json:"userId"`
	Timestamp int64    `json:"timestamp"`
	Bubbles   []Bubble `json:"bubbles"`
	Event     string   `json:"event"`
}

// Bubble is a single content unit in a chatbot exchange, in either direction.
type Bubble struct {
	Type string     `json:"type"`
	Data BubbleData `json:"data"`
}

type BubbleData struct {
	Description string `json:"description"`
}

// NewEnvelope wraps one user message in a send event. userID identifies the
// conversation to the upstream; timestampMillis is wall-clock milliseconds
// since epoch.
func NewEnvelope(message, userID string, timestampMillis int64) Envelope {
	return Envelope{
		Version:   envelopeVersion,
		UserID:    userID,
		Timestamp: timestampMillis,
		Bubbles: []Bubble{
			{Type: bubbleTypeText, Data: BubbleData{Description: message}},
		},
		Event: eventSend,
	}
}

// ChatbotResponse is the minimal response shape returned by the upstream.
type ChatbotResponse struct {
	Version string   `json:"version,omitempty"`
	Bubbles []Bubble `json:"bubbles"`
}

// ReplyText returns the text of the first bubble, or FallbackReply when the
// upstream answered without any bubbles. It never fails: a malformed reply
// degrades to the fallback rather than an error.
func (r ChatbotResponse) ReplyText() string {
	if len(r.Bubbles) == 0 {
		return FallbackReply
	}
	return r.Bubbles[0].Data.Description
}
