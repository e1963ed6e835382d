package ports

import "context"

// PushMessage is one push notification addressed to a single device.
// Data values are flattened to strings before delivery; Category selects the
// client-side action set (e.g. accept/reject buttons on an order offer).
type PushMessage struct {
	To       string
	Title    string
	Body     string
	Data     map[string]string
	Category string
}

// PushSender is the external push-delivery collaborator. It delivers one
// message to one address; the address format is validated before sending.
// This path always runs after the lifecycle transition has committed, so
// callers log and swallow its errors rather than propagating them.
type PushSender interface {
	// IsValidAddress reports whether the address has the expected format for
	// this delivery channel.
	IsValidAddress(address string) bool

	// Send delivers one message. Returns an error on invalid address or
	// delivery failure.
	Send(ctx context.Context, msg PushMessage) error
}
