package port

// Notifier pushes named events over the realtime channel. Delivery is
// best-effort: an absent or dead recipient is never an error and a slow one
// never blocks the caller.
type Notifier interface {
	// Notify delivers the event to the one live connection registered for
	// participantID, if any.
	Notify(participantID, event string, payload any)

	// Broadcast delivers the event to every connection registered at call
	// time.
	Broadcast(event string, payload any)
}
