package domain

// ParticipantKind tags which shape of record an account resolved to. The
// kind is decided once, at lookup time, instead of sniffing result types
// downstream.
type ParticipantKind string

const (
	ParticipantUser   ParticipantKind = "user"
	ParticipantSeller ParticipantKind = "seller"
)

// Participant is the resolved identity of an authenticated caller: the
// account it came from plus the user or seller record it maps to.
type Participant struct {
	Kind      ParticipantKind `json:"kind"`
	ID        string          `json:"id"`
	AccountID string          `json:"accountId"`
}
