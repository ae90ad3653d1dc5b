package domain

// RuleError is a typed failure from the Rules Engine, distinct from Go's
// generic error so the app layer can map it to a stable client-facing kind
// without string matching.
type RuleError string

const (
	ErrNoLegalMoves RuleError = "no_legal_moves"
	ErrIllegalMove  RuleError = "illegal_move"
	ErrInvalidState RuleError = "invalid_state"
)

func (e RuleError) Error() string { return string(e) }
