package catalog

import "fmt"

type OutcomeKind int

const (
	OutcomeOK OutcomeKind = iota
	// OutcomeUnreachable covers transport failures and unexpected statuses.
	OutcomeUnreachable
	// OutcomeNotFound is an authoritative negative answer.
	OutcomeNotFound
	// OutcomeRejected means the store refused a write (validation, conflict).
	OutcomeRejected
	// OutcomeDenied means the privileged credential was missing or refused.
	OutcomeDenied
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeOK:
		return "ok"
	case OutcomeUnreachable:
		return "unreachable"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeRejected:
		return "rejected"
	case OutcomeDenied:
		return "denied"
	default:
		return fmt.Sprintf("outcome(%d)", int(k))
	}
}

// Outcome is the result of one call to the record store.
type Outcome[T any] struct {
	Kind   OutcomeKind
	Value  T
	Reason string
	Err    error
}

func Ok[T any](v T) Outcome[T] {
	return Outcome[T]{Kind: OutcomeOK, Value: v}
}

func Unreachable[T any](err error) Outcome[T] {
	return Outcome[T]{Kind: OutcomeUnreachable, Err: err}
}

func NotFound[T any](reason string) Outcome[T] {
	return Outcome[T]{Kind: OutcomeNotFound, Reason: reason}
}

func Rejected[T any](reason string) Outcome[T] {
	return Outcome[T]{Kind: OutcomeRejected, Reason: reason}
}

func Denied[T any](reason string) Outcome[T] {
	return Outcome[T]{Kind: OutcomeDenied, Reason: reason}
}
