package domain

// FailureKind is the coarse classification of a failed submit attempt.
type FailureKind int

const (
	// KindNone marks a successful attempt.
	KindNone FailureKind = iota
	KindHTTPError
	KindTimeout
	KindConnectionError
	KindOther
)

// String returns a human-readable representation of the kind.
func (k FailureKind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindHTTPError:
		return "HTTPError"
	case KindTimeout:
		return "Timeout"
	case KindConnectionError:
		return "ConnectionError"
	case KindOther:
		return "Other"
	default:
		return "Unknown"
	}
}

// Outcome is the result of one submit attempt.
// It is consumed immediately by the batch runner and never persisted itself.
type Outcome struct {
	Kind    FailureKind
	Message string
}

// Success returns a successful outcome.
func Success() Outcome {
	return Outcome{Kind: KindNone}
}

// Failure returns a failed outcome of the given kind.
// An empty message is replaced by the kind name so the ledger never stores a blank reason.
func Failure(kind FailureKind, message string) Outcome {
	if kind == KindNone {
		kind = KindOther
	}
	if message == "" {
		message = kind.String()
	}
	return Outcome{Kind: kind, Message: message}
}

// OK reports whether the attempt succeeded.
func (o Outcome) OK() bool {
	return o.Kind == KindNone
}
