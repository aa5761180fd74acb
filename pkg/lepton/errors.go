package lepton

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// ErrorKind tags the seven failure modes spec.md §7 enumerates, plus
// two implementation extensions: ErrRecursionLimit, raised by the
// explicit depth guard spec.md §5 asks hosts to add for adversarial
// input, and ErrInternal, raised only if eval/infer/readBack/unify
// encounter a Term/Value/Neutral/Pattern variant they don't recognize
// — a defect in whatever produced the tree, never a reachable outcome
// of a well-formed one.
type ErrorKind int

const (
	ErrTypeMismatch ErrorKind = iota
	ErrNotAFunction
	ErrNotARecord
	ErrNotAnInductive
	ErrMissingField
	ErrUnboundVariable
	ErrOverloadNoMatch
	ErrOverloadAmbiguous
	ErrOverloadedDefinitionAmbiguous
	ErrNonExhaustiveMatch
	ErrClauseTypeMismatch
	ErrRecursionLimit
	ErrInternal
)

func (k ErrorKind) String() string {
	switch k {
	case ErrTypeMismatch:
		return "type-mismatch"
	case ErrNotAFunction:
		return "not-a-function"
	case ErrNotARecord:
		return "not-a-record"
	case ErrNotAnInductive:
		return "not-an-inductive"
	case ErrMissingField:
		return "missing-field"
	case ErrUnboundVariable:
		return "unbound-variable"
	case ErrOverloadNoMatch:
		return "overload-no-match"
	case ErrOverloadAmbiguous:
		return "overload-ambiguous"
	case ErrOverloadedDefinitionAmbiguous:
		return "overloaded-definition-ambiguous"
	case ErrNonExhaustiveMatch:
		return "non-exhaustive-match"
	case ErrClauseTypeMismatch:
		return "clause-type-mismatch"
	case ErrRecursionLimit:
		return "recursion-limit"
	case ErrInternal:
		return "internal"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Span is the opaque span handle spec.md §6 describes: "Errors may
// carry an opaque span handle for diagnostics; the core treats it as
// an identity to thread through, never to format." The core never
// constructs or inspects a Span's contents — that is the elaborator's
// job — it only carries whatever the caller attaches through to the
// error that escapes.
type Span struct {
	Handle any
}

// CoreError is the one error type every exported lepton operation
// returns. It tags a Kind from spec.md §7 and optionally carries a
// Span attached by the caller via WithSpan.
type CoreError struct {
	Kind    ErrorKind
	Message string
	Span    *Span
	cause   error
}

func newErr(kind ErrorKind, span *Span, format string, args ...any) *CoreError {
	msg := fmt.Sprintf(format, args...)
	return &CoreError{
		Kind:    kind,
		Message: msg,
		Span:    span,
		cause:   pkgerrors.New(msg),
	}
}

func (e *CoreError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *CoreError) Unwrap() error {
	return e.cause
}

// WithSpan attaches span to err if err is a *CoreError without one
// already. It is a no-op otherwise, so callers can wrap liberally at
// each level of recursive descent without overwriting a span set
// closer to the actual failure.
func WithSpan(err error, span *Span) error {
	var ce *CoreError
	if errors.As(err, &ce) && ce.Span == nil {
		cp := *ce
		cp.Span = span
		return &cp
	}
	return err
}
