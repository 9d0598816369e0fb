package markup

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every error returned by this package matches one of them
// with errors.Is
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnhandledNodeType = errors.New("unhandled node type")
	ErrInvalidOperation  = errors.New("invalid operation for node type")
	ErrMissingParent     = errors.New("missing parent")
	ErrNotFound          = errors.New("not found")
	ErrMalformedWrapper  = errors.New("malformed wrapper")
)

// Mishap is the structured error raised by the utilities. It carries
// enough context to reproduce a failure without re-running the program
type Mishap struct {
	Kind     error  // one of the Err* sentinels
	Op       string // utility that failed, e.g. "before(element)(fragment)"
	Message  string
	NodeKind Kind   // kind of the offending value, when relevant
	Selector string // selector in play, when relevant
	Context  string // caller supplied context
	Inspect  any    // offending value
	Err      error  // underlying cause
}

func (m *Mishap) Error() string {
	var b strings.Builder
	if m.Op != "" {
		b.WriteString(m.Op)
		b.WriteString(": ")
	}
	b.WriteString(m.Message)
	if m.Selector != "" {
		fmt.Fprintf(&b, " [selector: %q]", m.Selector)
	}
	if m.Context != "" {
		fmt.Fprintf(&b, " [%s]", m.Context)
	}
	if m.Err != nil {
		fmt.Fprintf(&b, ": %v", m.Err)
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As
func (m *Mishap) Unwrap() []error {
	errs := make([]error, 0, 2)
	if m.Kind != nil {
		errs = append(errs, m.Kind)
	}
	if m.Err != nil {
		errs = append(errs, m.Err)
	}
	return errs
}

func mishap(kind error, op, format string, args ...any) *Mishap {
	return &Mishap{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

func (m *Mishap) inspect(v any) *Mishap {
	m.Inspect = v
	m.NodeKind = Classify(v)
	return m
}

func (m *Mishap) wrap(err error) *Mishap {
	m.Err = err
	return m
}

// invalidFor rejects a kind a utility refuses to work on
func invalidFor(op string, v any) error {
	return mishap(ErrInvalidOperation, op, "a %s node can not be used here", Classify(v)).inspect(v)
}
