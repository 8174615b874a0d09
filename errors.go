package linguist

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownLocale is returned by the plural rule table for locales it
	// has no rule for.
	ErrUnknownLocale = errors.New("unknown locale")
	// ErrUnknownFormat is returned by LoadFile for unsupported file types.
	ErrUnknownFormat = errors.New("unknown catalog format")
)

// ParseError reports a structurally malformed catalog. Offset is the byte
// offset in the input at which the problem was detected.
type ParseError struct {
	Format string
	Offset int64
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	msg := e.Msg
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg += ": " + e.Err.Error()
		}
	}
	return fmt.Sprintf("cannot parse %s catalog at offset %d: %s", e.Format, e.Offset, msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// WarningKind classifies recoverable problems found while loading a catalog.
type WarningKind int

const (
	// SchemaWarning flags an unknown attribute, element or status value.
	SchemaWarning WarningKind = iota
	// PluralFormMismatch flags a plural translation whose form count
	// differs from the locale's rule. Lookups clamp the form index.
	PluralFormMismatch
	// UnknownLocale flags a catalog whose language has no plural rule.
	// Plural lookups use form 0.
	UnknownLocale
	// DuplicateContext flags a context declared more than once. The
	// declarations are merged.
	DuplicateContext
)

func (k WarningKind) String() string {
	switch k {
	case SchemaWarning:
		return "schema"
	case PluralFormMismatch:
		return "plural-form-mismatch"
	case UnknownLocale:
		return "unknown-locale"
	case DuplicateContext:
		return "duplicate-context"
	}
	return fmt.Sprintf("WarningKind(%d)", int(k))
}

// Warning is a recovered load-time problem.
type Warning struct {
	Kind    WarningKind
	Context string
	Source  string
	Msg     string
}

func (w Warning) String() string {
	switch {
	case w.Source != "":
		return fmt.Sprintf("%s: %s (context %q, source %q)", w.Kind, w.Msg, w.Context, w.Source)
	case w.Context != "":
		return fmt.Sprintf("%s: %s (context %q)", w.Kind, w.Msg, w.Context)
	}
	return fmt.Sprintf("%s: %s", w.Kind, w.Msg)
}
