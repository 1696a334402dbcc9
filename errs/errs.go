// Package errs defines the flat error taxonomy shared by every package in
// this module: codec, compress, diff, chunkdiff, fwpkg and incremental all
// report failures through these sentinels, wrapped with path/field context.
package errs

import (
	"errors"
	"fmt"
)

// Kind identifies one of the fixed error categories a build operation can
// fail with. There is no nesting: a failure is always exactly one Kind.
type Kind uint8

const (
	// KindIo covers any filesystem read/write/stat failure.
	KindIo Kind = iota
	// KindBadMagic covers a fixed ASCII tag mismatch at parse time.
	KindBadMagic
	// KindTruncated covers fewer bytes than a fixed-width structure requires.
	KindTruncated
	// KindUnsupportedVersion covers a version field outside the accepted set.
	KindUnsupportedVersion
	// KindInconsistentHeader covers a header_length inconsistent with descriptor-count arithmetic.
	KindInconsistentHeader
	// KindIdenticalInputs covers from == to bytewise in a context where that makes no sense.
	KindIdenticalInputs
	// KindMissingComponent covers a tag present in a descriptor list but absent from a prior package.
	KindMissingComponent
	// KindExternalFailure covers a wrapped failure from the compression or diff adapter.
	KindExternalFailure
	// KindInvalidConfig covers invalid configuration, e.g. chunk_size == 0.
	KindInvalidConfig
)

func (k Kind) String() string {
	switch k {
	case KindIo:
		return "Io"
	case KindBadMagic:
		return "BadMagic"
	case KindTruncated:
		return "Truncated"
	case KindUnsupportedVersion:
		return "UnsupportedVersion"
	case KindInconsistentHeader:
		return "InconsistentHeader"
	case KindIdenticalInputs:
		return "IdenticalInputs"
	case KindMissingComponent:
		return "MissingComponent"
	case KindExternalFailure:
		return "ExternalFailure"
	case KindInvalidConfig:
		return "InvalidConfig"
	default:
		return "Unknown"
	}
}

// Sentinel errors. Use errors.Is against these; Kind() recovers the
// category from any error produced by this module.
var (
	ErrIo                 = errors.New("io failure")
	ErrBadMagic           = errors.New("bad magic")
	ErrTruncated          = errors.New("truncated data")
	ErrUnsupportedVersion = errors.New("unsupported version")
	ErrInconsistentHeader = errors.New("inconsistent header")
	ErrIdenticalInputs    = errors.New("identical inputs")
	ErrMissingComponent   = errors.New("missing component")
	ErrExternalFailure    = errors.New("external failure")
	ErrInvalidConfig      = errors.New("invalid config")
)

var sentinelByKind = map[Kind]error{
	KindIo:                 ErrIo,
	KindBadMagic:           ErrBadMagic,
	KindTruncated:          ErrTruncated,
	KindUnsupportedVersion: ErrUnsupportedVersion,
	KindInconsistentHeader: ErrInconsistentHeader,
	KindIdenticalInputs:    ErrIdenticalInputs,
	KindMissingComponent:   ErrMissingComponent,
	KindExternalFailure:    ErrExternalFailure,
	KindInvalidConfig:      ErrInvalidConfig,
}

// Error is the concrete error value returned by this module. It carries the
// Kind plus enough context (a path or field name) to report "a one-line
// category plus the offending path or field" per the error handling design.
type Error struct {
	Kind    Kind
	Context string // path or field name; may be empty
	Err     error  // wrapped underlying cause, e.g. an *os.PathError; may be nil
}

func (e *Error) Error() string {
	if e.Context == "" && e.Err == nil {
		return e.Kind.String()
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Context)
	}
	if e.Context == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}

	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Context, e.Err)
}

// Unwrap exposes both the wrapped cause and the Kind's sentinel so that
// errors.Is(err, errs.ErrBadMagic) and errors.Is(err, someOSErr) both work.
func (e *Error) Unwrap() []error {
	sentinel := sentinelByKind[e.Kind]
	if e.Err == nil {
		return []error{sentinel}
	}

	return []error{sentinel, e.Err}
}

// New builds an *Error for the given Kind with an optional context string.
func New(kind Kind, context string) *Error {
	return &Error{Kind: kind, Context: context}
}

// Wrap builds an *Error for the given Kind, wrapping an underlying cause.
func Wrap(kind Kind, context string, err error) *Error {
	return &Error{Kind: kind, Context: context, Err: err}
}

// KindOf recovers the Kind from any error produced by this module, the zero
// Kind (KindIo) and false if err does not originate here.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}

	return 0, false
}
