// Package lazeerrors defines the typed error kinds laze surfaces, rather
// than masking them, per spec.md §7: ParseError, InvalidArgument,
// ModuleNotAvailable, ConflictAtPath and DownloadError. Each wraps an
// optional underlying cause for errors.Is/errors.As chaining, in the
// style of the teacher's internal/errors package.
package lazeerrors

import "fmt"

// ParseError reports a malformed declaration tree: a missing file, a
// template clause inside an included document, or a schema violation.
type ParseError struct {
	Msg        string
	Underlying error
}

func NewParseError(msg string, underlying error) *ParseError {
	return &ParseError{Msg: msg, Underlying: underlying}
}

func (e *ParseError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Underlying)
	}
	return e.Msg
}

func (e *ParseError) Unwrap() error { return e.Underlying }

// InvalidArgument reports a well-formed but semantically invalid
// declaration: a nameless module, a duplicate download target, or an
// ambiguous extension registration. Unknown or mistyped declaration
// fields are reported by the loader as ParseError.
type InvalidArgument struct {
	Msg string
}

func NewInvalidArgument(format string, args ...any) *InvalidArgument {
	return &InvalidArgument{Msg: fmt.Sprintf(format, args...)}
}

func (e *InvalidArgument) Error() string { return e.Msg }

// ModuleNotAvailable is raised by the dependency solver when a hard
// dependency cannot be satisfied in the current builder context
// (spec.md §4.5, §7). Suggestion, when non-empty, names the closest
// registered module name by edit distance (SPEC_FULL.md §10.2).
type ModuleNotAvailable struct {
	Context    string
	Requester  string
	Missing    string
	Suggestion string
}

func (e *ModuleNotAvailable) Error() string {
	msg := fmt.Sprintf("%s in %s depends on unavailable module %q", e.Requester, e.Context, e.Missing)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

// ConflictAtPath describes a deep_merge conflict: two leaf values at path
// disagree and override was not requested. values.DeepMerge and
// values.MergeVarMaps report such conflicts as values.ConflictError, not
// as this type.
type ConflictAtPath struct {
	Path string
	Lhs  any
	Rhs  any
}

func (e *ConflictAtPath) Error() string {
	return fmt.Sprintf("conflict at %s (%v, %v)", e.Path, e.Lhs, e.Rhs)
}

// DownloadError reports a failed external-source acquisition (spec.md
// §4.2 import:, §4.9's git-backed implementation).
type DownloadError struct {
	Source     string
	Target     string
	Underlying error
}

func NewDownloadError(source, target string, underlying error) *DownloadError {
	return &DownloadError{Source: source, Target: target, Underlying: underlying}
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("failed to acquire %q into %q: %v", e.Source, e.Target, e.Underlying)
}

func (e *DownloadError) Unwrap() error { return e.Underlying }
