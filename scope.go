package fluent

// fatalAbort is panicked by countPlaceable when a Pattern's resolved
// placeable count exceeds MaxPlaceables. Bundle.FormatPattern recovers it
// at the top of the call stack; it never escapes the package. This mirrors
// how encoding/json unwinds deep recursion internally without threading an
// error return through every call frame.
type fatalAbort struct {
	err *ResolverError
}

// MaxPlaceables bounds the number of placeables resolved within a single
// FormatPattern call, across all message/term expansion. Exceeding it is
// fatal and aborts the whole call with a TooManyPlaceables error.
const MaxPlaceables = 100

// scopeState is the mutable state shared by a Scope and every clone
// produced from it via CloneForTermReference: the error sink, the cycle
// detector, and the resolver-wide placeable counter.
type scopeState struct {
	errors         []error
	dirty          map[*Pattern]struct{}
	placeableCount int
}

// Scope carries everything the resolver needs to evaluate one
// FormatPattern call: the owning Bundle, the caller-supplied variables,
// and (inside a term reference) the term's own argument frame.
//
// A Scope is not safe for concurrent use; Bundle.FormatPattern creates one
// per call.
type Scope struct {
	bundle *Bundle
	state  *scopeState

	args                map[string]any
	termArgs            map[string]Value
	insideTermReference bool

	UseIsolating bool
}

// newScope constructs the top-level Scope for a FormatPattern call.
func newScope(bundle *Bundle, args map[string]any) *Scope {
	return &Scope{
		bundle: bundle,
		state: &scopeState{
			dirty: make(map[*Pattern]struct{}),
		},
		args:         args,
		UseIsolating: bundle.useIsolating,
	}
}

// CloneForTermReference returns a Scope for resolving a term's pattern: it
// shares this Scope's bundle, error sink, cycle detector, and placeable
// budget, but installs a fresh variable frame built from the term
// reference's named arguments. The caller's $variables are not visible
// inside the term.
func (s *Scope) CloneForTermReference(params map[string]Value) *Scope {
	return &Scope{
		bundle:              s.bundle,
		state:               s.state,
		args:                nil,
		termArgs:            params,
		insideTermReference: true,
		UseIsolating:        s.UseIsolating,
	}
}

// InsideTermReference reports whether this Scope is a term's argument
// frame rather than the top-level caller frame.
func (s *Scope) InsideTermReference() bool {
	return s.insideTermReference
}

// termArg looks up name in the term argument frame. Only meaningful when
// InsideTermReference is true.
func (s *Scope) termArg(name string) (Value, bool) {
	v, ok := s.termArgs[name]
	return v, ok
}

// callerArg looks up name among the caller-supplied variables, returning
// the raw value and whether it was present at all; the resolver converts
// it to a Value and reports KindUnsupportedVariableType separately when
// the conversion fails.
func (s *Scope) callerArg(name string) (any, bool) {
	if s.args == nil {
		return nil, false
	}
	raw, ok := s.args[name]
	return raw, ok
}

// ReportError appends a non-fatal resolution error to the shared sink.
// Resolution continues after a reported error; the caller substitutes a
// placeholder string for the failed expression.
func (s *Scope) ReportError(err error) {
	s.state.errors = append(s.state.errors, err)
}

// Errors returns every non-fatal error collected during resolution so far.
func (s *Scope) Errors() []error {
	return s.state.errors
}

// Enter marks pattern as in-flight for cycle detection, reporting and
// returning false if it is already in-flight (a cyclic reference). The
// caller must call Exit (typically via defer) once resolution of pattern
// returns, on every exit path including fatal aborts.
func (s *Scope) Enter(pattern *Pattern) bool {
	if _, ok := s.state.dirty[pattern]; ok {
		s.ReportError(newResolverError(KindCyclicReference, "cyclic reference detected"))
		return false
	}
	s.state.dirty[pattern] = struct{}{}
	return true
}

// Exit clears pattern's in-flight marker.
func (s *Scope) Exit(pattern *Pattern) {
	delete(s.state.dirty, pattern)
}

// countPlaceable increments the resolver-wide placeable counter, aborting
// the whole FormatPattern call via fatalAbort once MaxPlaceables is
// exceeded.
func (s *Scope) countPlaceable() {
	s.state.placeableCount++
	if s.state.placeableCount > MaxPlaceables {
		panic(fatalAbort{err: wrapResolverError(KindTooManyPlaceables, "resolution exceeded the placeable limit", ErrTooManyPlaceables)})
	}
}

// formatNumber renders v for the Bundle's first locale, through a
// message.Printer memoized per locale.
func (s *Scope) formatNumber(v NumberValue) string {
	return formatNumberValue(s.bundle, v)
}

// formatDateTime renders v with the fixed per-style layouts of
// formatDateTimeValue; the Bundle's locales are not consulted and nothing
// is memoized.
func (s *Scope) formatDateTime(v DateTimeValue) string {
	return formatDateTimeValue(s.bundle, v)
}

// MemoizeIntlObject caches the result of build() under (class, key),
// reusing the Bundle's formatter cache. It mirrors Intl object memoization
// in the reference runtime: constructing a NumberFormat/DateTimeFormat is
// comparatively expensive, so Bundles that format the same options
// repeatedly should not pay for it twice.
func (s *Scope) MemoizeIntlObject(class, key string, build func() any) any {
	return s.bundle.memoize(class, key, build)
}
