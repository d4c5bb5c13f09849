package zvt

import "context"

// VendorQuirk names a terminal-vendor deviation from the base ZVT wire
// format that a Scope can opt into (ecrterm.packets.types.VendorQuirks).
type VendorQuirk string

// QuirkFEIGCvend forces primitive (non-constructed) TLV encoding for the
// private tag range 0xFF00-0xFFFF, as FEIG's cVEND firmware requires.
const QuirkFEIGCvend VendorQuirk = "feig_cvend"

// Scope is the set of ambient parsing/serialization options that would be
// thread-local state in the reference implementation: the active character
// set, the TLV dictionary to resolve tags against, and any vendor quirks.
// It is immutable; derive a new one with WithScope instead of mutating one
// in place.
type Scope struct {
	Charset    CharacterSet
	Dictionary *TLVDictionary
	Quirks     map[VendorQuirk]bool
}

// defaultScope is used whenever a context carries no Scope.
var defaultScope = Scope{
	Charset:    CharsetDefault,
	Dictionary: ZVTDictionary,
}

type scopeKey struct{}

// ScopeFrom returns the Scope carried by ctx, or the library default if
// none was ever attached.
func ScopeFrom(ctx context.Context) Scope {
	if s, ok := ctx.Value(scopeKey{}).(Scope); ok {
		return s
	}
	return defaultScope
}

// ScopeOption mutates a Scope being derived by WithScope.
type ScopeOption func(*Scope)

// WithCharset overrides the active character set.
func WithCharset(cs CharacterSet) ScopeOption {
	return func(s *Scope) { s.Charset = cs }
}

// WithDictionary overrides the active TLV dictionary.
func WithDictionary(d *TLVDictionary) ScopeOption {
	return func(s *Scope) { s.Dictionary = d }
}

// WithQuirk enables a vendor quirk, switching the dictionary to its
// vendor-specific child the way the Python context's FEIG_CVEND flag does
// for the TLV field.
func WithQuirk(q VendorQuirk) ScopeOption {
	return func(s *Scope) {
		if s.Quirks == nil {
			s.Quirks = make(map[VendorQuirk]bool, 1)
		}
		s.Quirks[q] = true
		if q == QuirkFEIGCvend {
			s.Dictionary = FeigZVTDictionary
		}
	}
}

// WithScope derives a child context carrying a Scope built from the
// parent's current Scope plus opts. This is the "enter" half of the
// reference implementation's enter_context contextmanager: the derived
// context is scoped to whatever Go call receives it, and reverting to the
// parent Scope is simply a matter of the caller going back to using ctx
// instead of the derived one — no explicit "leave" is needed.
func WithScope(ctx context.Context, opts ...ScopeOption) context.Context {
	s := ScopeFrom(ctx)
	quirks := make(map[VendorQuirk]bool, len(s.Quirks))
	for k, v := range s.Quirks {
		quirks[k] = v
	}
	s.Quirks = quirks
	for _, opt := range opts {
		opt(&s)
	}
	return context.WithValue(ctx, scopeKey{}, s)
}

// RunInScope derives a scoped context as WithScope does and runs fn with
// it, mirroring the reference implementation's `with enter_context(...):`
// block shape for callers who prefer an explicit push/run/pop.
func RunInScope(ctx context.Context, fn func(context.Context) error, opts ...ScopeOption) error {
	return fn(WithScope(ctx, opts...))
}

// HasQuirk reports whether q is active in ctx's Scope.
func HasQuirk(ctx context.Context, q VendorQuirk) bool {
	return ScopeFrom(ctx).Quirks[q]
}
