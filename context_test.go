package zvt

import (
	"context"
	"sync"
	"testing"
)

func TestScopeFromDefaultsWhenUnset(t *testing.T) {
	s := ScopeFrom(context.Background())
	if s.Charset != CharsetDefault {
		t.Errorf("default charset = %v, want CP437", s.Charset)
	}
	if s.Dictionary != ZVTDictionary {
		t.Error("default dictionary should be ZVTDictionary")
	}
}

func TestWithScopeDerivesWithoutMutatingParent(t *testing.T) {
	parent := context.Background()
	child := WithScope(parent, WithCharset(CharsetUTF8))

	if got := ScopeFrom(parent).Charset; got != CharsetDefault {
		t.Errorf("parent charset mutated to %v", got)
	}
	if got := ScopeFrom(child).Charset; got != CharsetUTF8 {
		t.Errorf("child charset = %v, want UTF8", got)
	}
}

func TestWithQuirkFEIGSwitchesDictionary(t *testing.T) {
	ctx := WithScope(context.Background(), WithQuirk(QuirkFEIGCvend))
	s := ScopeFrom(ctx)
	if s.Dictionary != FeigZVTDictionary {
		t.Error("FEIG_CVEND quirk should switch to FeigZVTDictionary")
	}
	if !HasQuirk(ctx, QuirkFEIGCvend) {
		t.Error("HasQuirk should report the quirk as active")
	}
}

func TestWithScopeChainedDerivationsDontLeakSiblings(t *testing.T) {
	base := WithScope(context.Background(), WithQuirk(QuirkFEIGCvend))
	a := WithScope(base, WithCharset(CharsetISO8859_1))
	b := WithScope(base, WithCharset(CharsetUTF8))

	if got := ScopeFrom(a).Charset; got != CharsetISO8859_1 {
		t.Errorf("a charset = %v, want ISO8859_1", got)
	}
	if got := ScopeFrom(b).Charset; got != CharsetUTF8 {
		t.Errorf("b charset = %v, want UTF8", got)
	}
	if !HasQuirk(a, QuirkFEIGCvend) || !HasQuirk(b, QuirkFEIGCvend) {
		t.Error("both derived scopes should inherit the base quirk")
	}
}

// TestScopeIsolationAcrossGoroutines exercises invariant 6: two goroutines
// each carrying their own derived context never observe the other's scope,
// since Scope is an immutable value threaded through context.Context
// rather than any shared mutable state.
func TestScopeIsolationAcrossGoroutines(t *testing.T) {
	var wg sync.WaitGroup
	results := make([]CharacterSet, 2)
	charsets := []CharacterSet{CharsetISO8859_1, CharsetUTF8}

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ctx := WithScope(context.Background(), WithCharset(charsets[i]))
			results[i] = ScopeFrom(ctx).Charset
		}(i)
	}
	wg.Wait()

	for i, want := range charsets {
		if results[i] != want {
			t.Errorf("goroutine %d observed charset %v, want %v", i, results[i], want)
		}
	}
}

func TestRunInScopeRunsWithDerivedContext(t *testing.T) {
	var seen CharacterSet
	err := RunInScope(context.Background(), func(ctx context.Context) error {
		seen = ScopeFrom(ctx).Charset
		return nil
	}, WithCharset(CharsetISO8859_15))
	if err != nil {
		t.Fatalf("RunInScope: %v", err)
	}
	if seen != CharsetISO8859_15 {
		t.Errorf("seen charset = %v, want ISO8859_15", seen)
	}
}
