package dispatch

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mj1618/uiruntime/internal/log"
)

func returns(s string) Imp {
	return func(self any, args ...any) any { return s }
}

func send(t *testing.T, o *Object, sel Selector) any {
	t.Helper()
	v, err := o.Send(sel)
	require.NoError(t, err)
	return v
}

// newGreeterTable builds Base <- Greeter <- LoudGreeter.
func newGreeterTable(t *testing.T, opts ...Option) (*Table, *Class, *Class, *Class) {
	t.Helper()
	opts = append([]Option{WithLogger(log.Discard())}, opts...)
	tbl := NewTable(opts...)
	base := tbl.MustDefineClass("Base", nil)
	base.AddMethod(ScopeInstance, "describe", returns("base"), "@:")

	greeter := tbl.MustDefineClass("Greeter", base)
	greeter.AddMethod(ScopeInstance, "sayHi", returns("hi"), "@:")
	greeter.AddMethod(ScopeInstance, "sayHiSwizzled", returns("HI!"), "@:")
	greeter.AddMethod(ScopeType, "greeting", returns("hello"), "@:")
	greeter.AddMethod(ScopeType, "greetingSwizzled", returns("HELLO"), "@:")

	loud := tbl.MustDefineClass("LoudGreeter", greeter)
	loud.AddMethod(ScopeInstance, "sayHiLoud", returns("HI HI HI"), "@:")
	return tbl, base, greeter, loud
}

func TestInterpose_ExchangesDirectEntries(t *testing.T) {
	tbl, _, greeter, _ := newGreeterTable(t)
	obj := greeter.New()

	require.NoError(t, tbl.Interpose(greeter, "sayHi", "sayHiSwizzled", ScopeInstance))

	assert.Equal(t, "HI!", send(t, obj, "sayHi"))
	assert.Equal(t, "hi", send(t, obj, "sayHiSwizzled"))
	assert.True(t, tbl.Interposed(greeter, "sayHi", "sayHiSwizzled", ScopeInstance))
}

func TestInterpose_InheritedOriginalAddsDirectEntry(t *testing.T) {
	tbl, _, greeter, loud := newGreeterTable(t)

	_, direct := loud.DirectMethod(ScopeInstance, "sayHi")
	require.False(t, direct, "LoudGreeter should only inherit sayHi")

	require.NoError(t, tbl.Interpose(loud, "sayHi", "sayHiLoud", ScopeInstance))

	loudObj := loud.New()
	assert.Equal(t, "HI HI HI", send(t, loudObj, "sayHi"))
	assert.Equal(t, "hi", send(t, loudObj, "sayHiLoud"))

	m, direct := loud.DirectMethod(ScopeInstance, "sayHi")
	require.True(t, direct)
	assert.Same(t, loud, m.Owner())

	// The ancestor keeps its own binding.
	assert.Equal(t, "hi", send(t, greeter.New(), "sayHi"))
}

func TestInterpose_InheritedReplacementLeavesAncestorIntact(t *testing.T) {
	tbl, base, greeter, _ := newGreeterTable(t)
	greeter.AddMethod(ScopeInstance, "describeFancy", returns("fancy"), "@:")
	// Sub owns describe directly but only inherits describeFancy, so the
	// exchange path runs with an inherited replacement.
	sub := tbl.MustDefineClass("Sub", greeter)
	sub.AddMethod(ScopeInstance, "describe", returns("sub"), "@:")

	require.NoError(t, tbl.Interpose(sub, "describe", "describeFancy", ScopeInstance))

	obj := sub.New()
	assert.Equal(t, "fancy", send(t, obj, "describe"))
	assert.Equal(t, "sub", send(t, obj, "describeFancy"))

	assert.Equal(t, "fancy", send(t, greeter.New(), "describeFancy"))
	assert.Equal(t, "base", send(t, base.New(), "describe"))
}

func TestInterpose_TwiceRestores(t *testing.T) {
	for _, path := range []string{"exchange", "add"} {
		t.Run(path, func(t *testing.T) {
			tbl, _, greeter, loud := newGreeterTable(t)
			cls, orig, repl := greeter, Selector("sayHi"), Selector("sayHiSwizzled")
			if path == "add" {
				cls, repl = loud, "sayHiLoud"
			}
			obj := cls.New()
			wantOrig := send(t, obj, orig)
			wantRepl := send(t, obj, repl)

			require.NoError(t, tbl.Interpose(cls, orig, repl, ScopeInstance))
			require.NoError(t, tbl.Interpose(cls, orig, repl, ScopeInstance))

			assert.Equal(t, wantOrig, send(t, obj, orig))
			assert.Equal(t, wantRepl, send(t, obj, repl))
			assert.False(t, tbl.Interposed(cls, orig, repl, ScopeInstance))
		})
	}
}

func TestInterpose_ReversedPairCountsAsRepeat(t *testing.T) {
	tbl, _, greeter, _ := newGreeterTable(t, WithRepeatPolicy(RepeatReject))

	require.NoError(t, tbl.Interpose(greeter, "sayHi", "sayHiSwizzled", ScopeInstance))
	err := tbl.Interpose(greeter, "sayHiSwizzled", "sayHi", ScopeInstance)
	assert.ErrorIs(t, err, ErrAlreadyInterposed)
}

func TestInterpose_RejectPolicy(t *testing.T) {
	tbl, _, greeter, _ := newGreeterTable(t, WithRepeatPolicy(RepeatReject))
	obj := greeter.New()

	require.NoError(t, tbl.Interpose(greeter, "sayHi", "sayHiSwizzled", ScopeInstance))
	err := tbl.Interpose(greeter, "sayHi", "sayHiSwizzled", ScopeInstance)
	require.ErrorIs(t, err, ErrAlreadyInterposed)

	// Still patched.
	assert.Equal(t, "HI!", send(t, obj, "sayHi"))
	assert.Equal(t, "hi", send(t, obj, "sayHiSwizzled"))
}

func TestInterpose_TypeScope(t *testing.T) {
	tbl, _, greeter, loud := newGreeterTable(t)

	require.NoError(t, tbl.Interpose(greeter, "greeting", "greetingSwizzled", ScopeType))

	v, err := greeter.Send("greeting")
	require.NoError(t, err)
	assert.Equal(t, "HELLO", v)

	v, err = loud.Send("greetingSwizzled")
	require.NoError(t, err)
	assert.Equal(t, "hello", v, "subclasses see the patched type-level table")

	// Instance table is untouched.
	_, ok := greeter.Method(ScopeInstance, "greeting")
	assert.False(t, ok)
}

func TestInterpose_ResolutionError(t *testing.T) {
	tbl, _, greeter, _ := newGreeterTable(t)
	obj := greeter.New()

	tests := []struct {
		name       string
		orig, repl Selector
		scope      Scope
		missing    Selector
	}{
		{"missing original", "nope", "sayHiSwizzled", ScopeInstance, "nope"},
		{"missing replacement", "sayHi", "nope", ScopeInstance, "nope"},
		{"wrong scope", "sayHi", "sayHiSwizzled", ScopeType, "sayHi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tbl.Interpose(greeter, tt.orig, tt.repl, tt.scope)
			require.ErrorIs(t, err, ErrResolution)

			var re *ResolutionError
			require.True(t, errors.As(err, &re))
			assert.Equal(t, "Greeter", re.Class)
			assert.Equal(t, tt.missing, re.Selector)

			// Nothing changed.
			assert.Equal(t, "hi", send(t, obj, "sayHi"))
			assert.Equal(t, "HI!", send(t, obj, "sayHiSwizzled"))
		})
	}
}

func TestInterpose_SignatureMismatch(t *testing.T) {
	tbl, _, greeter, _ := newGreeterTable(t)
	greeter.AddMethod(ScopeInstance, "sayHiTo", func(self any, args ...any) any { return "hi " + args[0].(string) }, "@:@")

	err := tbl.Interpose(greeter, "sayHi", "sayHiTo", ScopeInstance)
	var se *SignatureError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "@:", se.Want)
	assert.Equal(t, "@:@", se.Got)
}

func TestInterpose_InvalidArguments(t *testing.T) {
	tbl, _, greeter, _ := newGreeterTable(t)

	assert.ErrorIs(t, tbl.Interpose(greeter, "sayHi", "sayHi", ScopeInstance), ErrSameSelector)
	assert.ErrorIs(t, tbl.Interpose(greeter, "sayHi", "sayHiSwizzled", Scope(7)), ErrInvalidScope)
	assert.Error(t, tbl.Interpose(nil, "sayHi", "sayHiSwizzled", ScopeInstance))

	other := NewTable(WithLogger(log.Discard()))
	assert.Error(t, other.Interpose(greeter, "sayHi", "sayHiSwizzled", ScopeInstance))

	assert.Error(t, tbl.InterposeByName("Missing", "sayHi", "sayHiSwizzled", ScopeInstance))
}

func TestInterpose_ReplacementCanCallOriginal(t *testing.T) {
	tbl, _, greeter, _ := newGreeterTable(t)
	// The classic chaining pattern: the replacement sends its own selector,
	// which after the swap reaches the original implementation.
	greeter.AddMethod(ScopeInstance, "sayHiWrapped", func(self any, args ...any) any {
		inner, _ := self.(*Object).Send("sayHiWrapped")
		return "<" + inner.(string) + ">"
	}, "@:")

	require.NoError(t, tbl.Interpose(greeter, "sayHi", "sayHiWrapped", ScopeInstance))
	assert.Equal(t, "<hi>", send(t, greeter.New(), "sayHi"))
}

func TestInterpose_ConcurrentDistinctPairs(t *testing.T) {
	tbl := NewTable(WithLogger(log.Discard()))
	root := tbl.MustDefineClass("Root", nil)
	const n = 32
	classes := make([]*Class, n)
	for i := range classes {
		c := tbl.MustDefineClass(string(rune('A'+i%26))+string(rune('a'+i/26)), root)
		c.AddMethod(ScopeInstance, "a", returns("a"), "")
		c.AddMethod(ScopeInstance, "b", returns("b"), "")
		classes[i] = c
	}

	var wg sync.WaitGroup
	for _, c := range classes {
		wg.Add(1)
		go func(c *Class) {
			defer wg.Done()
			if err := tbl.Interpose(c, "a", "b", ScopeInstance); err != nil {
				t.Error(err)
			}
			_, _ = c.New().Send("a")
		}(c)
	}
	wg.Wait()

	for _, c := range classes {
		assert.Equal(t, "b", send(t, c.New(), "a"), c.Name())
	}
}

func TestInterpose_AddPathCarriesUntypedSignature(t *testing.T) {
	tbl, base, _, _ := newGreeterTable(t)
	base.AddMethod(ScopeInstance, "untyped", returns("untyped"), "")
	sub := tbl.MustDefineClass("Sub", base)
	sub.AddMethod(ScopeInstance, "typed", returns("typed"), "@:")

	require.NoError(t, tbl.Interpose(sub, "untyped", "typed", ScopeInstance))

	orig, ok := sub.DirectMethod(ScopeInstance, "untyped")
	require.True(t, ok)
	assert.Equal(t, "@:", orig.Types())
	repl, ok := sub.DirectMethod(ScopeInstance, "typed")
	require.True(t, ok)
	assert.Equal(t, "", repl.Types())
	assert.Equal(t, "untyped", send(t, sub.New(), "typed"))
}
