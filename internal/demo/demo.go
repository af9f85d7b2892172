// Package demo registers a small class hierarchy used by the command line
// tools and as a test fixture:
//
//	Object
//	├── View
//	└── Greeter
//	    └── LoudGreeter
package demo

import (
	"fmt"
	"strings"

	"github.com/mj1618/uiruntime/internal/dispatch"
	"github.com/mj1618/uiruntime/internal/log"
	"github.com/mj1618/uiruntime/internal/weakref"
)

// Class names.
const (
	Object      = "Object"
	View        = "View"
	Greeter     = "Greeter"
	LoudGreeter = "LoudGreeter"
)

// Signature encodings.
const (
	typesString   = "@:"
	typesStringAt = "@:@"
	typesVoid     = "v:"
)

// Scheduler defers work, typically onto the main-thread loop. A nil Scheduler
// runs work immediately.
type Scheduler func(work func()) error

func (s Scheduler) schedule(work func()) error {
	if s == nil {
		work()
		return nil
	}
	return s(work)
}

func name(self any) string {
	switch s := self.(type) {
	case *dispatch.Object:
		if v, ok := s.Value("name"); ok {
			if n, ok := v.(string); ok && n != "" {
				return n
			}
		}
		return "world"
	case *dispatch.Class:
		return s.Name()
	}
	return "?"
}

// Register defines the demo classes in t. schedule backs View's
// setNeedsLayout.
func Register(t *dispatch.Table, schedule Scheduler) error {
	object, err := t.DefineClass(Object, nil)
	if err != nil {
		return err
	}
	object.AddMethod(dispatch.ScopeInstance, "description", func(self any, _ ...any) any {
		return fmt.Sprintf("<%s>", self.(*dispatch.Object).Class().Name())
	}, typesString)
	object.AddMethod(dispatch.ScopeType, "className", func(self any, _ ...any) any {
		return self.(*dispatch.Class).Name()
	}, typesString)

	view, err := t.DefineClass(View, object)
	if err != nil {
		return err
	}
	view.AddMethod(dispatch.ScopeInstance, "layoutSubviews", func(self any, _ ...any) any {
		o := self.(*dispatch.Object)
		n, _ := o.Value("layouts")
		count, _ := n.(int)
		o.SetValue("layouts", count+1)
		return nil
	}, typesVoid)
	view.AddMethod(dispatch.ScopeInstance, "tracedLayoutSubviews", func(self any, _ ...any) any {
		o := self.(*dispatch.Object)
		// Without the exchange the forward below lands back here; the
		// marker turns that nested call into a no-op.
		if busy, _ := o.Value("tracing"); busy == true {
			return nil
		}
		n, _ := o.Value("traced")
		count, _ := n.(int)
		o.SetValue("traced", count+1)

		o.SetValue("tracing", true)
		defer o.SetValue("tracing", false)
		// Reaches the original layoutSubviews once interposed.
		_, _ = o.Send("tracedLayoutSubviews")
		return nil
	}, typesVoid)
	// setNeedsLayout defers one layout pass. The pending pass holds the view
	// weakly and is skipped if the view is gone by the time it runs.
	view.AddMethod(dispatch.ScopeInstance, "setNeedsLayout", func(self any, _ ...any) any {
		o := self.(*dispatch.Object)
		pass := weakref.Guard(weakref.Weakify("view", o), func(v *dispatch.Object) {
			log.Trace("deferred layout", "class", v.Class().Name())
			_, _ = v.Send("layoutSubviews")
		})
		if err := schedule.schedule(pass); err != nil {
			return err.Error()
		}
		return nil
	}, typesVoid)

	greeter, err := t.DefineClass(Greeter, object)
	if err != nil {
		return err
	}
	greeter.AddMethod(dispatch.ScopeInstance, "sayHi", func(self any, _ ...any) any {
		return "Hi, " + name(self)
	}, typesString)
	greeter.AddMethod(dispatch.ScopeInstance, "sayHiSwizzled", func(self any, _ ...any) any {
		return "Swizzled hi, " + name(self)
	}, typesString)
	greeter.AddMethod(dispatch.ScopeInstance, "sayHiTo", func(self any, args ...any) any {
		if len(args) == 0 {
			return "Hi"
		}
		return fmt.Sprintf("Hi, %v", args[0])
	}, typesStringAt)
	greeter.AddMethod(dispatch.ScopeType, "greeting", func(self any, _ ...any) any {
		return "Hello from " + name(self)
	}, typesString)
	greeter.AddMethod(dispatch.ScopeType, "greetingSwizzled", func(self any, _ ...any) any {
		return "Swizzled hello from " + name(self)
	}, typesString)

	loud, err := t.DefineClass(LoudGreeter, greeter)
	if err != nil {
		return err
	}
	loud.AddMethod(dispatch.ScopeInstance, "sayHiLoud", func(self any, _ ...any) any {
		return strings.ToUpper("Hi, "+name(self)) + "!"
	}, typesString)

	return nil
}

// NewTable returns a table with the demo classes registered.
func NewTable(schedule Scheduler, opts ...dispatch.Option) (*dispatch.Table, error) {
	t := dispatch.NewTable(opts...)
	if err := Register(t, schedule); err != nil {
		return nil, err
	}
	return t, nil
}
