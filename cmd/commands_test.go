package cmd

import (
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/mj1618/uiruntime/internal/dispatch"
)

func TestClassesCommand_YAML(t *testing.T) {
	out, err := execute(t, "", "classes")
	if err != nil {
		t.Fatal(err)
	}
	var list []ClassInfo
	if err := yaml.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("output is not valid YAML: %v\n%s", err, out)
	}
	byName := make(map[string]ClassInfo)
	for _, c := range list {
		byName[c.Name] = c
	}
	loud, ok := byName["LoudGreeter"]
	if !ok {
		t.Fatalf("LoudGreeter missing from %v", list)
	}
	if loud.Superclass != "Greeter" {
		t.Errorf("LoudGreeter superclass = %q, want Greeter", loud.Superclass)
	}
	if len(loud.InstanceMethods) != 1 || loud.InstanceMethods[0].Selector != "sayHiLoud" {
		t.Errorf("LoudGreeter should list only its direct methods, got %+v", loud.InstanceMethods)
	}
	if len(byName["Greeter"].TypeMethods) != 2 {
		t.Errorf("Greeter type methods = %+v", byName["Greeter"].TypeMethods)
	}
}

func TestClassesCommand_Table(t *testing.T) {
	out, err := execute(t, "", "classes", "Greeter", "--format", "table")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "sayHiSwizzled") {
		t.Errorf("table output missing methods:\n%s", out)
	}
	if strings.Contains(out, "LoudGreeter") {
		t.Errorf("table should only list Greeter:\n%s", out)
	}
}

func TestClassesCommand_UnknownClass(t *testing.T) {
	if _, err := execute(t, "", "classes", "Window"); err == nil {
		t.Error("expected error for unknown class")
	}
}

func TestSendCommand(t *testing.T) {
	out, err := execute(t, "", "send", "Greeter", "sayHi", "--name", "Ada", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var result SendResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if !result.OK || result.Result != "Hi, Ada" {
		t.Errorf("result = %+v", result)
	}
}

func TestSendCommand_TypeScope(t *testing.T) {
	out, err := execute(t, "", "send", "LoudGreeter", "greeting", "--type")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Hello from LoudGreeter") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestSendCommand_Args(t *testing.T) {
	out, err := execute(t, "", "send", "Greeter", "sayHiTo", "Grace")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Hi, Grace") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestSendCommand_Unresolved(t *testing.T) {
	out, err := execute(t, "", "send", "Greeter", "fly")
	if err == nil {
		t.Fatal("expected error for unresolved selector")
	}
	if !strings.Contains(out, "ok: false") {
		t.Errorf("result should still be printed:\n%s", out)
	}
}

func TestSendCommand_AppliesConfiguredInterpositions(t *testing.T) {
	cfg := `
interpositions:
  - class: Greeter
    original: sayHi
    replacement: sayHiSwizzled
`
	out, err := execute(t, cfg, "send", "Greeter", "sayHi")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Swizzled hi, world") {
		t.Errorf("configured interposition not applied:\n%s", out)
	}
}

func TestInterposeCommand(t *testing.T) {
	out, err := execute(t, "", "interpose", "Greeter", "sayHi", "sayHiSwizzled")
	if err != nil {
		t.Fatal(err)
	}
	var result InterposeResult
	if err := yaml.Unmarshal([]byte(out), &result); err != nil {
		t.Fatal(err)
	}
	if !result.OK || result.Applied != 1 || !result.Interposed {
		t.Errorf("result = %+v", result)
	}
	want := []Binding{
		{Selector: "sayHi", Before: "Hi, world", After: "Swizzled hi, world"},
		{Selector: "sayHiSwizzled", Before: "Swizzled hi, world", After: "Hi, world"},
	}
	if len(result.Bindings) != 2 || result.Bindings[0] != want[0] || result.Bindings[1] != want[1] {
		t.Errorf("bindings = %+v, want %+v", result.Bindings, want)
	}
}

func TestInterposeCommand_TwiceRestores(t *testing.T) {
	out, err := execute(t, "", "interpose", "LoudGreeter", "sayHi", "sayHiLoud", "--times", "2", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var result InterposeResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatal(err)
	}
	if result.Applied != 2 || result.Interposed {
		t.Errorf("result = %+v", result)
	}
	for _, b := range result.Bindings {
		if b.Before != b.After {
			t.Errorf("%s: before %q != after %q", b.Selector, b.Before, b.After)
		}
	}
}

func TestInterposeCommand_RejectPolicy(t *testing.T) {
	cfg := "dispatch:\n  repeat_policy: reject\n"
	out, err := execute(t, cfg, "interpose", "Greeter", "sayHi", "sayHiSwizzled", "--times", "2")
	if err == nil {
		t.Fatal("expected second application to be rejected")
	}
	if !strings.Contains(out, "applied: 1") {
		t.Errorf("expected one successful application:\n%s", out)
	}
}

func TestInterposeCommand_TypeScope(t *testing.T) {
	out, err := execute(t, "", "interpose", "Greeter", "greeting", "greetingSwizzled", "--type", "--format", "table")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Swizzled hello from Greeter") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestInterposeCommand_Unresolved(t *testing.T) {
	_, err := execute(t, "", "interpose", "Greeter", "sayHi", "nope")
	if err == nil {
		t.Fatal("expected resolution error")
	}
	if !strings.Contains(err.Error(), "nope") {
		t.Errorf("error should name the selector: %v", err)
	}
}

func TestInterposeCommand_BadTimes(t *testing.T) {
	if _, err := execute(t, "", "interpose", "Greeter", "sayHi", "sayHiSwizzled", "--times", "0"); err == nil {
		t.Error("expected error for --times 0")
	}
}

func TestInfoCommand(t *testing.T) {
	cfg := `
screen:
  width: 390
  height: 844
  scale: 3
bundle:
  identifier: com.example.app
  version: "7"
  short_version: 1.2.3
`
	out, err := execute(t, cfg, "info", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var result InfoResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatal(err)
	}
	if result.Bundle.Identifier != "com.example.app" || result.Bundle.ShortVersion != "1.2.3" {
		t.Errorf("bundle = %+v", result.Bundle)
	}
	if result.Screen.Scale != 3 || result.Screen.Width != 390 {
		t.Errorf("screen = %+v", result.Screen)
	}
	if result.Bundle.Info["CFBundleVersion"] != "7" {
		t.Errorf("info dictionary = %v", result.Bundle.Info)
	}
}

func TestInfoCommand_ScreenOverride(t *testing.T) {
	out, err := execute(t, "", "info", "--screen", "1024x768@4", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var result InfoResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatal(err)
	}
	if result.Screen.SingleLineWidth != 0.25 || result.Screen.SingleLineAdjustOffset != 0.125 {
		t.Errorf("screen = %+v", result.Screen)
	}
}

func TestExecuteInterpose_RunsOnUILoop(t *testing.T) {
	if _, err := execute(t, "", "classes"); err != nil {
		t.Fatal(err)
	}
	greeter, _ := rt.Table.Class("Greeter")
	var onMain bool
	greeter.AddMethod(dispatch.ScopeInstance, "probe", func(self any, _ ...any) any {
		onMain = rt.Loop.IsMain()
		return "probe"
	}, "@:")
	greeter.AddMethod(dispatch.ScopeInstance, "probe2", func(self any, _ ...any) any { return "probe2" }, "@:")

	if _, err := executeInterpose(rt, "Greeter", "probe", "probe2", dispatch.ScopeInstance, 1, ""); err != nil {
		t.Fatal(err)
	}
	if !onMain {
		t.Error("interpose sampling should run on the UI loop")
	}
}

func TestSendCommand_TracedLayoutWithoutExchange(t *testing.T) {
	out, err := execute(t, "", "send", "View", "tracedLayoutSubviews", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var result SendResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatal(err)
	}
	if !result.OK {
		t.Errorf("result = %+v", result)
	}
}

func TestInterposeCommand_TracedLayout(t *testing.T) {
	tests := []struct {
		times   string
		applied int
	}{
		{"1", 1},
		{"2", 2},
	}
	for _, tt := range tests {
		t.Run("times="+tt.times, func(t *testing.T) {
			out, err := execute(t, "", "interpose", "View", "layoutSubviews", "tracedLayoutSubviews", "--times", tt.times, "--format", "json")
			if err != nil {
				t.Fatal(err)
			}
			var result InterposeResult
			if err := json.Unmarshal([]byte(out), &result); err != nil {
				t.Fatal(err)
			}
			if !result.OK || result.Applied != tt.applied {
				t.Errorf("result = %+v", result)
			}
		})
	}
}
