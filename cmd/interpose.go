package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mj1618/uiruntime/internal/dispatch"
	"github.com/mj1618/uiruntime/internal/output"
)

// Binding shows what a selector answered before and after an interposition.
type Binding struct {
	Selector string `yaml:"selector" json:"selector"`
	Before   string `yaml:"before"   json:"before"`
	After    string `yaml:"after"    json:"after"`
}

// InterposeResult is the output of the interpose command.
type InterposeResult struct {
	OK          bool      `yaml:"ok"                 json:"ok"`
	Class       string    `yaml:"class"              json:"class"`
	Scope       string    `yaml:"scope"              json:"scope"`
	Original    string    `yaml:"original"           json:"original"`
	Replacement string    `yaml:"replacement"        json:"replacement"`
	Applied     int       `yaml:"applied"            json:"applied"`
	Interposed  bool      `yaml:"interposed"         json:"interposed"`
	Bindings    []Binding `yaml:"bindings,omitempty" json:"bindings,omitempty"`
	Error       string    `yaml:"error,omitempty"    json:"error,omitempty"`
}

func (r InterposeResult) TableHeader() []string {
	return []string{"Selector", "Before", "After"}
}

func (r InterposeResult) TableRows() [][]string {
	rows := make([][]string, 0, len(r.Bindings))
	for _, b := range r.Bindings {
		rows = append(rows, []string{b.Selector, b.Before, b.After})
	}
	return rows
}

var interposeCmd = &cobra.Command{
	Use:   "interpose CLASS ORIGINAL REPLACEMENT",
	Short: "Exchange the implementations of two selectors on a class",
	Long: `Exchange the implementations bound to ORIGINAL and REPLACEMENT on CLASS and
show what each selector answers before and after.

If CLASS only inherits ORIGINAL, a direct entry is added to CLASS so its
ancestors keep their behavior. Interposing the same pair again swaps the
implementations back, unless dispatch.repeat_policy is "reject".

Examples:
  uiruntime interpose Greeter sayHi sayHiSwizzled
  uiruntime interpose LoudGreeter sayHi sayHiLoud --format table
  uiruntime interpose Greeter greeting greetingSwizzled --type
  uiruntime interpose Greeter sayHi sayHiSwizzled --times 2`,
	Args: cobra.ExactArgs(3),
	RunE: runInterpose,
}

func init() {
	rootCmd.AddCommand(interposeCmd)
	addScopeFlag(interposeCmd)
	interposeCmd.Flags().Int("times", 1, "Apply the interposition this many times")
	interposeCmd.Flags().String("name", "", "Instance \"name\" used when sampling selectors")
}

func runInterpose(cmd *cobra.Command, args []string) error {
	times, _ := cmd.Flags().GetInt("times")
	name, _ := cmd.Flags().GetString("name")
	result, err := executeInterpose(rt, args[0], args[1], args[2], getScopeFlag(cmd), times, name)
	if result.Class != "" {
		if perr := output.Fprint(cmd.OutOrStdout(), result); perr != nil {
			return perr
		}
	}
	return err
}

// executeInterpose applies the interposition times times on the UI loop and
// samples both selectors before and after. The first failing application
// stops the run and is returned.
func executeInterpose(r *Runtime, class, original, replacement string, scope dispatch.Scope, times int, name string) (InterposeResult, error) {
	result := InterposeResult{
		Class:       class,
		Scope:       scope.String(),
		Original:    original,
		Replacement: replacement,
	}
	if times < 1 {
		return result, fmt.Errorf("--times must be at least 1")
	}
	orig, repl := dispatch.Selector(original), dispatch.Selector(replacement)

	var applyErr, lookupErr error
	err := r.onMain(func() {
		c, err := lookupClass(r.Table, class)
		if err != nil {
			lookupErr = err
			return
		}
		before := sample(c, scope, name, orig, repl)
		for i := 0; i < times; i++ {
			if applyErr = r.Table.Interpose(c, orig, repl, scope); applyErr != nil {
				break
			}
			result.Applied++
		}
		after := sample(c, scope, name, orig, repl)
		for i, sel := range []dispatch.Selector{orig, repl} {
			result.Bindings = append(result.Bindings, Binding{Selector: string(sel), Before: before[i], After: after[i]})
		}
		result.Interposed = r.Table.Interposed(c, orig, repl, scope)
	})
	if err != nil {
		return result, err
	}
	if lookupErr != nil {
		return InterposeResult{}, lookupErr
	}
	if applyErr != nil {
		result.Error = applyErr.Error()
		return result, applyErr
	}
	result.OK = true
	return result, nil
}

// sample sends each selector without arguments and renders the answer.
// Selectors that don't resolve or need arguments show as an error marker.
func sample(c *dispatch.Class, scope dispatch.Scope, name string, sels ...dispatch.Selector) []string {
	out := make([]string, len(sels))
	for i, sel := range sels {
		out[i] = sampleOne(c, scope, name, sel)
	}
	return out
}

func sampleOne(c *dispatch.Class, scope dispatch.Scope, name string, sel dispatch.Selector) (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = fmt.Sprintf("<panic: %v>", r)
		}
	}()
	v, err := sendValue(c, scope, sel, name, nil)
	if err != nil {
		return "<unresolved>"
	}
	return v
}
