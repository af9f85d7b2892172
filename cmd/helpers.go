package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mj1618/uiruntime/internal/dispatch"
)

// StringParam extracts a string from a tool-call parameter map.
func StringParam(params map[string]interface{}, key, def string) string {
	if v, ok := params[key]; ok {
		switch s := v.(type) {
		case string:
			return s
		case fmt.Stringer:
			return s.String()
		}
	}
	return def
}

// BoolParam extracts a bool, accepting "true"/"false" strings too.
func BoolParam(params map[string]interface{}, key string, def bool) bool {
	if v, ok := params[key]; ok {
		switch b := v.(type) {
		case bool:
			return b
		case string:
			if parsed, err := strconv.ParseBool(b); err == nil {
				return parsed
			}
		}
	}
	return def
}

// IntParam extracts an int. JSON numbers arrive as float64.
func IntParam(params map[string]interface{}, key string, def int) int {
	if v, ok := params[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		case string:
			if parsed, err := strconv.Atoi(n); err == nil {
				return parsed
			}
		}
	}
	return def
}

// StringListParam extracts a list of strings from either a JSON array or a
// comma-separated string.
func StringListParam(params map[string]interface{}, key string) []string {
	v, ok := params[key]
	if !ok {
		return nil
	}
	switch l := v.(type) {
	case []interface{}:
		out := make([]string, 0, len(l))
		for _, item := range l {
			out = append(out, fmt.Sprint(item))
		}
		return out
	case []string:
		return l
	case string:
		if l == "" {
			return nil
		}
		parts := strings.Split(l, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return nil
}

// addScopeFlag adds --type to cmd.
func addScopeFlag(cmd *cobra.Command) {
	cmd.Flags().Bool("type", false, "Operate on type-level methods instead of instance methods")
}

func getScopeFlag(cmd *cobra.Command) dispatch.Scope {
	if typeLevel, _ := cmd.Flags().GetBool("type"); typeLevel {
		return dispatch.ScopeType
	}
	return dispatch.ScopeInstance
}

// lookupClass resolves a class by name with a helpful error.
func lookupClass(table *dispatch.Table, name string) (*dispatch.Class, error) {
	c, ok := table.Class(name)
	if !ok {
		names := make([]string, 0)
		for _, k := range table.Classes() {
			names = append(names, k.Name())
		}
		return nil, fmt.Errorf("unknown class %q (known: %s)", name, strings.Join(names, ", "))
	}
	return c, nil
}

// sendValue performs one message send in scope and renders the result.
func sendValue(c *dispatch.Class, scope dispatch.Scope, sel dispatch.Selector, name string, args []any) (string, error) {
	var (
		v   any
		err error
	)
	if scope == dispatch.ScopeType {
		v, err = c.Send(sel, args...)
	} else {
		obj := c.New()
		if name != "" {
			obj.SetValue("name", name)
		}
		v, err = obj.Send(sel, args...)
	}
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", nil
	}
	return fmt.Sprint(v), nil
}

func toArgs(raw []string) []any {
	args := make([]any, len(raw))
	for i, a := range raw {
		args[i] = a
	}
	return args
}
