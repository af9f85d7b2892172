package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/mj1618/uiruntime/internal/dispatch"
	"github.com/mj1618/uiruntime/internal/output"
)

// MethodInfo describes one direct method table entry.
type MethodInfo struct {
	Selector string `yaml:"selector"        json:"selector"`
	Types    string `yaml:"types,omitempty" json:"types,omitempty"`
}

// ClassInfo describes a class and its direct methods.
type ClassInfo struct {
	Name            string       `yaml:"name"                       json:"name"`
	Superclass      string       `yaml:"superclass,omitempty"       json:"superclass,omitempty"`
	InstanceMethods []MethodInfo `yaml:"instance_methods,omitempty" json:"instance_methods,omitempty"`
	TypeMethods     []MethodInfo `yaml:"type_methods,omitempty"     json:"type_methods,omitempty"`
}

// ClassList is the output of the classes command.
type ClassList []ClassInfo

func (l ClassList) TableHeader() []string {
	return []string{"Class", "Superclass", "Instance methods", "Type methods"}
}

func (l ClassList) TableRows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, c := range l {
		rows = append(rows, []string{c.Name, c.Superclass, joinSelectors(c.InstanceMethods), joinSelectors(c.TypeMethods)})
	}
	return rows
}

func joinSelectors(ms []MethodInfo) string {
	names := make([]string, len(ms))
	for i, m := range ms {
		names[i] = m.Selector
	}
	return strings.Join(names, " ")
}

var classesCmd = &cobra.Command{
	Use:   "classes [CLASS...]",
	Short: "List classes and their direct methods",
	Long: `List the classes registered in the dispatch table with their superclass and
the methods each class defines directly (inherited methods are not repeated).

Examples:
  uiruntime classes
  uiruntime classes Greeter LoudGreeter --format table`,
	RunE: runClasses,
}

func init() {
	rootCmd.AddCommand(classesCmd)
}

func runClasses(cmd *cobra.Command, args []string) error {
	list, err := listClasses(rt, args)
	if err != nil {
		return err
	}
	return output.Fprint(cmd.OutOrStdout(), list)
}

// listClasses describes the named classes (all when names is empty) on the
// UI loop.
func listClasses(r *Runtime, names []string) (ClassList, error) {
	var (
		list    ClassList
		listErr error
	)
	if err := r.onMain(func() {
		list, listErr = describeClasses(r.Table, names)
	}); err != nil {
		return nil, err
	}
	return list, listErr
}

func describeClasses(table *dispatch.Table, names []string) (ClassList, error) {
	var classes []*dispatch.Class
	if len(names) == 0 {
		classes = table.Classes()
	} else {
		for _, n := range names {
			c, err := lookupClass(table, n)
			if err != nil {
				return nil, err
			}
			classes = append(classes, c)
		}
	}

	list := make(ClassList, 0, len(classes))
	for _, c := range classes {
		info := ClassInfo{
			Name:            c.Name(),
			InstanceMethods: describeMethods(c.Methods(dispatch.ScopeInstance)),
			TypeMethods:     describeMethods(c.Methods(dispatch.ScopeType)),
		}
		if s := c.Superclass(); s != nil {
			info.Superclass = s.Name()
		}
		list = append(list, info)
	}
	return list, nil
}

func describeMethods(ms []*dispatch.Method) []MethodInfo {
	out := make([]MethodInfo, 0, len(ms))
	for _, m := range ms {
		out = append(out, MethodInfo{Selector: string(m.Name), Types: m.Types()})
	}
	return out
}
