package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mj1618/uiruntime/internal/dispatch"
	"github.com/mj1618/uiruntime/internal/output"
)

// SendResult is the output of the send command.
type SendResult struct {
	OK       bool   `yaml:"ok"               json:"ok"`
	Class    string `yaml:"class"            json:"class"`
	Selector string `yaml:"selector"         json:"selector"`
	Scope    string `yaml:"scope"            json:"scope"`
	Result   string `yaml:"result,omitempty" json:"result,omitempty"`
	Error    string `yaml:"error,omitempty"  json:"error,omitempty"`
}

func (r SendResult) TableHeader() []string {
	return []string{"Class", "Selector", "Scope", "Result"}
}

func (r SendResult) TableRows() [][]string {
	res := r.Result
	if !r.OK {
		res = "error: " + r.Error
	}
	return [][]string{{r.Class, r.Selector, r.Scope, res}}
}

var sendCmd = &cobra.Command{
	Use:   "send CLASS SELECTOR [ARG...]",
	Short: "Send a message to a new instance (or to the class with --type)",
	Long: `Resolve SELECTOR on CLASS through its ancestor chain and invoke it on a
fresh instance, or on the class itself with --type. Interpositions from the
config file are applied first.

Examples:
  uiruntime send Greeter sayHi
  uiruntime send Greeter sayHi --name Ada
  uiruntime send Greeter greeting --type`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	addScopeFlag(sendCmd)
	sendCmd.Flags().String("name", "", "Value stored as the instance's \"name\" before sending")
}

func runSend(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	result, err := executeSend(rt, args[0], args[1], getScopeFlag(cmd), name, toArgs(args[2:]))
	if err != nil {
		return err
	}
	if err := output.Fprint(cmd.OutOrStdout(), result); err != nil {
		return err
	}
	if !result.OK {
		return fmt.Errorf("send %s.%s: %s", result.Class, result.Selector, result.Error)
	}
	return nil
}

// executeSend sends on the UI loop. Resolution failures are reported in the
// result; only setup failures return an error.
func executeSend(r *Runtime, class, selector string, scope dispatch.Scope, name string, args []any) (SendResult, error) {
	result := SendResult{Class: class, Selector: selector, Scope: scope.String()}
	var (
		value     string
		sendErr   error
		lookupErr error
	)
	if err := r.onMain(func() {
		c, err := lookupClass(r.Table, class)
		if err != nil {
			lookupErr = err
			return
		}
		value, sendErr = sendValue(c, scope, dispatch.Selector(selector), name, args)
	}); err != nil {
		return result, err
	}
	if lookupErr != nil {
		return result, lookupErr
	}
	if sendErr != nil {
		result.Error = sendErr.Error()
		return result, nil
	}
	result.OK = true
	result.Result = value
	return result, nil
}
