package execcontext

import (
	"fmt"
	"maps"
	"sort"
	"strings"

	utilexec "k8s.io/utils/exec"
)

// Context describes how host commands are executed: extra environment variables and a command
// prefix such as "sudo".
type Context interface {
	Envs() map[string]string
	PrependCmd() []string
}

func New(envs map[string]string, prependCmd []string) Context {
	return &context{
		prependCmd: prependCmd,
		envs:       envs,
	}
}

type context struct {
	envs       map[string]string
	prependCmd []string
}

// Envs implements Context.
func (c *context) Envs() map[string]string {
	out := make(map[string]string, len(c.envs))
	maps.Copy(out, c.envs)
	return out
}

// PrependCmd implements Context.
func (c *context) PrependCmd() []string {
	out := make([]string, len(c.prependCmd))
	copy(out, c.prependCmd)
	return out
}

// Argv returns the full argument vector of cmd once the prefix of ctx is applied.
func Argv(ctx Context, cmd ...string) []string {
	out := ctx.PrependCmd()
	return append(out, cmd...)
}

// Command builds a utilexec.Cmd running cmd under ctx.
func Command(ctx Context, execer utilexec.Interface, cmd ...string) utilexec.Cmd {
	argv := Argv(ctx, cmd...)

	c := execer.Command(argv[0], argv[1:]...)

	envs := ctx.Envs()
	if len(envs) > 0 {
		env := make([]string, 0, len(envs))
		for _, k := range sortedKeys(envs) {
			env = append(env, fmt.Sprintf("%s=%s", k, envs[k]))
		}
		c.SetEnv(env)
	}

	return c
}

func FormatCmd(ctx Context, cmd ...string) string {
	out := ""

	envs := ctx.Envs()
	for _, k := range sortedKeys(envs) {
		envStr := fmt.Sprintf("%s=%q", k, envs[k])
		out = fmt.Sprintf("%s%s ", out, envStr)
	}

	for _, s := range ctx.PrependCmd() {
		out = safelyAppendToCmd(out, s)
	}

	for _, s := range cmd {
		out = safelyAppendToCmd(out, s)
	}

	return strings.TrimSpace(out)
}

var unquottable = map[string]struct{}{
	"&&": {},
	"||": {},
	";":  {},
	":":  {},
	"&":  {},
}

func safelyAppendToCmd(cmd string, s string) string {
	if _, ok := unquottable[s]; ok {
		return fmt.Sprintf("%s%s ", cmd, s)
	}
	return fmt.Sprintf("%s%q ", cmd, s)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
