package copier

import "github.com/arthur-debert/scaffup/pkg/types"

// BoolOption enumerates the boolean copier options a request may set.
type BoolOption int

const (
	SkipTasks BoolOption = iota
)

// ListOption enumerates the list-valued copier options a request may set.
// Each value is passed as its own flag/value pair.
type ListOption int

const (
	Skip ListOption = iota
	Exclude
)

// boolFlags and listFlags fix both the flag spelling and the order in which
// options appear on the command line.
var boolFlags = []struct {
	opt  BoolOption
	flag string
}{
	{SkipTasks, "--skip-tasks"},
}

var listFlags = []struct {
	opt  ListOption
	flag string
}{
	{Skip, "--skip"},
	{Exclude, "--exclude"},
}

// Flag returns the command-line flag for the option.
func (o BoolOption) Flag() string {
	for _, f := range boolFlags {
		if f.opt == o {
			return f.flag
		}
	}
	return ""
}

// Flag returns the command-line flag for the option.
func (o ListOption) Flag() string {
	for _, f := range listFlags {
		if f.opt == o {
			return f.flag
		}
	}
	return ""
}

func boolValue(opts types.CopierOptions, o BoolOption) bool {
	switch o {
	case SkipTasks:
		return opts.SkipTasks
	}
	return false
}

func listValue(opts types.CopierOptions, o ListOption) []string {
	switch o {
	case Skip:
		return opts.Skip
	case Exclude:
		return opts.Exclude
	}
	return nil
}

// TrustPolicy decides whether copier may run template tasks and
// migrations. Trust requires the global allowance and no per-request
// opt-out.
type TrustPolicy struct {
	AllowScripts  bool
	IgnoreScripts bool
}

// PolicyFor extracts the trust policy of an update configuration.
func PolicyFor(cfg types.UpdateConfig) TrustPolicy {
	return TrustPolicy{AllowScripts: cfg.AllowScripts, IgnoreScripts: cfg.IgnoreScripts}
}

// Trusted reports whether --trust is passed.
func (p TrustPolicy) Trusted() bool {
	return p.AllowScripts && !p.IgnoreScripts
}
