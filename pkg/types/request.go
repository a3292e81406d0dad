package types

// UpdateRequest asks for one Copier template instance to be moved to a new
// template version.
type UpdateRequest struct {
	// AnswersFile is the repository-relative path of the answers file that
	// identifies the template instance.
	AnswersFile string

	// Deps lists the declared dependency updates. Exactly one is accepted.
	Deps []DependencyUpdate

	Config UpdateConfig
}

// DependencyUpdate describes the target of an update.
//
// Producers do not agree on which field carries the target version, so both
// are accepted and resolved by TargetVersion.
type DependencyUpdate struct {
	// DepName is only used for logging.
	DepName    string
	NewVersion string
	NewValue   string
}

// TargetVersion returns the version to update to: NewVersion when set,
// otherwise NewValue. An empty string means no version was given.
func (d DependencyUpdate) TargetVersion() string {
	for _, v := range []string{d.NewVersion, d.NewValue} {
		if v != "" {
			return v
		}
	}
	return ""
}

// UpdateConfig is the configuration bag attached to a request.
type UpdateConfig struct {
	Copier CopierOptions

	// AllowScripts is the global script-execution allowance.
	AllowScripts bool
	// IgnoreScripts disables script execution for this request even when
	// AllowScripts is set.
	IgnoreScripts bool

	// Env is overlaid on the process environment of the copier run.
	Env map[string]string

	Constraints ToolConstraints
}

// CopierOptions are the copier flags a request can influence.
type CopierOptions struct {
	Recopy    bool
	SkipTasks bool
	Skip      []string
	Exclude   []string
	Data      map[string]string
	DataFile  string
}

// ToolConstraints pins the versions of copier and the python runtime it
// runs on. Empty values are not checked.
type ToolConstraints struct {
	Copier string
	Python string
}
