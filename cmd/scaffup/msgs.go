package scaffup

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Keep Copier template instances up to date"
	MsgUpdateShort     = "Update a template instance to a new version"
	MsgExtractShort    = "Show the template reference of answers files"
	MsgGenConfigShort  = "Generate a default configuration file"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgDryRunCommand  = "Would run: %s"
	MsgConfigWritten  = "Wrote %s"
	MsgVersionFormat  = "scaffup version %s\n"
	MsgVersionCommit  = "  commit: %s\n"
	MsgVersionBuilt   = "  built:  %s\n"
	MsgFallbackNotice = "Not inside a git repository, using %s"

	// Error messages
	MsgErrNoCommand  = "no command specified"
	MsgErrBadData    = "invalid --data value %q, expected key=value"
	MsgErrSetupPaths = "failed to resolve repository: %w"

	// Flag descriptions
	MsgFlagVerbose       = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagFormat        = "Output format: auto, term, text or json"
	MsgFlagRepo          = "Repository root (default: git toplevel, else current directory)"
	MsgFlagTo            = "Template version to update to"
	MsgFlagDepName       = "Dependency name used in logs (default: the template source)"
	MsgFlagRecopy        = "Use copier recopy instead of copier update"
	MsgFlagSkipTasks     = "Do not run template tasks"
	MsgFlagSkip          = "Path copier must not overwrite (repeatable)"
	MsgFlagExclude       = "Template path copier must not render (repeatable)"
	MsgFlagData          = "Extra answer as key=value (repeatable)"
	MsgFlagDataFile      = "YAML file with extra answers, inside the repository"
	MsgFlagAllowScripts  = "Allow template tasks and migrations to run (--trust)"
	MsgFlagIgnoreScripts = "Never pass --trust to copier"
	MsgFlagDryRun        = "Print the copier command without running it"
	MsgFlagWrite         = "Write config to .scaffup.toml instead of stdout"
	MsgFlagEffective     = "Print the merged configuration instead of the defaults"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/update-long.txt
	msgUpdateLongRaw string
	MsgUpdateLong    = strings.TrimSpace(msgUpdateLongRaw)

	//go:embed msgs/update-example.txt
	msgUpdateExampleRaw string
	MsgUpdateExample    = strings.TrimRight(msgUpdateExampleRaw, "\n")

	//go:embed msgs/extract-long.txt
	msgExtractLongRaw string
	MsgExtractLong    = strings.TrimSpace(msgExtractLongRaw)

	//go:embed msgs/genconfig-long.txt
	msgGenConfigLongRaw string
	MsgGenConfigLong    = strings.TrimSpace(msgGenConfigLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
