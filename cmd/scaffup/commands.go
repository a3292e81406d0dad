package scaffup

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/scaffup/internal/version"
	"github.com/arthur-debert/scaffup/pkg/errors"
	"github.com/arthur-debert/scaffup/pkg/filesystem"
	"github.com/arthur-debert/scaffup/pkg/logging"
	"github.com/arthur-debert/scaffup/pkg/output"
	"github.com/arthur-debert/scaffup/pkg/paths"
	"github.com/arthur-debert/scaffup/pkg/types"
	"github.com/arthur-debert/scaffup/pkg/update"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// ErrUpdateFailed is returned after an update result carrying an artifact
// error has been rendered. It only sets the exit status.
var ErrUpdateFailed = stderrors.New("update failed")

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	verbosity int
	format    string
	repo      string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "scaffup",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&opts.format, "format", "auto", MsgFlagFormat)
	rootCmd.PersistentFlags().StringVar(&opts.repo, "repo", "", MsgFlagRepo)

	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newUpdateCmd(opts))
	rootCmd.AddCommand(newExtractCmd(opts))
	rootCmd.AddCommand(newGenConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// renderer returns the renderer selected by --format for the command's
// output stream.
func (o *globalOptions) renderer(cmd *cobra.Command) (output.Renderer, error) {
	format, err := output.ParseFormat(o.format)
	if err != nil {
		return nil, err
	}
	w := cmd.OutOrStdout()
	if f, ok := w.(*os.File); ok {
		format = output.Resolve(format, f)
	} else if format == output.FormatAuto {
		format = output.FormatText
	}
	return output.New(format, w), nil
}

// service resolves the repository and loads configuration with overrides
// taken from explicitly set flags.
func (o *globalOptions) service(overrides map[string]interface{}) (*update.Service, error) {
	svc, err := update.New(update.Options{RepoRoot: o.repo, Overrides: overrides})
	if err != nil {
		return nil, err
	}
	if svc.Paths().UsedFallback() {
		log.Warn().Msgf(MsgFallbackNotice, svc.Paths().RepoRoot())
	}
	return svc, nil
}

func newUpdateCmd(opts *globalOptions) *cobra.Command {
	var (
		to            string
		depName       string
		recopy        bool
		skipTasks     bool
		skip          []string
		exclude       []string
		data          []string
		dataFile      string
		allowScripts  bool
		ignoreScripts bool
		dryRun        bool
	)

	cmd := &cobra.Command{
		Use:     "update <answers-file>",
		Short:   MsgUpdateShort,
		Long:    MsgUpdateLong,
		Example: MsgUpdateExample,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.update")

			overrides := map[string]interface{}{}
			flags := cmd.Flags()
			setIf := func(flag, key string, value interface{}) {
				if flags.Changed(flag) {
					overrides[key] = value
				}
			}
			setIf("recopy", "copier.recopy", recopy)
			setIf("skip-tasks", "copier.skip_tasks", skipTasks)
			setIf("skip", "copier.skip", skip)
			setIf("exclude", "copier.exclude", exclude)
			setIf("data-file", "copier.data_file", dataFile)
			setIf("allow-scripts", "allow_scripts", allowScripts)
			setIf("ignore-scripts", "ignore_scripts", ignoreScripts)
			if len(data) > 0 {
				parsed, err := parseData(data)
				if err != nil {
					return err
				}
				overrides["copier.data"] = parsed
			}

			renderer, err := opts.renderer(cmd)
			if err != nil {
				return err
			}
			svc, err := opts.service(overrides)
			if err != nil {
				return err
			}

			answersFile := resolveArgs(svc, args)[0]
			req := update.Request{AnswersFile: answersFile, DepName: depName, Version: to}

			if dryRun {
				spec, err := svc.Command(req)
				if err != nil {
					return err
				}
				return renderer.RenderMessage(fmt.Sprintf(MsgDryRunCommand, spec.String()))
			}

			res, err := svc.Update(cmd.Context(), req)
			if err != nil {
				return err
			}

			logger.Info().
				Str("answersFile", answersFile).
				Str("result", res.Kind().String()).
				Int("artifacts", len(res.Artifacts())).
				Msg("Update finished")

			if err := renderer.RenderResult(res); err != nil {
				return err
			}
			if res.Kind() == types.ResultError {
				return ErrUpdateFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", MsgFlagTo)
	cmd.Flags().StringVar(&depName, "dep-name", "", MsgFlagDepName)
	cmd.Flags().BoolVar(&recopy, "recopy", false, MsgFlagRecopy)
	cmd.Flags().BoolVar(&skipTasks, "skip-tasks", false, MsgFlagSkipTasks)
	cmd.Flags().StringArrayVar(&skip, "skip", nil, MsgFlagSkip)
	cmd.Flags().StringArrayVar(&exclude, "exclude", nil, MsgFlagExclude)
	cmd.Flags().StringArrayVar(&data, "data", nil, MsgFlagData)
	cmd.Flags().StringVar(&dataFile, "data-file", "", MsgFlagDataFile)
	cmd.Flags().BoolVar(&allowScripts, "allow-scripts", false, MsgFlagAllowScripts)
	cmd.Flags().BoolVar(&ignoreScripts, "ignore-scripts", false, MsgFlagIgnoreScripts)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)

	return cmd
}

// resolveArgs resolves relative path arguments from the working directory
// when it lies inside the repository.
func resolveArgs(svc *update.Service, args []string) []string {
	cwd, err := os.Getwd()
	if err != nil {
		return args
	}
	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = paths.ResolveArg(svc.Paths().RepoRoot(), cwd, arg)
	}
	return out
}

// parseData turns key=value pairs into the copier.data override.
func parseData(pairs []string) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, errors.Newf(errors.ErrInvalidInput, MsgErrBadData, pair)
		}
		out[key] = value
	}
	return out, nil
}

func newExtractCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "extract [answers-files...]",
		Short:   MsgExtractShort,
		Long:    MsgExtractLong,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := opts.renderer(cmd)
			if err != nil {
				return err
			}
			svc, err := opts.service(nil)
			if err != nil {
				return err
			}

			deps, err := svc.Extract(cmd.Context(), resolveArgs(svc, args))
			if err != nil {
				return err
			}
			return renderer.RenderDependencies(deps)
		},
	}
}

func newGenConfigCmd(opts *globalOptions) *cobra.Command {
	var (
		write     bool
		effective bool
	)

	cmd := &cobra.Command{
		Use:     "gen-config",
		Short:   MsgGenConfigShort,
		Long:    MsgGenConfigLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := paths.New(opts.repo)
			if err != nil {
				return fmt.Errorf(MsgErrSetupPaths, err)
			}

			result, err := update.GenConfig(filesystem.NewOS(), p, update.GenConfigOptions{
				Write:     write,
				Effective: effective,
			})
			if err != nil {
				return err
			}

			if result.FileWritten != "" {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), MsgConfigWritten+"\n", result.FileWritten)
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), result.Content)
			return err
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)
	cmd.Flags().BoolVar(&effective, "effective", false, MsgFlagEffective)

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, MsgVersionFormat, version.Version)
			fmt.Fprintf(out, MsgVersionCommit, version.Commit)
			fmt.Fprintf(out, MsgVersionBuilt, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
