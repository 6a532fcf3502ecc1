package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/handrail/internal/version"
	"github.com/arthur-debert/handrail/pkg/config"
	"github.com/arthur-debert/handrail/pkg/fsx"
	"github.com/arthur-debert/handrail/pkg/logging"
	"github.com/arthur-debert/handrail/pkg/operations"
	"github.com/arthur-debert/handrail/pkg/style"
)

// session holds the collaborators a command invocation works with.
// Under --dry-run the mutation collaborators record instead of act,
// while reads keep going to the live filesystem.
type session struct {
	cfg    *config.Config
	dryRun bool
	live   fsx.FS
	collab fsx.FS
	env    *operations.Env
	out    style.Renderer
}

func newSession(cfg *config.Config, dryRun bool) *session {
	live := fsx.NewOS()

	// Private env copy: the shared registries stay, the runner and
	// allowlist are this invocation's.
	env := *operations.DefaultEnv()
	env.Allowlist = cfg.AllowlistOrNil()

	s := &session{
		cfg:    cfg,
		dryRun: dryRun,
		live:   live,
		collab: live,
		env:    &env,
		out:    style.ForWriter(os.Stdout),
	}
	if dryRun {
		s.collab = fsx.NewRecording(live)
		env.Runner = operations.NewRecordingRunner()
	}
	return s
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var (
		verbosity  int
		dryRun     bool
		configPath string
		sess       *session
	)

	rootCmd := &cobra.Command{
		Use:   "handrail",
		Short: "Scoped filesystem automation",
		Long: `handrail runs filesystem operations inside nested scopes: relative
paths resolve against the innermost scope, per-type handlers decide how
each path is read, written and described, and --dry-run previews every
mutation without touching the disk.`,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var (
				cfg *config.Config
				err error
			)
			if configPath != "" {
				cfg, err = config.LoadFile(configPath)
			} else {
				cfg, err = config.Load()
			}
			if err != nil {
				return err
			}
			if verbosity == 0 {
				verbosity = cfg.Verbosity
			}
			logging.SetupLogger(verbosity)
			sess = newSession(cfg, dryRun || cfg.DryRun)
			log.Debug().
				Str("command", cmd.Name()).
				Bool("dry_run", sess.dryRun).
				Msg("Command started")
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Preview changes without executing them")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to an explicit config file")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newHandlersCmd(&sess))
	rootCmd.AddCommand(newResolveCmd(&sess))
	rootCmd.AddCommand(newInfoCmd(&sess))
	rootCmd.AddCommand(newListCmd(&sess))
	rootCmd.AddCommand(newMkdirCmd(&sess))
	rootCmd.AddCommand(newTouchCmd(&sess))
	rootCmd.AddCommand(newWriteCmd(&sess))
	rootCmd.AddCommand(newAppendCmd(&sess))
	rootCmd.AddCommand(newHeadingCmd(&sess))
	rootCmd.AddCommand(newRunCmd(&sess))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including commit hash and build date`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "handrail version %s\n", version.Version)
			if version.Commit != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Commit: %s\n", version.Commit)
			}
			if version.Date != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Built:  %s\n", version.Date)
			}
		},
	}
}

func newHandlersCmd(sess **session) *cobra.Command {
	return &cobra.Command{
		Use:   "handlers",
		Short: "List registered handlers per category",
		Long: `Handlers shows every registered handler in dispatch order for each
category, marking the default that catches paths no other handler
claims.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *sess
			listings := []style.HandlerListing{
				{Category: "file", Names: s.env.Files.List(), Default: s.env.Files.Default().Name()},
				{Category: "directory", Names: s.env.Directories.List(), Default: s.env.Directories.Default().Name()},
				{Category: "archive", Names: s.env.Archives.List(), Default: s.env.Archives.Default().Name()},
				{Category: "executable", Names: s.env.Executables.List(), Default: s.env.Executables.Default().Name()},
			}
			fmt.Fprintln(cmd.OutOrStdout(), s.out.RenderHandlers(listings))
			return nil
		},
	}
}

func newResolveCmd(sess **session) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <category> <path>",
		Short: "Show which handler a path dispatches to",
		Args:  cobra.ExactArgs(2),
		Example: `  # Which file handler claims settings.json?
  handrail resolve file settings.json

  # Which archive family claims a tarball?
  handrail resolve archive backup.tar.gz`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *sess
			category, path := args[0], args[1]

			var name string
			switch category {
			case "file":
				name = s.env.Files.ResolveFor(path).Name()
			case "directory":
				name = s.env.Directories.ResolveFor(path).Name()
			case "archive":
				name = s.env.Archives.ResolveFor(path).Name()
			case "executable":
				name = s.env.Executables.ResolveFor(path).Name()
			default:
				return fmt.Errorf("unknown category %q (file, directory, archive, executable)", category)
			}
			fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		},
	}
}

func newInfoCmd(sess **session) *cobra.Command {
	return &cobra.Command{
		Use:   "info <path>",
		Short: "Describe a path through its dispatched handler",
		Long: `Info stats the path and asks the matching handler for metadata:
directories report their kind (git, python, plain), archives their
family, files their format-specific details.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *sess
			path := args[0]

			var (
				info map[string]interface{}
				err  error
			)
			switch {
			case isDir(s.live, path):
				info, err = operations.DirectoryInfo(s.env.Directories.ResolveFor(path), path)
			case operations.DetectArchiveType(s.env.Archives, path) != "":
				info, err = operations.ArchiveInfo(s.env.Archives.ResolveFor(path), path)
			default:
				info, err = operations.FileInfo(s.env.Files.ResolveFor(path), path)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s.out.RenderInfo(path, info))
			return nil
		},
	}
}

func newListCmd(sess **session) *cobra.Command {
	var ext string

	cmd := &cobra.Command{
		Use:   "ls <path>",
		Short: "List a directory through its dispatched handler",
		Args:  cobra.ExactArgs(1),
		Example: `  # All entries
  handrail ls ~/projects

  # Only markdown files
  handrail ls ~/notes --ext md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *sess
			h := s.env.Directories.ResolveFor(args[0])
			names, err := operations.ListFiles(h, args[0], ext)
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&ext, "ext", "", "Only list entries with this extension")
	return cmd
}

func newMkdirCmd(sess **session) *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir <path>",
		Short: "Create a directory, parents included",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *sess
			res, err := operations.CreateDirectory(s.collab, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s.out.RenderResults([]operations.Result{res}))
			return nil
		},
	}
}

func newTouchCmd(sess **session) *cobra.Command {
	return &cobra.Command{
		Use:   "touch <path>",
		Short: "Create an empty file, parents included",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *sess
			res, err := operations.CreateFile(s.collab, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s.out.RenderResults([]operations.Result{res}))
			return nil
		},
	}
}

func newWriteCmd(sess **session) *cobra.Command {
	return &cobra.Command{
		Use:   "write <path> <content>",
		Short: "Write content through the path's file handler",
		Long: `Write replaces the file content, going through whichever file handler
claims the path. JSON files are validated and pretty-printed on the
way in.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *sess
			h := s.env.Files.ResolveFor(args[0])
			res, err := operations.WriteContent(s.collab, h, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s.out.RenderResults([]operations.Result{res}))
			return nil
		},
	}
}

func newAppendCmd(sess **session) *cobra.Command {
	return &cobra.Command{
		Use:   "append <path> <line>",
		Short: "Append a line through the path's file handler",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *sess
			h := s.env.Files.ResolveFor(args[0])
			res, err := operations.AppendLine(s.collab, h, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s.out.RenderResults([]operations.Result{res}))
			return nil
		},
	}
}

func newHeadingCmd(sess **session) *cobra.Command {
	var level int

	cmd := &cobra.Command{
		Use:   "heading <path> <title>",
		Short: "Append a markdown heading to a file",
		Args:  cobra.ExactArgs(2),
		Example: `  # Top-level heading
  handrail heading notes.md "Ideas"

  # Subsection
  handrail heading notes.md "Later" --level 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *sess
			h := s.env.Files.ResolveFor(args[0])
			res, err := operations.AddHeading(s.collab, h, args[0], args[1], level)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s.out.RenderResults([]operations.Result{res}))
			return nil
		},
	}

	cmd.Flags().IntVarP(&level, "level", "l", 1, "Heading level (1-6)")
	return cmd
}

func newRunCmd(sess **session) *cobra.Command {
	return &cobra.Command{
		Use:   "run <path> [args...]",
		Short: "Execute a file through its executable handler",
		Long: `Run dispatches the path to its executable handler: scripts go through
their shebang interpreter, binaries run directly. The configured
allowlist is consulted before anything starts; under --dry-run the
command is recorded but never spawned.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *sess

			log.Info().
				Str("path", args[0]).
				Bool("dry_run", s.dryRun).
				Msg("Executing")

			res, err := s.env.Execute(args[0], args[1:])
			if err != nil {
				return err
			}
			if res.Stdout != "" {
				fmt.Fprint(cmd.OutOrStdout(), res.Stdout)
			}
			if res.Stderr != "" {
				fmt.Fprint(cmd.ErrOrStderr(), res.Stderr)
			}
			if res.Simulated {
				fmt.Fprintln(cmd.OutOrStdout(), s.out.RenderResults([]operations.Result{
					{Op: "run", Path: args[0], Simulated: true},
				}))
			}
			if !res.Success {
				return fmt.Errorf("command exited with code %d", res.Code)
			}
			return nil
		},
	}
}

func isDir(fsys fsx.FS, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && info.IsDir()
}
