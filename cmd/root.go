package cmd

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/CyberShadow/git-splice/internal/config"
	"github.com/CyberShadow/git-splice/internal/git"
	"github.com/CyberShadow/git-splice/internal/log"
	"github.com/CyberShadow/git-splice/internal/manifest"
	"github.com/CyberShadow/git-splice/internal/splice"
)

var rootCmd = &cobra.Command{
	Use:   "git-splice <manifest>",
	Short: "Splice several repositories into one linear combined history",
	Long: `git-splice rewrites the mainline histories of several repositories into a
single combined repository. Each source's tree (or a chosen subtree of it) is
placed under its own top-level directory, and a chronologically ordered linear
chain of commits replays the merged timeline of all sources.

The manifest lists one source per line, tab-separated:

	<target-dir>	<url>[#branch]	[source/subtree/path]
`,
	Args: cobra.ExactArgs(1),
	RunE: rootExec,
}

var l = log.New().WithLevel(log.LevelInfo)

func init() {
	if err := config.Load(); err != nil {
		l.Error("", zap.Error(err))
		os.Exit(1)
	}
}

func Init() {
	rootCmd.PersistentFlags().String("logLevel", string(log.LevelInfo), fmt.Sprintf("the log level (available options: [%s])", strings.Join(log.Levels, ", ")))

	rootCmd.Flags().StringP("repo", "C", ".", "target repository directory, created and initialized if absent")
	rootCmd.Flags().String("branch", config.GetBranch(), "target branch to publish the spliced history on")
	rootCmd.Flags().String("source-branch", config.GetSourceBranch(), "branch fetched from sources whose URL names no branch")
	rootCmd.Flags().IntP("jobs", "j", config.GetJobs(), "bound on concurrent fetches and object reads")
	rootCmd.Flags().Bool("dry-run", false, "compute the splice but do not update the branch or working copy")
}

func Execute(version string) {
	setupRootCmd(version)

	if err := rootCmd.Execute(); err != nil {
		l.Error("", zap.Error(err))
		l.Printf("Run '%s --help' for usage.", rootCmd.CommandPath())
		os.Exit(1)
	}
}

func setupRootCmd(version string) {
	rootCmd.Version = version
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return setLogLevel(cmd)
	}

	Init()
}

func setLogLevel(cmd *cobra.Command) error {
	logLevel, err := cmd.Flags().GetString("logLevel")
	if err != nil {
		return err
	}
	if !slices.Contains(log.Levels, logLevel) {
		return fmt.Errorf("log level must be one of: %s", strings.Join(log.Levels, ", "))
	}

	l = l.WithLevel(log.Level(logLevel))
	ctx := log.With(cmd.Context(), l)
	cmd.SetContext(ctx)

	return nil
}

func rootExec(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := log.From(ctx)

	repoDir, err := cmd.Flags().GetString("repo")
	if err != nil {
		return err
	}
	branch, err := cmd.Flags().GetString("branch")
	if err != nil {
		return err
	}
	sourceBranch, err := cmd.Flags().GetString("source-branch")
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}

	sources, err := manifest.Parse(args[0])
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("manifest %s lists no sources", args[0])
	}

	repo, err := git.OpenOrInit(repoDir, branch)
	if err != nil {
		return err
	}

	result, err := splice.Run(ctx, repo, sources, splice.Options{
		TargetBranch: branch,
		SourceBranch: sourceBranch,
		Jobs:         jobs,
		DryRun:       dryRun,
	})
	if err != nil {
		return err
	}

	if dryRun {
		logger.Successf("Dry run: %d sources spliced into %d commits, would set %s to %s", len(sources), result.Emitted, branch, result.Tip)
		return nil
	}

	logger.Successf("Spliced %d sources into %d commits on %s (%s)", len(sources), result.Emitted, branch, result.Tip)
	return nil
}
