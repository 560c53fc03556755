package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/mmcdole/onesky-sync/internal/adapter"
	"github.com/mmcdole/onesky-sync/internal/domain"
	"github.com/mmcdole/onesky-sync/internal/onesky"
	"github.com/mmcdole/onesky-sync/internal/service"
	"github.com/mmcdole/onesky-sync/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	err := newRootCmd(adapter.NewSecretResolver).Execute()
	if err != nil && !errors.Is(err, domain.ErrSkipped) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(service.ExitCode(err))
}

// syncFlags are the per-invocation flags that never come from config
type syncFlags struct {
	configFile string
	download   bool
	upload     bool
	dryRun     bool
	only       string
}

func (f *syncFlags) operations() domain.Operation {
	var op domain.Operation
	if f.download {
		op |= domain.OpDownload
	}
	if f.upload {
		op |= domain.OpUpload
	}
	return op
}

// secretResolverFactory builds the Secrets Manager lookup on demand
type secretResolverFactory func(ctx context.Context, logger *slog.Logger) (*adapter.SecretResolver, error)

func newRootCmd(newResolver secretResolverFactory) *cobra.Command {
	root := &cobra.Command{
		Use:           "onesky",
		Short:         "Synchronize gettext catalogues with a OneSky project",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("onesky {{.Version}}\n")
	root.AddCommand(newSyncCmd(viper.New(), newResolver))
	return root
}

func newSyncCmd(v *viper.Viper, newResolver secretResolverFactory) *cobra.Command {
	f := &syncFlags{}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Download translated catalogues for the project's locales",
		Long: "Download the translation of every file in the OneSky project for each\n" +
			"selected locale into {dir}/{name}.{locale}.{ext}. Existing files are overwritten.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd, v, f, newResolver)
		},
	}

	flags := cmd.Flags()
	flags.StringP("dir", "o", "", "target directory, %name% placeholders come from params (default \"%appDir%/lang\")")
	flags.StringP("locale", "l", "", "comma separated locales, or \"all\" for every project language (default \"all\")")
	flags.Bool("strict", false, "treat missing credentials as an error instead of skipping")
	flags.BoolVarP(&f.download, "download", "d", false, "download translations from OneSky")
	flags.BoolVarP(&f.upload, "upload", "u", false, "upload catalogues to OneSky")
	flags.BoolVar(&f.dryRun, "dry-run", false, "show what would be transferred without writing files")
	flags.StringVar(&f.only, "only", "", "only sync manifest files fuzzily matching this pattern")
	flags.StringVar(&f.configFile, "config", "", "config file (default ~/.config/onesky/config.yaml)")

	for key, name := range map[string]string{
		"sync.dir":    "dir",
		"sync.locale": "locale",
		"sync.strict": "strict",
	} {
		// only fails for a nil flag
		_ = v.BindPFlag(key, flags.Lookup(name))
	}

	return cmd
}

func runSync(cmd *cobra.Command, v *viper.Viper, f *syncFlags, newResolver secretResolverFactory) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := adapter.LoadConfig(v, f.configFile)
	if err != nil {
		return fmt.Errorf("%w: failed to load config: %w", domain.ErrConfiguration, err)
	}

	expander := adapter.NewPlaceholderExpander(cfg.Params)
	out := cmd.OutOrStdout()
	progressView := useProgressView(cfg.UI.Progress, out)

	// the progress view owns the terminal
	console := cmd.ErrOrStderr()
	if progressView {
		console = nil
	}
	logger, err := adapter.SetupLogger(&cfg.Logging, console, expander)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting onesky sync", "version", Version)

	syncCfg := cfg.SyncConfig(adapter.SyncOptions{
		Operations: f.operations(),
		DryRun:     f.dryRun,
		Only:       f.only,
	})

	// Secrets Manager is only consulted once nothing else can reject the
	// request; otherwise Run reports the validation result without it.
	if adapter.NeedsSecret(cfg) && service.CheckRequest(syncCfg) == nil {
		resolver, err := newResolver(ctx, logger)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
		}
		if err := resolver.Resolve(ctx, cfg); err != nil {
			return err
		}
		syncCfg.APISecret = cfg.OneSky.APISecret
	}

	client := onesky.NewClient(
		cfg.OneSky.BaseURL,
		cfg.OneSky.APIKey,
		cfg.OneSky.APISecret,
		cfg.OneSky.Timeout,
		logger,
	)
	svc := service.NewSyncService(client, afero.NewOsFs(), expander, logger)

	if progressView {
		_, err := tui.RunWithProgress(ctx, cmd.InOrStdin(), out,
			func(ctx context.Context, report domain.ProgressFunc) (*domain.Summary, error) {
				svc.OnProgress(report)
				return svc.Run(ctx, syncCfg)
			})
		return err
	}

	reporter := adapter.NewConsoleReporter(out)
	svc.OnProgress(reporter.Report)
	_, err = svc.Run(ctx, syncCfg)
	return err
}

// useProgressView decides between the bubbletea view and plain lines
func useProgressView(mode string, out io.Writer) bool {
	switch mode {
	case adapter.ProgressNever:
		return false
	case adapter.ProgressAlways:
		return true
	}
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
