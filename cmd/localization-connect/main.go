package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kapu/localization-connect-go/internal/app"
	"github.com/kapu/localization-connect-go/internal/appstore"
	"github.com/kapu/localization-connect-go/internal/campaign"
	"github.com/kapu/localization-connect-go/internal/config"
	"github.com/kapu/localization-connect-go/internal/domain"
	"github.com/kapu/localization-connect-go/internal/util"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type globalFlags struct {
	rootDir string
	envFile string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "localization-connect",
		Short: "Translate App Store metadata and sync it to App Store Connect",
		Long: `localization-connect manages localized App Store text metadata.

The locale tree holds one folder per locale (en/ is the source) with
new.txt, desc.txt, promo.txt and keywords.txt.

Commands:
  translate   Translate en/ into every locale folder within App Store limits
  sync        Upload the locale tree to App Store Connect versions
  fix-links   Localize privacy and terms URLs inside desc.txt
  version     Show version information`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.rootDir, "root", "", "Locale tree root (overrides ROOT_DIR)")
	root.PersistentFlags().StringVar(&flags.envFile, "env", "", "Path to an env file (default: ./.env if present)")

	root.AddCommand(
		newTranslateCmd(flags),
		newSyncCmd(flags),
		newFixLinksCmd(flags),
		newVersionCmd(),
	)

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads configuration and the shared container. The returned cleanup
// must always be called.
func setup(ctx context.Context, flags *globalFlags) (*app.Container, func(), error) {
	cfg, err := config.Load(flags.envFile)
	if err != nil {
		return nil, nil, err
	}
	if flags.rootDir != "" {
		cfg.Paths.RootDir = flags.rootDir
	}

	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	buildCtx, buildCancel := context.WithTimeout(ctx, 30*time.Second)
	container, err := app.Build(buildCtx, cfg, logger)
	buildCancel()
	if err != nil {
		_ = logger.Sync()
		return nil, nil, fmt.Errorf("failed to assemble services: %w", err)
	}

	cleanup := func() {
		container.Close()
		_ = logger.Sync()
	}
	return container, cleanup, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func newTranslateCmd(flags *globalFlags) *cobra.Command {
	var (
		force bool
		only  string
	)

	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Translate source fields into every locale folder",
		Long: `Translate en/ into every locale folder that exists on disk.

Files already within their character limit are skipped unless --force is
given. --only limits the run to one locale (de) or one file (de/promo.txt).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			localeFilter, fieldFilter, err := campaign.ParseOnly(only)
			if err != nil {
				return err
			}

			ctx, stop := signalContext()
			defer stop()

			container, cleanup, err := setup(ctx, flags)
			if err != nil {
				return err
			}
			defer cleanup()
			logger := container.Logger

			c, err := container.NewCampaign(ctx)
			if err != nil {
				return err
			}

			sources, err := container.Store.LoadSources()
			if err != nil {
				return err
			}
			if len(sources) == 0 {
				logger.Warn("No source files found", zap.String("dir", "en"))
				return nil
			}

			report := c.Run(ctx, sources, container.Store.TargetLocales(), campaign.Options{
				Force:        force,
				LocaleFilter: localeFilter,
				FieldFilter:  fieldFilter,
			})

			campaign.LogSummary(logger, report)
			container.RecordCampaign(context.WithoutCancel(ctx), report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Retranslate files even when they are within limits")
	cmd.Flags().StringVar(&only, "only", "", "Limit to one locale (de) or one file (de/promo.txt)")
	return cmd
}

func newSyncCmd(flags *globalFlags) *cobra.Command {
	var (
		iosVersion string
		macVersion string
		fields     []string
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Upload the locale tree to App Store Connect",
		Long: `Upload every locale folder to the given App Store versions.

Existing localizations are updated; missing ones are created first. Only the
requested fields are written (new, desc, promo, keywords or all). Empty files
are never uploaded.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if iosVersion == "" && macVersion == "" {
				return fmt.Errorf("no platform versions specified; use --ios-version and/or --mac-version")
			}

			fieldSet, err := appstore.ParseFields(fields)
			if err != nil {
				return err
			}

			ctx, stop := signalContext()
			defer stop()

			container, cleanup, err := setup(ctx, flags)
			if err != nil {
				return err
			}
			defer cleanup()
			logger := container.Logger

			targets := container.SyncTargets(iosVersion, macVersion)
			platforms := make([]domain.Platform, 0, len(targets))
			for _, t := range targets {
				platforms = append(platforms, t.Platform)
			}

			syncer, err := container.NewSyncer(platforms...)
			if err != nil {
				return err
			}

			desired, err := appstore.LoadDesiredState(container.Store)
			if err != nil {
				return err
			}
			if len(desired) == 0 {
				logger.Warn("No translations found to upload")
				return nil
			}

			fieldNames := make([]string, 0, len(fieldSet))
			for _, key := range fieldSet.Keys() {
				fieldNames = append(fieldNames, key.ShortName())
			}
			logger.Info("Uploading fields", zap.Strings("fields", fieldNames), zap.Int("locales", len(desired)))

			results := syncer.Publish(ctx, targets, desired, fieldSet)
			for _, line := range appstore.SummaryLines(results) {
				logger.Info(line)
			}
			container.RecordSync(context.WithoutCancel(ctx), results)
			return nil
		},
	}

	cmd.Flags().StringVar(&iosVersion, "ios-version", "", "iOS version string to update (e.g. 2.4.0)")
	cmd.Flags().StringVar(&macVersion, "mac-version", "", "macOS version string to update")
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "Fields to upload: new, desc, promo, keywords, all (default all)")
	return cmd
}

func newFixLinksCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "fix-links",
		Short: "Localize privacy and terms URLs in desc.txt",
		Long: `Rewrite BASE_PRIVACY_URL and BASE_TERMS_URL inside every locale's
desc.txt so they include the locale folder (https://x.com/privacy becomes
https://x.com/de/privacy).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			container, cleanup, err := setup(ctx, flags)
			if err != nil {
				return err
			}
			defer cleanup()

			results, err := campaign.FixLinks(container.Store, container.Config.App.BasePrivacyURL, container.Config.App.BaseTermsURL, container.Logger)
			if err != nil {
				return err
			}

			counts := make(map[campaign.LinkStatus]int)
			for _, r := range results {
				counts[r.Status]++
			}
			container.Logger.Info("Link fix finished",
				zap.Int("updated", counts[campaign.LinkUpdated]),
				zap.Int("skipped", len(results)-counts[campaign.LinkUpdated]),
			)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("localization-connect version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}
}
