package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	kichwabridge "github.com/opengovern/kichwa-bridge"
	"github.com/opengovern/kichwa-bridge/api"
	"github.com/opengovern/kichwa-bridge/session"
	"github.com/opengovern/kichwa-bridge/storage"
)

type options struct {
	storePath   string
	passphrase  string
	envFile     string
	metricsFile string
	debug       bool
}

// app is what every subcommand runs against. close releases the store.
type app struct {
	client   *api.Client
	sessions *session.Store
	out      io.Writer
	close    func() error
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "kichwactl",
		Short:         "Talk to the Kichwa learning API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.storePath, "store", defaultStorePath(), "session database file")
	flags.StringVar(&opts.passphrase, "passphrase", os.Getenv("KICHWA_PASSPHRASE"), "encrypt the session database with this passphrase")
	flags.StringVar(&opts.envFile, "env-file", "", "load configuration from this .env file")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "write request metrics to this file in Prometheus text format")
	flags.BoolVar(&opts.debug, "debug", false, "log every request")

	cmd.AddCommand(
		newLoginCommand(opts),
		newLogoutCommand(opts),
		newWhoamiCommand(opts),
		newCoursesCommand(opts),
		newLessonCommand(opts),
		newGetCommand(opts),
	)
	return cmd
}

func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "kichwa-session.db"
	}
	return filepath.Join(dir, "kichwactl", "session.db")
}

func (o *options) open(ctx context.Context, out io.Writer) (*app, error) {
	var envFiles []string
	if o.envFile != "" {
		envFiles = append(envFiles, o.envFile)
	}
	cfg, err := kichwabridge.LoadConfig(envFiles...)
	if err != nil {
		return nil, err
	}
	if o.debug {
		cfg.Debug = true
	}

	if err := os.MkdirAll(filepath.Dir(o.storePath), 0o700); err != nil {
		return nil, errors.Wrap(err, "create store directory")
	}
	bolt, err := storage.OpenBolt(o.storePath)
	if err != nil {
		return nil, err
	}
	var kv storage.Store = bolt
	if o.passphrase != "" {
		sealed, err := storage.NewSealedStoreFromPassphrase(ctx, bolt, o.passphrase)
		if err != nil {
			_ = bolt.Close()
			return nil, err
		}
		kv = sealed
	}

	logger := logrus.New()
	if cfg.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	gwOpts := []kichwabridge.Option{kichwabridge.WithLogger(logger)}
	var reg *prometheus.Registry
	if o.metricsFile != "" {
		reg = prometheus.NewRegistry()
		gwOpts = append(gwOpts, kichwabridge.WithMetrics(kichwabridge.NewMetrics(reg)))
	}

	sessions := session.New(kv)
	client, err := api.New(cfg, sessions, gwOpts...)
	if err != nil {
		_ = kv.Close()
		return nil, err
	}

	closeAll := func() error {
		if reg != nil {
			if err := prometheus.WriteToTextfile(o.metricsFile, reg); err != nil {
				logger.WithError(err).Warn("Failed to write metrics file")
			}
		}
		return kv.Close()
	}
	return &app{client: client, sessions: sessions, out: out, close: closeAll}, nil
}

// run opens the app around fn and always closes the store.
func (o *options) run(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := o.open(ctx, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.close()
	return fn(ctx, a)
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "print result")
	}
	return nil
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
