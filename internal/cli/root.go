// Package cli wires the kk subcommands to the API client.
package cli

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"kuantokusta/internal/client"
	"kuantokusta/internal/config"
	"kuantokusta/internal/domain"
	"kuantokusta/internal/export"
	"kuantokusta/internal/format"
	"kuantokusta/internal/logger"
	"kuantokusta/internal/transport"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app holds what PersistentPreRunE builds for the subcommands of one run
type app struct {
	cfg    *config.Config
	mode   format.Mode
	logger *zap.Logger
	client *client.Client
}

// NewRootCommand builds the kk command tree. Every call returns an
// independent tree with its own flag state.
func NewRootCommand() *cobra.Command {
	a := &app{mode: format.Table}

	root := &cobra.Command{
		Use:           "kk",
		Short:         "Fast CLI for KuantoKusta.pt price comparison",
		Long:          "Search products, track prices, and find deals on Portugal's largest price comparison site.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.VarP(&a.mode, config.KeyFormat, "f", "output format (table, json, compact)")
	flags.BoolP(config.KeyVerbose, "v", false, "enable debug logging")
	flags.Duration(config.KeyTimeout, 30*time.Second, "request timeout")
	flags.String(config.KeyBaseURL, config.DefaultBaseURL, "API base URL")
	flags.String(config.KeySiteURL, config.DefaultSiteURL, "website URL used by search --web")
	flags.String(config.KeyImpersonate, string(transport.Chrome), "TLS fingerprint to present (chrome, firefox, safari, edge, none)")
	flags.String(config.KeyXLSX, "", "also write the results to an xlsx workbook at this path")

	// Usage errors are invalid arguments, not upstream failures
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", domain.ErrInvalidArgument, err)
	})

	root.AddCommand(
		newSearchCommand(a),
		newBrowseCommand(a),
		newDealsCommand(a),
		newHistoryCommand(a),
		newPopularCommand(a),
		newRelatedCommand(a),
		newCategoriesCommand(a),
	)

	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	mode, err := format.ParseMode(cfg.Output.Format)
	if err != nil {
		return err
	}
	profile, err := transport.ParseProfile(cfg.API.Impersonate)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Env, cfg.Log.Verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	httpClient := &http.Client{
		Transport: transport.Logging(transport.New(profile, transport.WithDialTimeout(cfg.API.Timeout)), log),
		Timeout:   cfg.API.Timeout,
	}

	a.cfg = cfg
	a.mode = mode
	a.logger = log
	a.client = client.New(cfg.API.BaseURL,
		client.WithHTTPClient(httpClient),
		client.WithSiteURL(cfg.API.SiteURL),
		client.WithLogger(log),
	)

	log.Debug("Configuration loaded",
		zap.String("command", cmd.Name()),
		zap.String("base_url", cfg.API.BaseURL),
		zap.String("format", string(mode)),
		zap.String("impersonate", string(profile)),
		zap.Duration("timeout", cfg.API.Timeout),
	)
	return nil
}

// render writes data to w in the configured mode. The summary line is only
// printed in table mode so json and compact output stay machine readable.
func (a *app) render(w io.Writer, summary string, data any) error {
	out, err := format.Format(data, a.mode)
	if err != nil {
		return err
	}

	if path := a.cfg.Output.XLSX; path != "" {
		if err := export.WriteXLSX(path, data); err != nil {
			return err
		}
		a.logger.Debug("Results exported", zap.String("path", path))
	}

	if a.mode == format.Table && summary != "" {
		out = summary + "\n\n" + out
	}
	_, err = io.WriteString(w, out)
	return err
}
