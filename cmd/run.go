package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/studyplan/internal/config"
	"github.com/abhisek/studyplan/internal/logger"
	"github.com/abhisek/studyplan/internal/planner"
	"github.com/abhisek/studyplan/internal/schedule"
	"github.com/abhisek/studyplan/internal/store"
)

// runEnv is what a command needs once configuration is resolved.
type runEnv struct {
	cfg    config.Config
	log    *logger.Logger
	st     *store.Store
	svc    *planner.Service
	tenant store.Tenant
}

func (e *runEnv) Close() {
	if e.st != nil {
		e.st.Close()
	}
	e.log.Sync()
}

// loadConfig reads .env, the environment and persistent flags, in
// increasing priority.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := config.LoadDotEnv(envFile); err != nil {
		return config.Config{}, err
	}
	cfg := config.ConfigFromEnv()

	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if t, _ := cmd.Flags().GetString("tenant"); t != "" {
		cfg.Tenant = t
	}
	if m, _ := cmd.Flags().GetString("log-mode"); m != "" {
		cfg.LogMode = m
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// resolveDBPath returns the configured DSN, or the default data path.
func resolveDBPath(cfg config.Config) (string, error) {
	if p := cfg.DBPath; p != "" {
		if store.IsPostgresDSN(p) {
			return p, nil
		}
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openEnv resolves configuration, opens the store and builds the planner.
// Command-line runs only log with --verbose.
func openEnv(cmd *cobra.Command, opts ...store.Option) (*runEnv, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.Nop()
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		if log, err = logger.New(cfg.LogMode); err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
	}
	return openEnvWith(cfg, log, opts...)
}

func openEnvWith(cfg config.Config, log *logger.Logger, opts ...store.Option) (*runEnv, error) {
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath, append([]store.Option{store.WithLogger(log)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return &runEnv{
		cfg:    cfg,
		log:    log,
		st:     st,
		svc:    planner.NewFromStore(st, planner.WithLogger(log)),
		tenant: store.Tenant(cfg.Tenant),
	}, nil
}

// parseDate reads a YYYY-MM-DD flag value in local time. Empty means today.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(schedule.DateLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", raw)
	}
	return t, nil
}

func outputWidth(cmd *cobra.Command) int {
	w, _ := cmd.Flags().GetInt("width")
	return w
}

// printView writes styled text, downsampling colors to what the output supports.
func printView(cmd *cobra.Command, view string) {
	lipgloss.Fprintln(cmd.OutOrStdout(), view)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
