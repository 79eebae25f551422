package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/studyplan/internal/httpapi"
	"github.com/abhisek/studyplan/internal/logger"
	"github.com/abhisek/studyplan/internal/notify"
	"github.com/abhisek/studyplan/internal/observability"
	"github.com/abhisek/studyplan/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API and change stream over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.HTTP.Addr = addr
		}

		log, err := logger.New(cfg.LogMode)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer log.Sync()

		if strings.EqualFold(cfg.LogMode, "prod") || strings.EqualFold(cfg.LogMode, "production") {
			gin.SetMode(gin.ReleaseMode)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		shutdownTracing, err := observability.InitTracing(ctx, cfg.Telemetry, version, cmd.ErrOrStderr(), log)
		if err != nil {
			return err
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracing(sctx); err != nil {
				log.Warn("tracing shutdown failed", "error", err)
			}
		}()

		hub := notify.NewHub(log)
		var pub notify.Publisher = hub
		if cfg.Redis.Addr != "" {
			bus, err := notify.NewRedisBus(ctx, cfg.Redis.Addr, cfg.Redis.Channel, log)
			if err != nil {
				return err
			}
			defer bus.Close()
			pub = notify.Multi{hub, bus}

			if err := bus.StartForwarder(ctx, func(ev notify.Event) {
				_ = hub.Publish(ctx, ev)
			}); err != nil {
				return err
			}
			log.Info("redis event bus enabled", "addr", cfg.Redis.Addr, "channel", cfg.Redis.Channel)
		}

		env, err := openEnvWith(cfg, log, store.WithPublisher(pub))
		if err != nil {
			return err
		}
		defer env.Close()

		router := httpapi.NewRouter(httpapi.RouterConfig{
			Service:       env.svc,
			Hub:           hub,
			Log:           log,
			CORSOrigins:   cfg.HTTP.CORSOrigins,
			DefaultTenant: env.tenant,
			ServiceName:   cfg.Telemetry.ServiceName,
		})
		srv := &http.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			log.Info("http server listening", "addr", cfg.HTTP.Addr, "tenant", env.tenant)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			log.Info("shutting down http server")
			sctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(sctx)
		})
		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides STUDYPLAN_HTTP_ADDR)")
}
