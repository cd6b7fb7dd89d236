package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/banshee-data/pointmesh/internal/runlog"
	"github.com/banshee-data/pointmesh/internal/service"
	"github.com/banshee-data/pointmesh/internal/surface/pipeline"
	"github.com/spf13/cobra"
)

var (
	serveListen string
	serveDB     string
	serveDebug  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Triangulator gRPC service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if serveListen != "" {
			cfg.ListenAddr = &serveListen
		}
		if serveDB != "" {
			cfg.RunDBPath = &serveDB
		}
		if serveDebug != "" {
			cfg.DebugAddr = &serveDebug
		}

		var recorder service.RunRecorder
		var db *runlog.DB
		if path := cfg.GetRunDBPath(); path != "" {
			db, err = runlog.Open(path)
			if err != nil {
				return err
			}
			defer db.Close()
			recorder = runlog.NewStore(db)
			log.Printf("[Service] Recording runs to %s", path)
		}

		handler := service.NewHandler(pipeline.NewReconstructor(cfg.ToParams()), recorder)
		svc := service.NewService(service.Config{
			ListenAddr:      cfg.GetListenAddr(),
			RequestTimeout:  cfg.GetRequestTimeout(),
			MaxMessageBytes: cfg.GetMaxMessageBytes(),
		}, handler)
		if err := svc.Start(); err != nil {
			return err
		}
		defer svc.Stop()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if addr := cfg.GetDebugAddr(); addr != "" {
			mux := http.NewServeMux()
			if db != nil {
				if err := db.AttachAdminRoutes(mux); err != nil {
					return err
				}
			}
			server := &http.Server{Addr: addr, Handler: mux}
			go func() {
				log.Printf("[Service] Debug routes on http://%s/debug/", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Printf("[Service] debug server error: %v", err)
				}
			}()
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					log.Printf("[Service] debug server shutdown error: %v", err)
				}
			}()
		}

		<-ctx.Done()
		log.Printf("[Service] shutting down...")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "gRPC listen address (overrides config)")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "sqlite run log path (overrides config)")
	serveCmd.Flags().StringVar(&serveDebug, "debug-addr", "", "HTTP debug listen address (overrides config)")
}
