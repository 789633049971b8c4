package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/aretw0/convoy/internal/cli"
	"github.com/aretw0/convoy/internal/logging"
	httpAdapter "github.com/aretw0/convoy/pkg/adapters/http"
	"github.com/aretw0/convoy/pkg/ports"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Exposes the agency over a JSON API: turn submission, session inspection and an SSE event stream.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := cli.RunOptions{}
		opts.AgencyPath, _ = cmd.Flags().GetString("agency")
		opts.RedisAddr, _ = cmd.Flags().GetString("redis")
		opts.Debug, _ = cmd.Flags().GetBool("debug")
		opts.Metrics, _ = cmd.Flags().GetBool("metrics")
		port, _ := cmd.Flags().GetString("port")

		logger := logging.New(slog.LevelInfo)
		if opts.Debug {
			logger = logging.New(slog.LevelDebug)
		}

		app, err := cli.BuildApp(opts, logger)
		if err != nil {
			fmt.Printf("Error initializing convoy: %v\n", err)
			os.Exit(1)
		}

		var engine ports.TurnEngine = app.Runner
		if app.Collector != nil {
			engine = app.Collector.InstrumentTurnEngine(engine)
		}

		handlerCfg := httpAdapter.Config{
			Engine:   engine,
			Sessions: app.Sessions,
			Agency:   app.Agency,
			Logger:   logger,
		}
		if opts.Metrics {
			handlerCfg.Metrics = promhttp.Handler()
		}

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: httpAdapter.NewHandler(handlerCfg),
		}

		serverErrors := make(chan error, 1)
		go func() {
			fmt.Printf("Starting Convoy Server on %s\n", srv.Addr)
			fmt.Printf("Agency: %s\n", app.Agency.Name())
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Convoy Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().Bool("metrics", false, "Expose Prometheus metrics at /metrics")
}
