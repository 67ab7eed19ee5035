package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/psantana5/lapse/internal/metrics"
	"github.com/psantana5/lapse/internal/registry"
	"github.com/psantana5/lapse/internal/server"
	"github.com/psantana5/lapse/pkg/logging"
	"github.com/psantana5/lapse/pkg/shutdown"
	"github.com/psantana5/lapse/pkg/tls"
)

var (
	serveListen        string
	serveToken         string
	serveRateLimit     float64
	serveRateBurst     int
	serveLogFile       string
	serveTLSCert       string
	serveTLSKey        string
	serveTLSSelfSigned bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the timer REST daemon",
	Long: `Serve exposes the timer registry over HTTP: timers are created,
started, stopped, reset, and removed through a small JSON API, with
Prometheus metrics on /metrics and a liveness probe on /health.

Example:
  lapse serve --listen :8090
  lapse serve --token s3cret --rate-limit 5
  LAPSE_TOKEN=s3cret lapse serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveListen, "listen", ":8090", "listen address")
	serveCmd.Flags().StringVar(&serveToken, "token", "", "static bearer token; empty disables authentication")
	serveCmd.Flags().Float64Var(&serveRateLimit, "rate-limit", 10, "requests per second per client")
	serveCmd.Flags().IntVar(&serveRateBurst, "rate-burst", 20, "burst size per client")
	serveCmd.Flags().StringVar(&serveLogFile, "log-file", "", "write logs to this file instead of stderr")
	serveCmd.Flags().StringVar(&serveTLSCert, "tls-cert", "", "TLS certificate file; with --tls-key, serve HTTPS")
	serveCmd.Flags().StringVar(&serveTLSKey, "tls-key", "", "TLS private key file")
	serveCmd.Flags().BoolVar(&serveTLSSelfSigned, "tls-self-signed", false, "generate a self-signed certificate under $HOME/.lapse and serve HTTPS")
}

// resolveTLSFiles generates a development key pair when asked to, then
// reports whether TLS should be enabled
func resolveTLSFiles() (bool, error) {
	if serveTLSSelfSigned && serveTLSCert == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return false, fmt.Errorf("failed to find home directory: %w", err)
		}
		dir := filepath.Join(home, ".lapse")
		if err := os.MkdirAll(dir, 0755); err != nil {
			return false, fmt.Errorf("failed to create %s: %w", dir, err)
		}
		serveTLSCert = filepath.Join(dir, "server.crt")
		serveTLSKey = filepath.Join(dir, "server.key")
		if _, err := os.Stat(serveTLSCert); os.IsNotExist(err) {
			if err := tls.GenerateSelfSignedCert(serveTLSCert, serveTLSKey, "lapse.local"); err != nil {
				return false, err
			}
		}
	}
	return serveTLSCert != "" && serveTLSKey != "", nil
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveToken == "" {
		serveToken = viper.GetString("token")
	}

	log := newLogger()
	if serveLogFile != "" {
		fileLog, err := logging.NewFileLogger(serveLogFile, logging.ParseLevel(logLevel), logJSON)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		log = fileLog
	}

	reg := registry.New()
	srv := server.New(server.Config{
		ListenAddr: serveListen,
		Token:      serveToken,
		RateLimit:  serveRateLimit,
		RateBurst:  serveRateBurst,
	}, reg, metrics.New(), log.WithField("component", "api"))

	httpServer := &http.Server{
		Addr:         serveListen,
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	useTLS, err := resolveTLSFiles()
	if err != nil {
		return err
	}
	if useTLS {
		tlsConfig, err := tls.LoadServerConfig(serveTLSCert, serveTLSKey)
		if err != nil {
			return err
		}
		httpServer.TLSConfig = tlsConfig
	}

	// Cleanup runs LIFO: the HTTP server stops first, the log file
	// closes last so shutdown messages still land in it.
	mgr := shutdown.New(30*time.Second, log)
	if serveLogFile != "" {
		mgr.Register(shutdown.CloseResource(log))
	}
	mgr.Register(shutdown.StopHTTPServer(httpServer))

	go housekeeping(mgr, srv, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		log.Info("Timer daemon listening", map[string]interface{}{
			"addr":          serveListen,
			"tls":           httpServer.TLSConfig != nil,
			"authenticated": serveToken != "",
		})

		var err error
		if httpServer.TLSConfig != nil {
			err = httpServer.ListenAndServeTLS("", "")
		} else {
			err = httpServer.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server failed", map[string]interface{}{
				"error": err.Error(),
			})
			cancel()
		}
	}()

	mgr.WaitWithContext(ctx)
	return nil
}

// housekeeping evicts idle rate-limit buckets and rotates the log file
// until shutdown completes
func housekeeping(mgr *shutdown.Manager, srv *server.Server, log *logging.Logger) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := srv.Limiter().Cleanup(10 * time.Minute); removed > 0 {
				log.Debug("Evicted idle rate limit buckets", map[string]interface{}{
					"count": removed,
				})
			}
			if serveLogFile != "" {
				if err := log.RotateIfNeeded(100 * 1024 * 1024); err != nil {
					log.Warn("Log rotation failed", map[string]interface{}{
						"error": err.Error(),
					})
				}
			}
		case <-mgr.Done():
			return
		}
	}
}
