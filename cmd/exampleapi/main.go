// Command exampleapi serves a small JSON API behind the JWT middleware.
//
//	exampleapi --settings settings.yaml --listen :8080
//
// GET /api/test requires a bearer token from one of the trusted issuers.
// /healthz and /metrics are served without authentication.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"go.opentelemetry.io/otel"

	jwtmiddleware "github.com/naosproject/go-jwt-middleware"
	"github.com/naosproject/go-jwt-middleware/trust"
)

type options struct {
	listen    string
	settings  string
	storeRoot string
	logLevel  string
}

func main() {
	var opts options
	flags := pflag.NewFlagSet("exampleapi", pflag.ExitOnError)
	flags.StringVar(&opts.listen, "listen", ":8080", "address to listen on")
	flags.StringVar(&opts.settings, "settings", "settings.yaml", "path to the JWT trust settings document")
	flags.StringVar(&opts.storeRoot, "cert-store", trust.DefaultStoreRoot, "root directory of the certificate store")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	_ = flags.Parse(os.Args[1:])

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	level, err := logrus.ParseLevel(opts.logLevel)
	if err != nil {
		logger.WithError(err).Fatal("invalid log level")
	}
	logger.SetLevel(level)

	if err := run(opts, logger); err != nil {
		logger.WithError(err).Fatal("exampleapi stopped")
	}
}

func run(opts options, logger *logrus.Logger) error {
	cfg, err := trust.LoadFile(opts.settings, trust.WithCertificateStore(trust.DirectoryStore{Root: opts.storeRoot}))
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	handler, err := newHandler(cfg, logger, reg)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              opts.listen,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		logger.WithField("addr", opts.listen).Info("listening")
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// newHandler wires CORS, then authentication, then compression in front of
// the API routes.
func newHandler(cfg *trust.Configuration, logger logrus.FieldLogger, reg *prometheus.Registry) (http.Handler, error) {
	middleware, err := jwtmiddleware.New(
		jwtmiddleware.WithTrustConfiguration(cfg),
		jwtmiddleware.WithExclusionUrls([]string{"/healthz", "/metrics"}),
		jwtmiddleware.WithValidateOnOptions(false),
		jwtmiddleware.WithLogger(jwtmiddleware.NewLogrusLogger(logger)),
		jwtmiddleware.WithMetrics(jwtmiddleware.NewPrometheusMetrics(reg)),
		jwtmiddleware.WithTracer(jwtmiddleware.NewOpenTelemetryTracer(otel.Tracer("exampleapi"))),
	)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/test", testHandler)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return cors(middleware.CheckJWT(gzhttp.GzipHandler(mux))), nil
}
