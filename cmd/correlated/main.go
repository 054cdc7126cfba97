// Command correlated runs simulated request/reply traffic through a
// correlation.Requestor and exposes its timeout map metrics.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alextanhongpin/correlation/internal/config"
	"github.com/alextanhongpin/correlation/metrics"
	"github.com/alextanhongpin/correlation/sync/correlation"
	"github.com/alextanhongpin/correlation/sync/timer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

// maxInFlight bounds the concurrent simulated requests.
const maxInFlight = 256

func main() {
	var path string
	flag.StringVar(&path, "config", "", "Path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("failed to load config: %s", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("correlated", slog.String("err", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	metrics.MustRegister(reg)

	// The scheduler is closed last; it must outlive the requestor.
	sch := timer.NewScheduler()
	defer sch.Close()

	requestor, err := correlation.NewRequestor[string](correlation.RequestorOptions{
		Options: correlation.Options{
			Interval:  cfg.PollInterval,
			Name:      "replies",
			Logger:    logger,
			Recorder:  metrics.NewTimeoutMapRecorder("replies"),
			Scheduler: sch,
		},
	})
	if err != nil {
		return err
	}
	defer requestor.Close()

	r := &responder{
		deliver:  requestor.Deliver,
		dropRate: cfg.Demo.DropRate,
		maxDelay: cfg.Demo.MaxReplyDelay,
	}

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("serving metrics", slog.String("addr", cfg.MetricsAddr))

		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		return srv.Shutdown(ctx)
	})

	g.Go(func() error {
		return generate(ctx, logger, cfg, func(ctx context.Context) (string, error) {
			return requestor.Request(ctx, cfg.RequestTimeout, r.Send)
		})
	})

	return g.Wait()
}

// generate issues a request every cfg.Demo.Interval until ctx is done.
func generate(ctx context.Context, logger *slog.Logger, cfg *config.Config, request func(context.Context) (string, error)) error {
	var g errgroup.Group
	g.SetLimit(maxInFlight)

	t := time.NewTicker(cfg.Demo.Interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return g.Wait()
		case <-t.C:
			ok := g.TryGo(func() error {
				reply, err := request(ctx)
				switch {
				case err == nil:
					logger.Debug("reply", slog.String("reply", reply))
				case errors.Is(err, correlation.ErrTimeout):
					logger.Info("timeout", slog.String("err", err.Error()))
				case errors.Is(err, context.Canceled):
				default:
					logger.Error("request", slog.String("err", err.Error()))
				}

				// Failed requests are part of the simulation.
				return nil
			})
			if !ok {
				logger.Warn("too many requests in flight", slog.Int("limit", maxInFlight))
			}
		}
	}
}
