package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	pyroscope "github.com/grafana/pyroscope-go"
	"github.com/joho/godotenv"
	"github.com/yanun0323/logs"

	"main/internal/engine"
	"main/internal/ingest"
	"main/internal/notify"
	"main/internal/ops"
	"main/internal/recorder"
)

func main() {
	configPath := flag.String("config", "", "Path to JSON config")
	profileAddr := flag.String("profile-addr", "", "Pyroscope server address (empty=disabled)")
	flag.Parse()

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := ops.Default()
	if *configPath != "" {
		loaded, err := ops.Load(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}

	if *profileAddr != "" {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: "paper-trader",
			ServerAddress:   *profileAddr,
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileAllocObjects,
				pyroscope.ProfileInuseSpace,
			},
		})
		if err != nil {
			log.Fatalf("pyroscope start failed: %v", err)
		}
		defer func() {
			_ = profiler.Stop()
		}()
	}

	eng, err := engine.Build(cfg)
	if err != nil {
		log.Fatalf("build engine: %v", err)
	}
	defer func() {
		if err := eng.Close(); err != nil {
			logs.Errorf("close engine: %v", err)
		}
	}()

	var notifier notify.Notifier
	if cfg.Notify.Enabled {
		mailer, err := notify.NewMailer(cfg.Notify.To)
		if err != nil {
			log.Fatalf("build mailer: %v", err)
		}
		notifier = notify.NewThrottle(mailer, 24*time.Hour, cfg.Notify.ThrottleStatePath)
	}

	feed := ingest.NewLiveFeed(cfg.Exchange.Symbol, cfg.Exchange.QueueCapacity)
	if err := feed.Start(ctx); err != nil {
		log.Fatalf("start feed: %v", err)
	}

	logs.Infof("live run starting, symbol: %s ticks: %d", cfg.Exchange.Symbol, cfg.Engine.MaxTicks)
	if err := eng.RunStream(ctx, feed); err != nil && ctx.Err() == nil {
		logs.Errorf("stream ended: %v", err)
		if notifier != nil {
			if nerr := notifier.Notify("stream_error", err.Error()); nerr != nil {
				logs.Errorf("notify: %v", nerr)
			}
		}
	}

	summary := eng.Summary()
	logs.Infof("run summary: pnl=%.2f win_rate=%.2f max_dd=%.4f trades=%d",
		summary.DailyPnL, summary.WinRate, summary.MaxDrawdown, summary.TradesClosed)

	if cfg.Engine.EventLog != "" {
		sendDailySummary(cfg.Engine.EventLog, notifier)
	}
}

func sendDailySummary(eventLog string, notifier notify.Notifier) {
	day := time.Now().UTC()
	events, err := recorder.ReadDay(eventLog, day)
	if err != nil {
		logs.Warnf("read event log: %v", err)
		return
	}

	summary := recorder.Summarize(day, events)
	logs.Info(summary.String())

	if notifier != nil {
		if err := notifier.Notify("daily_summary", summary.String()); err != nil {
			logs.Errorf("notify daily summary: %v", err)
		}
	}
}
