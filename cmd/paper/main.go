package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/yanun0323/logs"

	"main/internal/engine"
	"main/internal/mdg"
	"main/internal/ops"
)

func main() {
	configPath := flag.String("config", "", "Path to JSON config")
	ticks := flag.Int("ticks", 0, "Override max ticks (0=use config)")
	eventLog := flag.String("event-log", "", "Override event log path")
	startPrice := flag.Float64("start-price", 50000, "Synthetic feed start price")
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
	if *ticks > 0 {
		cfg.Engine.MaxTicks = *ticks
	}
	if *eventLog != "" {
		cfg.Engine.EventLog = *eventLog
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

	gen := mdg.NewGenerator(mdg.Config{
		Seed:       *cfg.Engine.Seed,
		StartPrice: *startPrice,
		StartTime:  time.Now().UTC().Truncate(time.Minute),
	})

	logs.Infof("paper run starting, pair: %s ticks: %d", cfg.Exchange.Pair, cfg.Engine.MaxTicks)
	if err := eng.Run(ctx, gen); err != nil {
		logs.Warnf("run ended early: %v", err)
	}

	summary := eng.Summary()
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		log.Fatalf("marshal summary: %v", err)
	}
	fmt.Println(string(data))
}
