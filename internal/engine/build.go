package engine

import (
	"time"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"

	"main/internal/account"
	"main/internal/broker"
	"main/internal/edge"
	"main/internal/model"
	"main/internal/obs"
	"main/internal/ops"
	"main/internal/recorder"
	"main/internal/risk"
	"main/internal/store"
	"main/internal/strategy"
	"main/pkg/conn"
)

// Build assembles an engine from a loaded configuration.
func Build(cfg ops.FileConfig) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "build engine")
	}

	var tradeStore *store.Store
	if cfg.Store.Enabled {
		s, err := store.New(conn.Option{
			Host:     cfg.Store.Host,
			Port:     cfg.Store.Port,
			User:     cfg.Store.User,
			Password: cfg.Store.Password,
			Database: cfg.Store.Database,
			SSLMode:  cfg.Store.SSLMode,
		})
		if err != nil {
			return nil, err
		}
		tradeStore = s
	}

	var events *recorder.Writer
	if cfg.Engine.EventLog != "" {
		w, err := recorder.NewWriter(cfg.Engine.EventLog)
		if err != nil {
			return nil, err
		}
		events = w
	}

	engineCfg := Config{
		Pair:                cfg.Exchange.Pair,
		TakeProfitPct:       cfg.Strategy.TakeProfitPct,
		StopLossPct:         cfg.Strategy.StopLossPct,
		MaxTicks:            cfg.Engine.MaxTicks,
		LoopSleep:           time.Duration(cfg.Engine.LoopSleepSeconds * float64(time.Second)),
		Warmup:              cfg.HistoryCapacity(),
		MaxSignalsPerRegime: cfg.Risk.MaxSignalsPerRegime,
		MaxTradesPerDay:     cfg.Risk.MaxTradesPerDay,
	}

	logs.Infof("engine built, pair: %s max_ticks: %d warmup: %d",
		engineCfg.Pair, engineCfg.MaxTicks, engineCfg.Warmup)

	return New(engineCfg, Components{
		History: model.NewHistory(cfg.HistoryCapacity()),
		Detector: edge.NewDetector(edge.DetectorConfig{
			VolatilityWindow:    cfg.Edge.VolatilityWindow,
			TrendWindow:         cfg.Edge.TrendWindow,
			RangeRatioThreshold: cfg.Edge.RangeRatioThreshold,
		}),
		Gate: edge.NewGate(edge.GateConfig{
			VolatilityThreshold:    cfg.Edge.VolatilityThreshold,
			TrendStrengthThreshold: cfg.Edge.TrendStrengthThreshold,
			MinConfidence:          *cfg.Edge.MinConfidence,
		}),
		Strategy: strategy.NewMeanReversion(strategy.MeanReversionConfig{
			EMAPeriod:         cfg.Strategy.EMAPeriod,
			EntryDeviationPct: cfg.Strategy.EntryDeviationPct,
		}),
		Limits:  risk.NewDailyLimits(cfg.Risk.DailyProfitCapPct, cfg.Risk.DailyLossCapPct),
		Sizer:   risk.NewPositionSizer(cfg.Risk.RiskPerTradePct, cfg.Risk.MinNotional),
		Limiter: risk.NewTradeLimiter(cfg.Risk.MaxSignalsPerRegime, cfg.Risk.MaxTradesPerDay),
		Sim: broker.NewSimulator(broker.Config{
			FeeRate:                *cfg.Exchange.FeeRate,
			PartialFillProbability: *cfg.Execution.PartialFillProbability,
			MinPartialFillRatio:    cfg.Execution.MinPartialFillRatio,
			MaxPartialFillRatio:    cfg.Execution.MaxPartialFillRatio,
			SlippageBps:            *cfg.Execution.SlippageBps,
			Seed:                   *cfg.Engine.Seed,
		}),
		Balance: account.NewBalance(cfg.Account.InitialQuoteBalance),
		Stats:   account.NewStats(cfg.Account.InitialQuoteBalance),
		Metrics: obs.NewMetrics(),
		Store:   tradeStore,
		Events:  events,
	}), nil
}
