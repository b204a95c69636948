// Package ops loads and validates the engine runtime configuration.
package ops

import (
	"encoding/json"
	"os"

	"github.com/yanun0323/errors"
)

// FileConfig mirrors the JSON config layout.
type FileConfig struct {
	Engine    EngineConfig    `json:"engine"`
	Strategy  StrategyConfig  `json:"strategy"`
	Edge      EdgeConfig      `json:"edge"`
	Risk      RiskConfig      `json:"risk"`
	Execution ExecutionConfig `json:"execution"`
	Account   AccountConfig   `json:"account"`
	Exchange  ExchangeConfig  `json:"exchange"`
	Store     StoreConfig     `json:"store"`
	Notify    NotifyConfig    `json:"notify"`
}

// EngineConfig drives the tick loop. The seed feeds every pseudo-random
// draw; a pointer keeps an explicit zero distinguishable from an omitted one.
type EngineConfig struct {
	Seed             *int64  `json:"seed"`
	MaxTicks         int     `json:"max_ticks"`
	LoopSleepSeconds float64 `json:"loop_sleep_seconds"`
	EventLog         string  `json:"event_log"`
}

// StrategyConfig tunes the mean-reversion entry rule and its brackets.
type StrategyConfig struct {
	EMAPeriod         int     `json:"ema_period"`
	EntryDeviationPct float64 `json:"entry_deviation_pct"`
	TakeProfitPct     float64 `json:"take_profit_pct"`
	StopLossPct       float64 `json:"stop_loss_pct"`
}

// EdgeConfig tunes regime classification and the edge gate.
type EdgeConfig struct {
	VolatilityWindow       int      `json:"volatility_window"`
	VolatilityThreshold    float64  `json:"volatility_threshold"`
	TrendWindow            int      `json:"trend_window"`
	TrendStrengthThreshold float64  `json:"trend_strength_threshold"`
	RangeRatioThreshold    float64  `json:"range_ratio_threshold"`
	MinConfidence          *float64 `json:"min_confidence"`
}

// RiskConfig tunes sizing, daily caps and trade limits.
type RiskConfig struct {
	RiskPerTradePct     float64 `json:"risk_per_trade_pct"`
	MinNotional         float64 `json:"min_notional"`
	DailyProfitCapPct   float64 `json:"daily_profit_cap_pct"`
	DailyLossCapPct     float64 `json:"daily_loss_cap_pct"`
	MaxSignalsPerRegime int     `json:"max_signals_per_regime"`
	MaxTradesPerDay     int     `json:"max_trades_per_day"`
}

// ExecutionConfig tunes the fill simulator. Pointer fields distinguish an
// explicit zero from an omitted value.
type ExecutionConfig struct {
	PartialFillProbability *float64 `json:"partial_fill_probability"`
	MinPartialFillRatio    float64  `json:"min_partial_fill_ratio"`
	MaxPartialFillRatio    float64  `json:"max_partial_fill_ratio"`
	SlippageBps            *float64 `json:"slippage_bps"`
}

// AccountConfig seeds the paper account.
type AccountConfig struct {
	InitialQuoteBalance float64 `json:"initial_quote_balance"`
}

// ExchangeConfig describes the traded pair, its fee schedule and the live
// market data source.
type ExchangeConfig struct {
	Pair          string   `json:"pair"`
	FeeRate       *float64 `json:"fee_rate"`
	Symbol        string   `json:"symbol"`
	QueueCapacity int      `json:"queue_capacity"`
}

// StoreConfig describes the optional trade database.
type StoreConfig struct {
	Enabled  bool   `json:"enabled"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
	SSLMode  string `json:"ssl_mode"`
}

// NotifyConfig describes the optional mail notifier.
type NotifyConfig struct {
	Enabled           bool   `json:"enabled"`
	To                string `json:"to"`
	ThrottleStatePath string `json:"throttle_state_path"`
}

// Load reads a JSON config file, applies defaults and validates the result.
func Load(path string) (FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, errors.Wrap(err, "read config").With("path", path)
	}
	var cfg FileConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return FileConfig{}, errors.Wrap(err, "parse config").With("path", path)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return FileConfig{}, err
	}
	return cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() FileConfig {
	var cfg FileConfig
	cfg.applyDefaults()
	return cfg
}

func (c *FileConfig) applyDefaults() {
	if c.Engine.Seed == nil {
		seed := int64(42)
		c.Engine.Seed = &seed
	}
	if c.Engine.MaxTicks <= 0 {
		c.Engine.MaxTicks = 500
	}
	if c.Engine.LoopSleepSeconds < 0 {
		c.Engine.LoopSleepSeconds = 0
	}

	if c.Strategy.EMAPeriod <= 0 {
		c.Strategy.EMAPeriod = 20
	}
	if c.Strategy.EntryDeviationPct == 0 {
		c.Strategy.EntryDeviationPct = 0.02
	}
	if c.Strategy.TakeProfitPct == 0 {
		c.Strategy.TakeProfitPct = 0.015
	}
	if c.Strategy.StopLossPct == 0 {
		c.Strategy.StopLossPct = 0.01
	}

	if c.Edge.VolatilityWindow <= 0 {
		c.Edge.VolatilityWindow = 30
	}
	if c.Edge.VolatilityThreshold == 0 {
		c.Edge.VolatilityThreshold = 0.003
	}
	if c.Edge.TrendWindow <= 0 {
		c.Edge.TrendWindow = 50
	}
	if c.Edge.TrendStrengthThreshold == 0 {
		c.Edge.TrendStrengthThreshold = 0.005
	}
	if c.Edge.RangeRatioThreshold == 0 {
		c.Edge.RangeRatioThreshold = 0.4
	}
	if c.Edge.MinConfidence == nil {
		c.Edge.MinConfidence = ptr(0.66)
	}

	if c.Risk.RiskPerTradePct == 0 {
		c.Risk.RiskPerTradePct = 0.1
	}
	if c.Risk.MinNotional == 0 {
		c.Risk.MinNotional = 10
	}
	if c.Risk.DailyProfitCapPct == 0 {
		c.Risk.DailyProfitCapPct = 0.03
	}
	if c.Risk.DailyLossCapPct == 0 {
		c.Risk.DailyLossCapPct = 0.02
	}
	if c.Risk.MaxSignalsPerRegime <= 0 {
		c.Risk.MaxSignalsPerRegime = 3
	}
	if c.Risk.MaxTradesPerDay <= 0 {
		c.Risk.MaxTradesPerDay = 10
	}

	if c.Execution.PartialFillProbability == nil {
		c.Execution.PartialFillProbability = ptr(0.15)
	}
	if c.Execution.MinPartialFillRatio == 0 {
		c.Execution.MinPartialFillRatio = 0.3
	}
	if c.Execution.MaxPartialFillRatio == 0 {
		c.Execution.MaxPartialFillRatio = 0.9
	}
	if c.Execution.SlippageBps == nil {
		c.Execution.SlippageBps = ptr(2.0)
	}

	if c.Account.InitialQuoteBalance == 0 {
		c.Account.InitialQuoteBalance = 10000
	}

	if c.Exchange.Pair == "" {
		c.Exchange.Pair = "BTC/USDT"
	}
	if c.Exchange.FeeRate == nil {
		c.Exchange.FeeRate = ptr(0.001)
	}
	if c.Exchange.Symbol == "" {
		c.Exchange.Symbol = "BTCUSDT"
	}
	if c.Exchange.QueueCapacity <= 0 {
		c.Exchange.QueueCapacity = 256
	}

	if c.Store.SSLMode == "" {
		c.Store.SSLMode = "disable"
	}
	if c.Notify.ThrottleStatePath == "" {
		c.Notify.ThrottleStatePath = "last_email_sent.json"
	}
}

// Validate rejects configurations the engine cannot run with.
func (c FileConfig) Validate() error {
	if c.Edge.MinConfidence == nil || c.Exchange.FeeRate == nil ||
		c.Execution.PartialFillProbability == nil || c.Execution.SlippageBps == nil ||
		c.Engine.Seed == nil {
		return errors.New("config not normalized, build it with Load or Default")
	}
	if c.Account.InitialQuoteBalance <= 0 {
		return errors.Errorf("initial_quote_balance must be > 0, got %v", c.Account.InitialQuoteBalance)
	}
	if c.Risk.RiskPerTradePct <= 0 || c.Risk.RiskPerTradePct > 1 {
		return errors.Errorf("risk_per_trade_pct must be in (0, 1], got %v", c.Risk.RiskPerTradePct)
	}
	if c.Strategy.TakeProfitPct <= 0 || c.Strategy.StopLossPct <= 0 {
		return errors.New("take_profit_pct and stop_loss_pct must be > 0")
	}
	if c.Execution.MinPartialFillRatio > c.Execution.MaxPartialFillRatio {
		return errors.Errorf("min_partial_fill_ratio %v exceeds max_partial_fill_ratio %v",
			c.Execution.MinPartialFillRatio, c.Execution.MaxPartialFillRatio)
	}
	if p := *c.Execution.PartialFillProbability; p < 0 || p > 1 {
		return errors.Errorf("partial_fill_probability must be in [0, 1], got %v", p)
	}
	if *c.Exchange.FeeRate < 0 {
		return errors.New("fee_rate must be >= 0")
	}
	if *c.Execution.SlippageBps < 0 {
		return errors.New("slippage_bps must be >= 0")
	}
	return nil
}

// HistoryCapacity returns the candle history size the configured windows need.
func (c FileConfig) HistoryCapacity() int {
	capacity := c.Strategy.EMAPeriod
	if w := c.Edge.VolatilityWindow + 1; w > capacity {
		capacity = w
	}
	if w := c.Edge.TrendWindow; w > capacity {
		capacity = w
	}
	if capacity < 64 {
		capacity = 64
	}
	return capacity
}

func ptr(v float64) *float64 {
	return &v
}
