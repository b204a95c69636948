package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/account"
	"main/internal/broker"
	"main/internal/edge"
	"main/internal/model"
	"main/internal/obs"
	"main/internal/risk"
	"main/internal/strategy"
)

type stubStrategy struct{}

func (stubStrategy) Generate(ts time.Time, closes []float64) (strategy.Signal, bool) {
	return strategy.Signal{
		Ts: ts, Side: strategy.SideBuy, Action: strategy.ActionEnter,
		Confidence: 1, Reason: "stub",
	}, true
}

type testSetup struct {
	cfg  Config
	comp Components
}

func permissiveSetup() testSetup {
	initial := 10000.0
	return testSetup{
		cfg: Config{
			Pair:                "BTC/USDT",
			TakeProfitPct:       0.015,
			StopLossPct:         0.01,
			MaxTicks:            100,
			MaxSignalsPerRegime: 10,
			MaxTradesPerDay:     10,
		},
		comp: Components{
			History: model.NewHistory(64),
			Detector: edge.NewDetector(edge.DetectorConfig{
				VolatilityWindow:    5,
				TrendWindow:         5,
				RangeRatioThreshold: 1.0,
			}),
			Gate: edge.NewGate(edge.GateConfig{
				VolatilityThreshold:    1.0,
				TrendStrengthThreshold: 1.0,
				MinConfidence:          0,
			}),
			Strategy: strategy.NewMeanReversion(strategy.MeanReversionConfig{
				EMAPeriod:         20,
				EntryDeviationPct: 0.02,
			}),
			Limits:  risk.NewDailyLimits(0.5, 0.5),
			Sizer:   risk.NewPositionSizer(0.1, 10),
			Limiter: risk.NewTradeLimiter(10, 10),
			Sim: broker.NewSimulator(broker.Config{
				FeeRate: 0.001,
				Seed:    42,
			}),
			Balance: account.NewBalance(initial),
			Stats:   account.NewStats(initial),
			Metrics: obs.NewMetrics(),
		},
	}
}

func flatCandle(ts time.Time, close float64) model.Candle {
	return model.Candle{Ts: ts, Open: close, High: close + 0.5, Low: close - 0.5, Close: close, Volume: 1}
}

func TestEngineEntryAndTakeProfitRoundTrip(t *testing.T) {
	s := permissiveSetup()
	e := New(s.cfg, s.comp)

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 30; i++ {
		res := e.Step(flatCandle(base.Add(time.Duration(i)*time.Minute), 100))
		require.Equal(t, obs.OutcomeNoSignal, res.Outcome, "tick %d", i)
	}

	// close 3% below the flat EMA triggers a mean-reversion entry
	dipTs := base.Add(30 * time.Minute)
	res := e.Step(model.Candle{Ts: dipTs, Open: 100, High: 100.5, Low: 96.5, Close: 97, Volume: 1})
	require.Equal(t, obs.OutcomeEntry, res.Outcome)
	assert.Contains(t, res.Reason, "mean_revert_deviation=")

	pos, open := s.comp.Sim.Position()
	require.True(t, open)
	assert.Equal(t, 97.0, pos.EntryPrice)
	assert.InDelta(t, 10.309278, pos.Qty, 1e-6)
	assert.InDelta(t, 98.455, pos.TPPrice, 1e-9)

	// next candle clears the take-profit bracket
	res = e.Step(model.Candle{Ts: dipTs.Add(time.Minute), Open: 97, High: 99, Low: 96.5, Close: 98.6, Volume: 1})
	require.Equal(t, obs.OutcomeExit, res.Outcome)
	assert.Equal(t, broker.ExitTakeProfit, res.Reason)

	_, open = s.comp.Sim.Position()
	assert.False(t, open)

	assert.Equal(t, 1, s.comp.Stats.TradesClosed)
	assert.Equal(t, 1, s.comp.Stats.Wins)
	// the exit fill is realized below the close-marked peak but is not an
	// equity sample, so the drawdown series stays at zero
	assert.Equal(t, 0.0, s.comp.Stats.MaxDrawdown)
	assert.InDelta(t, 0.0, s.comp.Balance.BaseFree, 1e-9)
	assert.InDelta(t, 10014.478, s.comp.Balance.QuoteFree, 0.01)

	summary := e.Summary()
	assert.Greater(t, summary.DailyPnL, 0.0)
	assert.Equal(t, 1.0, summary.WinRate)

	assert.Equal(t, uint64(1), e.Metrics().Count(obs.OutcomeEntry))
	assert.Equal(t, uint64(1), e.Metrics().Count(obs.OutcomeExit))
}

func TestEngineConsumesAttemptsBeforeGateVerdict(t *testing.T) {
	s := permissiveSetup()
	// gate can never switch on, but signals still consume regime attempts
	s.comp.Gate = edge.NewGate(edge.GateConfig{
		VolatilityThreshold:    1.0,
		TrendStrengthThreshold: 1.0,
		MinConfidence:          1.1,
	})
	s.comp.Strategy = stubStrategy{}
	s.comp.Limiter = risk.NewTradeLimiter(2, 10)
	e := New(s.cfg, s.comp)

	// the edge-off skip wins over the exhausted attempt budget, every tick
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		res := e.Step(flatCandle(base.Add(time.Duration(i)*time.Minute), 100))
		assert.Equal(t, obs.OutcomeEdgeOff, res.Outcome)
	}

	// the first two ticks consumed the regime budget anyway
	key := s.comp.Detector.Classify(s.comp.History).Key()
	allowed, reason := s.comp.Limiter.AllowSignal(key)
	assert.False(t, allowed)
	assert.Equal(t, risk.ReasonRegimeAttemptCap, reason)
}

func TestEngineLimitedAfterAttemptBudget(t *testing.T) {
	s := permissiveSetup()
	s.comp.Strategy = stubStrategy{}
	s.comp.Limiter = risk.NewTradeLimiter(1, 10)
	e := New(s.cfg, s.comp)

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	res := e.Step(flatCandle(base, 100))
	require.Equal(t, obs.OutcomeEntry, res.Outcome)

	// the limiter verdict fires before the open position is even considered
	res = e.Step(flatCandle(base.Add(time.Minute), 100))
	assert.Equal(t, obs.OutcomeLimited, res.Outcome)
	assert.Equal(t, risk.ReasonRegimeAttemptCap, res.Reason)

	_, open := s.comp.Sim.Position()
	assert.True(t, open)
}

func TestEngineDailyStopSuppressesExitCheck(t *testing.T) {
	s := permissiveSetup()
	s.comp.Strategy = stubStrategy{}
	s.comp.Limits = risk.NewDailyLimits(0.0001, 0.5)
	e := New(s.cfg, s.comp)

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	res := e.Step(flatCandle(base, 100))
	require.Equal(t, obs.OutcomeEntry, res.Outcome)

	// the rally trips the profit cap before the exit check runs,
	// so the open position carries over untouched
	res = e.Step(model.Candle{Ts: base.Add(time.Minute), Open: 100, High: 210, Low: 99, Close: 200, Volume: 1})
	require.Equal(t, obs.OutcomeDailyStop, res.Outcome)
	assert.Equal(t, risk.ReasonProfitCapHit, res.Reason)

	_, open := s.comp.Sim.Position()
	assert.True(t, open)

	// rolling the day releases the stop and the exit finally fires
	e.StartNewDay()
	res = e.Step(model.Candle{Ts: base.Add(2 * time.Minute), Open: 200, High: 201, Low: 199, Close: 200, Volume: 1})
	require.Equal(t, obs.OutcomeExit, res.Outcome)
	assert.Equal(t, broker.ExitTakeProfit, res.Reason)
}

func TestEngineRejectsMalformedCandles(t *testing.T) {
	s := permissiveSetup()
	e := New(s.cfg, s.comp)

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for _, candle := range []model.Candle{
		{Ts: base, Open: 100, High: 101, Low: 99, Close: -5, Volume: 1},
		{Ts: base, Open: 100, High: 98, Low: 99, Close: 100, Volume: 1},
		{Open: 100, High: 101, Low: 99, Close: 100, Volume: 1},
	} {
		res := e.Step(candle)
		assert.Equal(t, obs.OutcomeMalformed, res.Outcome)
	}

	assert.Equal(t, 0, s.comp.History.Len())
	assert.Equal(t, uint64(3), e.Metrics().Count(obs.OutcomeMalformed))
}

func TestEngineInsufficientBalance(t *testing.T) {
	s := permissiveSetup()
	s.comp.Strategy = stubStrategy{}
	s.comp.Balance = account.NewBalance(5)
	s.comp.Stats = account.NewStats(5)
	s.comp.Sizer = risk.NewPositionSizer(0.1, 10)
	e := New(s.cfg, s.comp)

	res := e.Step(flatCandle(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), 100))
	assert.Equal(t, obs.OutcomeInsufficientBalance, res.Outcome)
}

func TestEnginePositionOpenBlocksReentry(t *testing.T) {
	s := permissiveSetup()
	s.comp.Strategy = stubStrategy{}
	e := New(s.cfg, s.comp)

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	res := e.Step(flatCandle(base, 100))
	require.Equal(t, obs.OutcomeEntry, res.Outcome)

	// inside the bracket: no exit, and the persistent signal cannot re-enter
	res = e.Step(flatCandle(base.Add(time.Minute), 100.5))
	assert.Equal(t, obs.OutcomePositionOpen, res.Outcome)

	pos, open := s.comp.Sim.Position()
	require.True(t, open)
	assert.Equal(t, 100.0, pos.EntryPrice)
	assert.Equal(t, 1, s.comp.Limiter.TradeCount())
}

type scriptedFeed struct {
	candles []model.Candle
	next    int
	stopped bool
}

func (f *scriptedFeed) Next(ctx context.Context) (model.Candle, error) {
	if f.next >= len(f.candles) {
		return model.Candle{}, context.Canceled
	}
	c := f.candles[f.next]
	f.next++
	return c, nil
}

func (f *scriptedFeed) Stop() { f.stopped = true }

func TestEngineRunStreamWarmupDoesNotConsumeTicks(t *testing.T) {
	s := permissiveSetup()
	s.cfg.Warmup = 3
	s.cfg.MaxTicks = 5
	e := New(s.cfg, s.comp)

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	feed := &scriptedFeed{}
	for i := 0; i < 20; i++ {
		feed.candles = append(feed.candles, flatCandle(base.Add(time.Duration(i)*time.Minute), 100))
	}

	require.NoError(t, e.RunStream(context.Background(), feed))

	// 3 warmup candles seed the history, then 5 counted ticks run
	assert.Equal(t, 8, feed.next)
	assert.Equal(t, 8, s.comp.History.Len())
	assert.Equal(t, uint64(5), e.Metrics().Snapshot().Ticks)
	assert.True(t, feed.stopped)
}
