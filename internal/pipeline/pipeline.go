package pipeline

import (
	"context"
	"time"

	"github.com/wonny/gammalert/internal/external/fmp"
	"github.com/wonny/gammalert/internal/external/openrouter"
	"github.com/wonny/gammalert/internal/external/spotgamma"
	"github.com/wonny/gammalert/internal/notify/telegram"
	"github.com/wonny/gammalert/pkg/logger"
)

// LevelSource fetches the zero gamma level for a symbol
type LevelSource interface {
	FetchLevels(ctx context.Context, sym string) (*spotgamma.ZeroGammaLevel, error)
}

// HistorySource fetches recent daily price bars
type HistorySource interface {
	FetchDailyHistory(ctx context.Context, symbol string, days int) (*fmp.History, error)
}

// Analyst produces the market narrative, structured or free-text
type Analyst interface {
	Analyze(ctx context.Context, req openrouter.AnalysisRequest) (*openrouter.Narrative, error)
	AnalyzeText(ctx context.Context, req openrouter.AnalysisRequest) (string, error)
}

// Notifier delivers the formatted message; false means delivery failed
type Notifier interface {
	Send(ctx context.Context, text string) bool
}

// Options tunes a pipeline run
type Options struct {
	HistoryDays int  // Daily bars to analyze (default 30)
	Freeform    bool // Use the free-text narrative variant
}

// Pipeline sequences the analysis run:
// fetch level → fetch history → narrate → format → dispatch.
// ⭐ SSOT: 파이프라인 단계 순서와 실패 정책은 여기서만 결정
type Pipeline struct {
	levels   LevelSource
	history  HistorySource
	analyst  Analyst
	notifier Notifier
	logger   *logger.Logger
	opts     Options
}

// New creates a pipeline over the given step implementations
func New(levels LevelSource, history HistorySource, analyst Analyst, notifier Notifier, log *logger.Logger, opts Options) *Pipeline {
	if opts.HistoryDays <= 0 {
		opts.HistoryDays = 30
	}
	return &Pipeline{
		levels:   levels,
		history:  history,
		analyst:  analyst,
		notifier: notifier,
		logger:   log,
		opts:     opts,
	}
}

// Run executes the pipeline for one symbol. Steps 1-4 are fatal: the first
// error aborts the run and Run returns false. A delivery failure is
// non-fatal: the analysis was produced, so the run still counts as a
// success.
func (p *Pipeline) Run(ctx context.Context, symbol string) bool {
	log := p.logger.WithField("symbol", symbol)

	// Step 1: zero gamma level
	log.Infof("Step 1: Fetching zero gamma level for %s", symbol)
	level, err := p.levels.FetchLevels(ctx, symbol)
	if err != nil {
		log.WithError(err).Error("Pipeline failed: zero gamma fetch")
		return false
	}

	// Step 2: daily OHLC history (includes latest closing price)
	log.Infof("Step 2: Fetching %d-day OHLC history", p.opts.HistoryDays)
	history, err := p.history.FetchDailyHistory(ctx, symbol, p.opts.HistoryDays)
	if err != nil {
		log.WithError(err).Error("Pipeline failed: price history fetch")
		return false
	}

	// Step 3: narrative
	log.Info("Step 3: Requesting market analysis")
	req := openrouter.AnalysisRequest{
		Symbol:    symbol,
		ZeroGamma: level.ZeroGStrike,
		OHLCCSV:   history.CSV(),
	}

	// Step 4: format (structured preferred; free-text variant on request)
	var message string
	reportDate := p.reportDate(level)

	if p.opts.Freeform {
		text, err := p.analyst.AnalyzeText(ctx, req)
		if err != nil {
			log.WithError(err).Error("Pipeline failed: free-text analysis")
			return false
		}
		message = telegram.FormatRaw(symbol, reportDate, history.LatestClose(), level.ZeroGStrike, text)
	} else {
		narrative, err := p.analyst.Analyze(ctx, req)
		if err != nil {
			log.WithError(err).Error("Pipeline failed: structured analysis")
			return false
		}
		message = telegram.FormatAnalysis(symbol, reportDate, history.LatestClose(), level.ZeroGStrike, narrative)
	}

	// Step 5: dispatch (non-fatal)
	log.Info("Step 4: Sending analysis to Telegram")
	if !p.notifier.Send(ctx, message) {
		log.Warn("Pipeline completed but Telegram delivery failed (non-fatal)")
		return true
	}

	log.Info("Pipeline completed successfully")
	return true
}

// reportDate prefers the provider's trade date over the local clock
func (p *Pipeline) reportDate(level *spotgamma.ZeroGammaLevel) string {
	if level.TradeDate != "" {
		return level.TradeDate
	}
	return time.Now().Format("2006-01-02 15:04:05")
}
