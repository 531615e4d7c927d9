package commands

import (
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/wonny/gammalert/internal/external/fmp"
	"github.com/wonny/gammalert/internal/external/openrouter"
	"github.com/wonny/gammalert/internal/external/spotgamma"
	"github.com/wonny/gammalert/internal/notify/telegram"
	"github.com/wonny/gammalert/internal/pipeline"
	"github.com/wonny/gammalert/pkg/config"
	"github.com/wonny/gammalert/pkg/httputil"
	"github.com/wonny/gammalert/pkg/logger"
)

// deps holds the wired application components
// ⭐ SSOT: 의존성 조립은 여기서만
type deps struct {
	cfg      *config.Config
	log      *logger.Logger
	pipeline *pipeline.Pipeline
}

// initDeps wires config, logger, HTTP clients and the pipeline
func initDeps(opts pipeline.Options) (*deps, error) {
	// 1. Load config (pre-flight: fails before any network call)
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if verbose {
		cfg.LogLevel = "debug"
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Create HTTP clients
	// LLM 응답은 느릴 수 있으므로 더 긴 타임아웃
	// 멀티 심볼 스케줄 실행 시 같은 프로바이더 연타 방지용 레이트 리밋
	fetchClient := httputil.New(log).WithRateLimiter(rate.Limit(2), 2)
	llmClient := httputil.NewWithTimeout(log, 60*time.Second)

	// 4. Create external API clients
	spotgammaClient := spotgamma.NewClient(fetchClient, cfg.SpotGamma.JWTSecret, cfg.SpotGamma.BaseURL, log)
	fmpClient := fmp.NewClient(fetchClient, cfg.FMP.APIKey, cfg.FMP.BaseURL, log)
	openrouterClient := openrouter.NewClient(llmClient, cfg.OpenRouter.APIKey, cfg.OpenRouter.BaseURL,
		cfg.OpenRouter.Model, cfg.OpenRouter.MaxTokens, log)

	// 5. Create Telegram sender
	sender := telegram.NewSender(cfg.Telegram, log)

	// 6. Create pipeline
	if opts.HistoryDays <= 0 {
		opts.HistoryDays = cfg.Analysis.HistoryDays
	}
	p := pipeline.New(spotgammaClient, fmpClient, openrouterClient, sender, log, opts)

	return &deps{
		cfg:      cfg,
		log:      log,
		pipeline: p,
	}, nil
}
