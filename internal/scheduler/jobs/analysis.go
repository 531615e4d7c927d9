package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/gammalert/internal/pipeline"
	"github.com/wonny/gammalert/pkg/logger"
)

// AnalysisJob runs the full analysis pipeline for a set of symbols
// ⭐ SSOT: 정기 분석 실행은 이 작업에서만
type AnalysisJob struct {
	pipeline *pipeline.Pipeline
	symbols  []string
	schedule string
	logger   *logger.Logger
}

// NewAnalysisJob creates the scheduled analysis job
func NewAnalysisJob(p *pipeline.Pipeline, symbols []string, schedule string, log *logger.Logger) *AnalysisJob {
	return &AnalysisJob{
		pipeline: p,
		symbols:  symbols,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *AnalysisJob) Name() string {
	return "market-analysis"
}

// Schedule returns the cron schedule expression
func (j *AnalysisJob) Schedule() string {
	return j.schedule
}

// Run executes the pipeline for each configured symbol.
// Symbols are independent: a failure for one does not stop the rest,
// but any failure marks the job run as failed.
func (j *AnalysisJob) Run(ctx context.Context) error {
	j.logger.WithField("symbols", j.symbols).Info("Running market analysis job")

	failed := 0
	for _, symbol := range j.symbols {
		if !j.pipeline.Run(ctx, symbol) {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("analysis failed for %d of %d symbols", failed, len(j.symbols))
	}

	return nil
}
