package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/gammalert/internal/pipeline"
)

var (
	runSymbol   string
	runDays     int
	runFreeform bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "분석 파이프라인 1회 실행",
	Long: `분석 파이프라인을 한 번 실행합니다.

이 명령어는:
- SpotGamma에서 Zero Gamma 레벨 조회
- FMP에서 일봉 OHLC 데이터 조회
- OpenRouter LLM으로 시장 분석 생성
- Telegram으로 분석 결과 전송

Telegram 전송 실패는 치명적이지 않습니다 (분석 자체는 성공).

Exit codes:
  0   - 파이프라인 성공
  1   - 파이프라인 실패
  130 - 사용자 중단 (Ctrl+C)

Example:
  go run ./cmd/gammalert run
  go run ./cmd/gammalert run --symbol NDX --days 45
  go run ./cmd/gammalert run --freeform`,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runSymbol, "symbol", "", "symbol to analyze (default from config)")
	runCmd.Flags().IntVar(&runDays, "days", 0, "daily bars to analyze (default from config)")
	runCmd.Flags().BoolVar(&runFreeform, "freeform", false, "use the free-text narrative variant")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	d, err := initDeps(pipeline.Options{
		HistoryDays: runDays,
		Freeform:    runFreeform,
	})
	if err != nil {
		return err
	}

	symbol := runSymbol
	if symbol == "" {
		symbol = d.cfg.Analysis.DefaultSymbol
	}

	// Ctrl+C cancels in-flight requests and exits 130
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ok := d.pipeline.Run(ctx, symbol)

	if ctx.Err() != nil {
		d.log.Warn("Interrupted by user")
		os.Exit(130)
	}

	if !ok {
		return fmt.Errorf("analysis pipeline failed for %s", symbol)
	}

	return nil
}
