package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gammalert",
	Short: "Gammalert - Zero Gamma 기반 시장 분석 알림",
	Long: `Gammalert CLI

SpotGamma의 Zero Gamma 레벨과 FMP 일봉 데이터를 수집하고,
OpenRouter LLM으로 시장 분석을 생성해 Telegram으로 전송합니다.

Usage:
  go run ./cmd/gammalert [command]

Examples:
  go run ./cmd/gammalert run
  go run ./cmd/gammalert run --symbol NDX --days 45
  go run ./cmd/gammalert scheduler start
  go run ./cmd/gammalert test-telegram`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
