package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/gammalert/internal/notify/telegram"
	"github.com/wonny/gammalert/pkg/config"
	"github.com/wonny/gammalert/pkg/logger"
)

// testTelegramCmd represents the test-telegram command
var testTelegramCmd = &cobra.Command{
	Use:   "test-telegram",
	Short: "Telegram 전송 테스트",
	Long: `설정된 봇 토큰과 채팅 ID로 테스트 메시지를 전송합니다.

파이프라인 전체를 돌리지 않고 Telegram 설정만 검증할 때 사용합니다.

Example:
  go run ./cmd/gammalert test-telegram`,
	RunE: testTelegram,
}

var testMessage string

func init() {
	rootCmd.AddCommand(testTelegramCmd)

	testTelegramCmd.Flags().StringVar(&testMessage, "message", "Test message", "message body to send")
}

func testTelegram(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)
	sender := telegram.NewSender(cfg.Telegram, log)

	message := fmt.Sprintf("<b>Gammalert</b>\n<i>%s</i>\n\n%s",
		time.Now().Format("2006-01-02 15:04:05"), telegram.NormalizeBody(testMessage))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if !sender.Send(ctx, message) {
		return fmt.Errorf("telegram delivery failed (check TELEGRAM_BOT_TOKEN / TELEGRAM_CHAT_ID)")
	}

	fmt.Println("Test message sent")
	return nil
}
