package notifier

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"kitflip/internal/domain/entity"
	"kitflip/pkg/logx"
)

const defaultTop = 10

type messageSender interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
}

type TelegramBot struct {
	bot    messageSender
	chatID int64
	top    int
}

func NewTelegramBot(token string, chatID int64, top int) (*TelegramBot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return newTelegramBot(bot, chatID, top), nil
}

func newTelegramBot(bot messageSender, chatID int64, top int) *TelegramBot {
	if top <= 0 {
		top = defaultTop
	}

	return &TelegramBot{
		bot:    bot,
		chatID: chatID,
		top:    top,
	}
}

// Publish отправляет топ выгодных флипов цикла. Флипы без цены и с отрицательной прибылью не отправляются.
func (b *TelegramBot) Publish(ctx context.Context, runID string, candidates []entity.FlipCandidate) error {
	text, ok := FormatTop(runID, candidates, b.top)
	if !ok {
		logger(ctx).Debug("no profitable flips to notify", slog.String(logx.FieldRunID, runID))
		return nil
	}

	msg := tu.Message(
		tu.ID(b.chatID),
		text,
	).WithParseMode(telego.ModeHTML)

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

// FormatTop собирает HTML-сообщение из первых top прибыльных кандидатов.
func FormatTop(runID string, candidates []entity.FlipCandidate, top int) (string, bool) {
	var b strings.Builder

	fmt.Fprintf(&b, "🔥 <b>Killstreak flips</b> (run <code>%s</code>)\n\n", html.EscapeString(runID))

	n := 0

	for _, c := range candidates {
		if n == top {
			break
		}

		if c.Profit == nil || *c.Profit <= 0 {
			continue
		}

		n++

		fmt.Fprintf(&b, "%d. <b>%s</b>: %s", n, html.EscapeString(c.Weapon), formatProfit(c))

		if c.BaseBuy != nil && c.KitSell != nil {
			fmt.Fprintf(&b, " (weapon %.2f, kit %.2f)", *c.BaseBuy, *c.KitSell)
		}

		b.WriteString("\n")
	}

	return b.String(), n > 0
}

func formatProfit(c entity.FlipCandidate) string {
	unit := "half-scrap"
	if c.Mode == entity.FlipModeRefined {
		unit = "listing"
	}

	if c.ProfitMax != nil {
		return fmt.Sprintf("%.2f…%.2f %s", *c.Profit, *c.ProfitMax, unit)
	}

	return fmt.Sprintf("%.2f %s", *c.Profit, unit)
}
