package notifier

import (
	"context"
	"errors"
	"testing"

	"github.com/mymmrac/telego"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"kitflip/internal/domain/entity"
)

type senderStub struct {
	sent []*telego.SendMessageParams
	err  error
}

func (s *senderStub) SendMessage(_ context.Context, params *telego.SendMessageParams) (*telego.Message, error) {
	s.sent = append(s.sent, params)

	if s.err != nil {
		return nil, s.err
	}

	return &telego.Message{}, nil
}

func testCandidates() []entity.FlipCandidate {
	return []entity.FlipCandidate{
		{
			Weapon:  "Minigun",
			Mode:    entity.FlipModeRefined,
			BaseBuy: lo.ToPtr(10.0),
			KitSell: lo.ToPtr(4.0),
			Profit:  lo.ToPtr(6.0),
		},
		{Weapon: "Huo-Long <Heater>", Mode: entity.FlipModeCoarse, Profit: lo.ToPtr(3.0), ProfitMax: lo.ToPtr(9.0)},
		{Weapon: "Scattergun", Mode: entity.FlipModeCoarse, Profit: lo.ToPtr(-1.0)},
		{Weapon: "Sniper Rifle", Mode: entity.FlipModeCoarse},
	}
}

func TestFormatTop(t *testing.T) {
	rq := require.New(t)

	text, ok := FormatTop("run-1", testCandidates(), 10)
	rq.True(ok)
	rq.Contains(text, "1. <b>Minigun</b>: 6.00 listing (weapon 10.00, kit 4.00)")
	rq.Contains(text, "2. <b>Huo-Long &lt;Heater&gt;</b>: 3.00…9.00 half-scrap")
	rq.NotContains(text, "Scattergun")
	rq.NotContains(text, "Sniper Rifle")

	text, ok = FormatTop("run-1", testCandidates(), 1)
	rq.True(ok)
	rq.NotContains(text, "Huo-Long")

	_, ok = FormatTop("run-1", testCandidates()[2:], 10)
	rq.False(ok)
}

func TestTelegramBotPublish(t *testing.T) {
	rq := require.New(t)

	sender := &senderStub{}
	bot := newTelegramBot(sender, 42, 0)

	rq.NoError(bot.Publish(context.Background(), "run-1", testCandidates()))
	rq.Len(sender.sent, 1)
	rq.Equal(telego.ModeHTML, sender.sent[0].ParseMode)
	rq.Equal(int64(42), sender.sent[0].ChatID.ID)

	rq.NoError(bot.Publish(context.Background(), "run-2", nil))
	rq.Len(sender.sent, 1)

	sender.err = errors.New("forbidden")
	rq.Error(bot.Publish(context.Background(), "run-3", testCandidates()))
}
