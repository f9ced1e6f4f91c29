package discord

import (
	"context"
	"errors"
	"strings"

	"animal-rfid-relay/internal/platform/errs"
	"animal-rfid-relay/internal/ports/notify"

	"github.com/bwmarrin/discordgo"
)

var ErrNotConfigured = errors.New("discord bot not configured")

// Límite de Discord por mensaje.
const maxContentLen = 2000

type channelSender interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type Notifier struct {
	sender     channelSender
	channelIDs []string
}

var _ notify.Notifier = (*Notifier)(nil)

// New usa la REST API con el token del bot; no abre el gateway.
func New(token string, channelIDs []string) (*Notifier, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrNotConfigured
	}
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, errs.Wrap(err, "discord session")
	}
	return newNotifier(s, channelIDs), nil
}

func newNotifier(s channelSender, channelIDs []string) *Notifier {
	return &Notifier{sender: s, channelIDs: append([]string(nil), channelIDs...)}
}

func (n *Notifier) Send(ctx context.Context, msg notify.Message) error {
	content := msg.Text
	if r := []rune(content); len(r) > maxContentLen {
		content = string(r[:maxContentLen])
	}

	var failed []error
	for _, id := range n.channelIDs {
		if err := ctx.Err(); err != nil {
			failed = append(failed, errs.Wrapf(err, "discord channel %s", id))
			continue
		}
		if _, err := n.sender.ChannelMessageSend(id, content, discordgo.WithContext(ctx)); err != nil {
			failed = append(failed, errs.Wrapf(err, "discord channel %s", id))
		}
	}
	return errors.Join(failed...)
}
