// Package discord answers Discord messages that mention the bot with a
// generated verse.
package discord

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
	"github.com/masaki925/marcov-rap/internal/logger"
	"github.com/masaki925/marcov-rap/pkg/server"
)

const replyTimeout = 30 * time.Second

// failureReply is posted when generation fails; details stay in the log.
const failureReply = ":warning: ラップが出てこなかった、もう一回頼む"

// sender is the part of *discordgo.Session used to reply.
type sender interface {
	ChannelMessageSend(channelID, content string) (*discordgo.Message, error)
}

// Bot is a Discord front end for the generator.
type Bot struct {
	session *discordgo.Session
	gen     server.Generator
	mode    string
	log     *log.Logger
}

// New creates a bot session for token. Call Open to connect.
func New(token string, gen server.Generator, mode string) (*Bot, error) {
	if token == "" {
		return nil, errors.New("discord: empty bot token")
	}
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	b := &Bot{session: session, gen: gen, mode: mode, log: logger.New("discord")}
	session.AddHandler(b.onMessageCreate)
	return b, nil
}

// Open connects to the gateway.
func (b *Bot) Open() error {
	return b.session.Open()
}

// Close disconnects.
func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if s.State == nil || s.State.User == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
	defer cancel()
	b.respond(ctx, s, s.State.User.ID, m.Message)
}

func (b *Bot) respond(ctx context.Context, s sender, botID string, m *discordgo.Message) {
	verse, ok := Verse(botID, m)
	if !ok {
		return
	}
	text, err := b.gen.Generate(ctx, b.mode, verse)
	if err != nil {
		b.log.Error("Generation failed", "channel", m.ChannelID, "err", err)
		s.ChannelMessageSend(m.ChannelID, failureReply)
		return
	}
	if _, err := s.ChannelMessageSend(m.ChannelID, text); err != nil {
		b.log.Error("Sending message", "channel", m.ChannelID, "err", err)
	}
}

// Verse returns the text of m addressed to the bot, without the mention.
// Messages by the bot itself or not mentioning it are ignored.
func Verse(botID string, m *discordgo.Message) (string, bool) {
	if m == nil || m.Author == nil || m.Author.ID == botID {
		return "", false
	}
	mentioned := false
	for _, u := range m.Mentions {
		if u.ID == botID {
			mentioned = true
			break
		}
	}
	if !mentioned {
		return "", false
	}
	verse := m.Content
	for _, tag := range []string{"<@" + botID + ">", "<@!" + botID + ">"} {
		verse = strings.ReplaceAll(verse, tag, "")
	}
	verse = strings.TrimSpace(verse)
	return verse, verse != ""
}
