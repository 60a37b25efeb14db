package discord

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/masaki925/marcov-rap/internal/logger"
)

type sent struct {
	channel, content string
}

type fakeSender struct {
	messages []sent
}

func (f *fakeSender) ChannelMessageSend(channelID, content string) (*discordgo.Message, error) {
	f.messages = append(f.messages, sent{channelID, content})
	return &discordgo.Message{ChannelID: channelID, Content: content}, nil
}

type failingGenerator struct{}

func (failingGenerator) Generate(context.Context, string, string) (string, error) {
	return "", errors.New("query chain store: open /srv/rap/chain.db: permission denied")
}

type echoGenerator struct{}

func (echoGenerator) Generate(_ context.Context, mode, prompt string) (string, error) {
	return mode + ":" + prompt, nil
}

func TestVerse(t *testing.T) {
	bot := &discordgo.User{ID: "1"}
	user := &discordgo.User{ID: "2"}
	tests := []struct {
		name string
		msg  *discordgo.Message
		want string
		ok   bool
	}{
		{"mention", &discordgo.Message{Author: user, Content: "<@1> 野球", Mentions: []*discordgo.User{bot}}, "野球", true},
		{"nick mention", &discordgo.Message{Author: user, Content: "<@!1>  猫 ", Mentions: []*discordgo.User{bot}}, "猫", true},
		{"no mention", &discordgo.Message{Author: user, Content: "野球"}, "", false},
		{"own message", &discordgo.Message{Author: bot, Content: "<@1> 野球", Mentions: []*discordgo.User{bot}}, "", false},
		{"mention only", &discordgo.Message{Author: user, Content: "<@1>", Mentions: []*discordgo.User{bot}}, "", false},
	}
	for _, tt := range tests {
		got, ok := Verse("1", tt.msg)
		if got != tt.want || ok != tt.ok {
			t.Errorf("%s: Verse() = %q, %v; want %q, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRespond(t *testing.T) {
	b := &Bot{gen: echoGenerator{}, mode: "rhyme", log: logger.New("test")}
	s := &fakeSender{}
	b.respond(context.Background(), s, "1", &discordgo.Message{
		ChannelID: "c",
		Author:    &discordgo.User{ID: "2"},
		Content:   "<@1> 野球",
		Mentions:  []*discordgo.User{{ID: "1"}},
	})
	if len(s.messages) != 1 || s.messages[0] != (sent{"c", "rhyme:野球"}) {
		t.Errorf("sent = %v", s.messages)
	}
}

func TestRespondHidesErrors(t *testing.T) {
	b := &Bot{gen: failingGenerator{}, mode: "rhyme", log: logger.New("test")}
	s := &fakeSender{}
	b.respond(context.Background(), s, "1", &discordgo.Message{
		ChannelID: "c",
		Author:    &discordgo.User{ID: "2"},
		Content:   "<@1> 野球",
		Mentions:  []*discordgo.User{{ID: "1"}},
	})
	if len(s.messages) != 1 || s.messages[0].content != failureReply {
		t.Fatalf("sent = %v, want the generic failure reply", s.messages)
	}
	if strings.Contains(s.messages[0].content, "chain.db") {
		t.Errorf("reply leaks error details: %q", s.messages[0].content)
	}
}
