package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/yungbote/craftledger/internal/prompt"
)

// Channel implements prompt.Channel over the REST API.
type Channel struct {
	dg *discordgo.Session
}

func (c *Channel) SelfID() string {
	if c.dg.State == nil || c.dg.State.User == nil {
		return ""
	}
	return c.dg.State.User.ID
}

func (c *Channel) RecentMessages(ctx context.Context, channelID string, limit int) ([]prompt.Message, error) {
	msgs, err := c.dg.ChannelMessages(channelID, limit, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	out := make([]prompt.Message, 0, len(msgs))
	for _, m := range msgs {
		if m == nil || m.Author == nil {
			continue
		}
		out = append(out, prompt.Message{ID: m.ID, AuthorID: m.Author.ID})
	}
	return out, nil
}

func (c *Channel) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	return c.dg.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx))
}

func (c *Channel) SendGrid(ctx context.Context, channelID, content string, rows [][]prompt.Button) error {
	_, err := c.dg.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:    content,
		Components: Components(rows),
	}, discordgo.WithContext(ctx))
	return err
}

// Components renders each grid row as one action row of primary buttons.
func Components(rows [][]prompt.Button) []discordgo.MessageComponent {
	out := make([]discordgo.MessageComponent, 0, len(rows))
	for _, row := range rows {
		buttons := make([]discordgo.MessageComponent, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, discordgo.Button{
				Label:    b.Label,
				Style:    discordgo.PrimaryButton,
				CustomID: b.CustomID,
			})
		}
		out = append(out, discordgo.ActionsRow{Components: buttons})
	}
	return out
}
