package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/yungbote/craftledger/internal/bridge"
)

// DisplayName prefers the guild nickname, then the account username.
func DisplayName(member *discordgo.Member, user *discordgo.User) string {
	if member != nil && member.Nick != "" {
		return member.Nick
	}
	if user != nil {
		return user.Username
	}
	if member != nil && member.User != nil {
		return member.User.Username
	}
	return ""
}

func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// selectEvent accepts button clicks only.
func selectEvent(dg *discordgo.Session, i *discordgo.InteractionCreate) (bridge.SelectEvent, bool) {
	if i == nil || i.Interaction == nil || i.Type != discordgo.InteractionMessageComponent {
		return bridge.SelectEvent{}, false
	}
	data := i.MessageComponentData()
	if data.ComponentType != discordgo.ButtonComponent {
		return bridge.SelectEvent{}, false
	}
	user := interactionUser(i)
	if user == nil {
		return bridge.SelectEvent{}, false
	}
	ev := bridge.SelectEvent{
		ChannelID:   i.ChannelID,
		UserID:      user.ID,
		DisplayName: DisplayName(i.Member, user),
		CustomID:    data.CustomID,
	}
	if dg != nil {
		ev.Respond = &interactionResponder{dg: dg, i: i.Interaction}
	}
	return ev, true
}

func messageEvent(dg *discordgo.Session, m *discordgo.MessageCreate) (bridge.MessageEvent, bool) {
	if m == nil || m.Message == nil || m.Author == nil {
		return bridge.MessageEvent{}, false
	}
	ev := bridge.MessageEvent{
		ChannelID:   m.ChannelID,
		MessageID:   m.ID,
		AuthorID:    m.Author.ID,
		AuthorIsBot: m.Author.Bot,
		DisplayName: DisplayName(m.Member, m.Author),
		Content:     m.Content,
		At:          m.Timestamp,
	}
	if dg != nil {
		ev.Respond = &messageResponder{dg: dg, m: m.Message}
	}
	return ev, true
}

type interactionResponder struct {
	dg *discordgo.Session
	i  *discordgo.Interaction
}

func (r *interactionResponder) ReplyEphemeral(ctx context.Context, content string) error {
	return r.dg.InteractionRespond(r.i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}, discordgo.WithContext(ctx))
}

type messageResponder struct {
	dg *discordgo.Session
	m  *discordgo.Message
}

func (r *messageResponder) Reply(ctx context.Context, content string) error {
	_, err := r.dg.ChannelMessageSendReply(r.m.ChannelID, content, r.m.Reference(), discordgo.WithContext(ctx))
	return err
}

func (r *messageResponder) React(ctx context.Context, emoji string) error {
	return r.dg.MessageReactionAdd(r.m.ChannelID, r.m.ID, emoji, discordgo.WithContext(ctx))
}
