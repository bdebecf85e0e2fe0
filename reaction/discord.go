package reaction

import (
	"context"
	"fmt"
	"strconv"

	"github.com/chad-area/area/logger"
	"github.com/chad-area/area/model"
	"github.com/chad-area/area/persistence"
	"github.com/chad-area/area/provider/discord"
	"github.com/chad-area/area/registry"
	"go.uber.org/zap"
)

// DiscordReactions holds the ten Discord reaction executors. Each performs
// exactly one bot API call and writes one audit log row on success; errors
// propagate to the dispatching worker or webhook receiver, which logs and
// discards them.
type DiscordReactions struct {
	client *discord.Client
	logs   persistence.LogDao
}

func NewDiscordReactions(client *discord.Client, logs persistence.LogDao) *DiscordReactions {
	return &DiscordReactions{client: client, logs: logs}
}

func (d *DiscordReactions) RegisterAll(reg *registry.Registry) error {
	executors := map[int]registry.ReactionFunc{
		model.REACTION_DISCORD_MESSAGE:        d.sendMessage,
		model.REACTION_DISCORD_DM:             d.sendDM,
		model.REACTION_DISCORD_CREATE_CHANNEL: d.createChannel,
		model.REACTION_DISCORD_ADD_ROLE:       d.addRole,
		model.REACTION_DISCORD_DELETE_MESSAGE: d.deleteMessage,
		model.REACTION_DISCORD_EDIT_MESSAGE:   d.editMessage,
		model.REACTION_DISCORD_ADD_REACTION:   d.addReaction,
		model.REACTION_DISCORD_KICK_MEMBER:    d.kickMember,
		model.REACTION_DISCORD_BAN_MEMBER:     d.banMember,
		model.REACTION_DISCORD_CREATE_ROLE:    d.createRole,
	}
	for reactionId, fn := range executors {
		if err := reg.RegisterReaction(reactionId, fn); err != nil {
			return err
		}
	}
	return nil
}

func (d *DiscordReactions) audit(ctx context.Context, message string, metadata map[string]any) {
	err := d.logs.Append(ctx, model.LogEntry{
		Level:    "info",
		Message:  message,
		Context:  "Discord Reaction",
		Metadata: metadata,
	})
	if err != nil {
		logger.Error("error writing audit log", zap.Error(err))
	}
}

func (d *DiscordReactions) sendMessage(ctx context.Context, userId string, data []string) error {
	logger.Info("reaction discord message", zap.String("userId", userId), zap.Strings("data", data))
	if len(data) < 2 {
		return fmt.Errorf("data isn't valid - need channelId and message")
	}
	channelId, message := data[0], data[1]
	if err := d.client.SendMessage(ctx, channelId, message); err != nil {
		return err
	}
	d.audit(ctx, fmt.Sprintf("Discord message sent to channel %s", channelId),
		map[string]any{"channelId": channelId, "message": message})
	return nil
}

func (d *DiscordReactions) sendDM(ctx context.Context, userId string, data []string) error {
	logger.Info("reaction discord dm", zap.String("userId", userId), zap.Strings("data", data))
	if len(data) < 2 {
		return fmt.Errorf("data isn't valid - need discordUserId and message")
	}
	discordUserId, message := data[0], data[1]
	channel, err := d.client.CreateDM(ctx, discordUserId)
	if err != nil {
		return err
	}
	if err := d.client.SendMessage(ctx, channel.Id, message); err != nil {
		return err
	}
	d.audit(ctx, fmt.Sprintf("Discord DM sent to user %s", discordUserId),
		map[string]any{"discordUserId": discordUserId, "message": message})
	return nil
}

func (d *DiscordReactions) createChannel(ctx context.Context, userId string, data []string) error {
	logger.Info("reaction discord create channel", zap.String("userId", userId), zap.Strings("data", data))
	if len(data) < 2 {
		return fmt.Errorf("data isn't valid - need guildId and channelName")
	}
	guildId, channelName := data[0], data[1]
	channelType := 0
	if len(data) > 2 {
		parsed, err := strconv.Atoi(data[2])
		if err != nil {
			return fmt.Errorf("channel type must be a number: %w", err)
		}
		channelType = parsed
	}
	channel, err := d.client.CreateChannel(ctx, guildId, channelName, channelType)
	if err != nil {
		return err
	}
	d.audit(ctx, fmt.Sprintf("Discord channel %q created in guild %s", channelName, guildId),
		map[string]any{"guildId": guildId, "channelName": channelName, "channelId": channel.Id})
	return nil
}

func (d *DiscordReactions) addRole(ctx context.Context, userId string, data []string) error {
	logger.Info("reaction discord add role", zap.String("userId", userId), zap.Strings("data", data))
	if len(data) < 3 {
		return fmt.Errorf("data isn't valid - need guildId, discordUserId and roleId")
	}
	guildId, discordUserId, roleId := data[0], data[1], data[2]
	if err := d.client.AddRole(ctx, guildId, discordUserId, roleId); err != nil {
		return err
	}
	d.audit(ctx, fmt.Sprintf("Discord role added to user in guild %s", guildId),
		map[string]any{"guildId": guildId, "discordUserId": discordUserId, "roleId": roleId})
	return nil
}

func (d *DiscordReactions) deleteMessage(ctx context.Context, userId string, data []string) error {
	logger.Info("reaction discord delete message", zap.String("userId", userId), zap.Strings("data", data))
	if len(data) < 2 {
		return fmt.Errorf("data isn't valid - need channelId and messageId")
	}
	channelId, messageId := data[0], data[1]
	if err := d.client.DeleteMessage(ctx, channelId, messageId); err != nil {
		return err
	}
	d.audit(ctx, fmt.Sprintf("Discord message deleted in channel %s", channelId),
		map[string]any{"channelId": channelId, "messageId": messageId})
	return nil
}

func (d *DiscordReactions) editMessage(ctx context.Context, userId string, data []string) error {
	logger.Info("reaction discord edit message", zap.String("userId", userId), zap.Strings("data", data))
	if len(data) < 3 {
		return fmt.Errorf("data isn't valid - need channelId, messageId and newContent")
	}
	channelId, messageId, newContent := data[0], data[1], data[2]
	if err := d.client.EditMessage(ctx, channelId, messageId, newContent); err != nil {
		return err
	}
	d.audit(ctx, fmt.Sprintf("Discord message edited in channel %s", channelId),
		map[string]any{"channelId": channelId, "messageId": messageId, "newContent": newContent})
	return nil
}

func (d *DiscordReactions) addReaction(ctx context.Context, userId string, data []string) error {
	logger.Info("reaction discord add reaction", zap.String("userId", userId), zap.Strings("data", data))
	if len(data) < 3 {
		return fmt.Errorf("data isn't valid - need channelId, messageId and emoji")
	}
	channelId, messageId, emoji := data[0], data[1], data[2]
	if err := d.client.AddReaction(ctx, channelId, messageId, emoji); err != nil {
		return err
	}
	d.audit(ctx, fmt.Sprintf("Discord reaction added to message in channel %s", channelId),
		map[string]any{"channelId": channelId, "messageId": messageId, "emoji": emoji})
	return nil
}

func (d *DiscordReactions) kickMember(ctx context.Context, userId string, data []string) error {
	logger.Info("reaction discord kick member", zap.String("userId", userId), zap.Strings("data", data))
	if len(data) < 2 {
		return fmt.Errorf("data isn't valid - need guildId and discordUserId")
	}
	guildId, discordUserId := data[0], data[1]
	reason := "No reason provided"
	if len(data) > 2 && data[2] != "" {
		reason = data[2]
	}
	if err := d.client.KickMember(ctx, guildId, discordUserId, reason); err != nil {
		return err
	}
	d.audit(ctx, fmt.Sprintf("Discord member kicked from guild %s", guildId),
		map[string]any{"guildId": guildId, "discordUserId": discordUserId, "reason": reason})
	return nil
}

func (d *DiscordReactions) banMember(ctx context.Context, userId string, data []string) error {
	logger.Info("reaction discord ban member", zap.String("userId", userId), zap.Strings("data", data))
	if len(data) < 2 {
		return fmt.Errorf("data isn't valid - need guildId and discordUserId")
	}
	guildId, discordUserId := data[0], data[1]
	reason := "No reason provided"
	if len(data) > 2 && data[2] != "" {
		reason = data[2]
	}
	deleteMessageDays := 0
	if len(data) > 3 {
		parsed, err := strconv.Atoi(data[3])
		if err != nil {
			return fmt.Errorf("delete message days must be a number: %w", err)
		}
		deleteMessageDays = parsed
	}
	if err := d.client.BanMember(ctx, guildId, discordUserId, reason, deleteMessageDays); err != nil {
		return err
	}
	d.audit(ctx, fmt.Sprintf("Discord member banned from guild %s", guildId),
		map[string]any{"guildId": guildId, "discordUserId": discordUserId, "reason": reason})
	return nil
}

func (d *DiscordReactions) createRole(ctx context.Context, userId string, data []string) error {
	logger.Info("reaction discord create role", zap.String("userId", userId), zap.Strings("data", data))
	if len(data) < 2 {
		return fmt.Errorf("data isn't valid - need guildId and roleName")
	}
	guildId, roleName := data[0], data[1]
	var color int64
	if len(data) > 2 {
		parsed, err := discord.ParseColor(data[2])
		if err != nil {
			return fmt.Errorf("invalid color hex: %w", err)
		}
		color = parsed
	}
	permissions := "0"
	if len(data) > 3 && data[3] != "" {
		permissions = data[3]
	}
	role, err := d.client.CreateRole(ctx, guildId, roleName, color, permissions)
	if err != nil {
		return err
	}
	d.audit(ctx, fmt.Sprintf("Discord role %q created in guild %s", roleName, guildId),
		map[string]any{"guildId": guildId, "roleName": roleName, "roleId": role.Id})
	return nil
}
