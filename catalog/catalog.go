package catalog

import "github.com/chad-area/area/model"

// The service catalog is process-static seed data. Ids are stable and
// referenced by persisted workflows, so they must never be renumbered.

var services = []model.Service{
	{Id: model.SERVICE_GITHUB, Name: "github"},
	{Id: model.SERVICE_DISCORD, Name: "discord"},
	{Id: model.SERVICE_REDDIT, Name: "reddit"},
	{Id: model.SERVICE_SLACK, Name: "slack"},
	{Id: model.SERVICE_SPOTIFY, Name: "spotify"},
	{Id: model.SERVICE_TIMER, Name: "timer"},
}

var actions = []model.Action{
	{
		Id:          model.ACTION_GITHUB_PUSH,
		ServiceId:   model.SERVICE_GITHUB,
		Name:        "GitHub Push",
		Description: "Triggered when code is pushed to a repository",
		Params:      []string{"repositoryOwner", "repositoryName"},
	},
	{
		Id:          model.ACTION_TIMER_DAILY,
		ServiceId:   model.SERVICE_TIMER,
		Name:        "Timer Daily",
		Description: "Triggers every day at a specific time (HH:MM format)",
		Params:      []string{"time"},
	},
	{
		Id:          model.ACTION_TIMER_DATE,
		ServiceId:   model.SERVICE_TIMER,
		Name:        "Timer Annual Date",
		Description: "Triggers every year on a specific date (DD/MM format)",
		Params:      []string{"date"},
	},
	{
		Id:          model.ACTION_TIMER_FUTURE_DATE,
		ServiceId:   model.SERVICE_TIMER,
		Name:        "Timer Future Date",
		Description: "Triggers once after X days",
		Params:      []string{"daysAhead"},
	},
	{
		Id:          model.ACTION_SPOTIFY_TRACK_SAVED,
		ServiceId:   model.SERVICE_SPOTIFY,
		Name:        "Spotify Track Saved",
		Description: "Triggers when you save/like a new track on Spotify",
		Params:      []string{},
	},
	{
		Id:          model.ACTION_REDDIT_NEW_POST,
		ServiceId:   model.SERVICE_REDDIT,
		Name:        "Reddit New Post",
		Description: "Triggers when a new post is created in a specific subreddit",
		Params:      []string{"subreddit"},
	},
	{
		Id:          model.ACTION_SLACK_NEW_MESSAGE,
		ServiceId:   model.SERVICE_SLACK,
		Name:        "Slack New Message",
		Description: "Triggers when a new message is posted in a Slack channel",
		Params:      []string{"channelId"},
	},
}

var reactions = []model.Reaction{
	{
		Id:          model.REACTION_DISCORD_MESSAGE,
		ServiceId:   model.SERVICE_DISCORD,
		Name:        "Send Discord Message",
		Description: "Send a message to a Discord channel",
		Params:      []string{"channelId", "message"},
	},
	{
		Id:          model.REACTION_DISCORD_DM,
		ServiceId:   model.SERVICE_DISCORD,
		Name:        "Send Discord DM",
		Description: "Send a direct message to a Discord user",
		Params:      []string{"discordUserId", "message"},
	},
	{
		Id:          model.REACTION_DISCORD_CREATE_CHANNEL,
		ServiceId:   model.SERVICE_DISCORD,
		Name:        "Create Discord Channel",
		Description: "Create a new channel in a Discord server",
		Params:      []string{"guildId", "channelName", "channelType"},
	},
	{
		Id:          model.REACTION_DISCORD_ADD_ROLE,
		ServiceId:   model.SERVICE_DISCORD,
		Name:        "Add Discord Role",
		Description: "Add a role to a Discord member",
		Params:      []string{"guildId", "discordUserId", "roleId"},
	},
	{
		Id:          model.REACTION_DISCORD_DELETE_MESSAGE,
		ServiceId:   model.SERVICE_DISCORD,
		Name:        "Delete Discord Message",
		Description: "Delete a message from a Discord channel",
		Params:      []string{"channelId", "messageId"},
	},
	{
		Id:          model.REACTION_DISCORD_EDIT_MESSAGE,
		ServiceId:   model.SERVICE_DISCORD,
		Name:        "Edit Discord Message",
		Description: "Edit an existing Discord message",
		Params:      []string{"channelId", "messageId", "newContent"},
	},
	{
		Id:          model.REACTION_DISCORD_ADD_REACTION,
		ServiceId:   model.SERVICE_DISCORD,
		Name:        "Add Discord Reaction",
		Description: "Add an emoji reaction to a Discord message",
		Params:      []string{"channelId", "messageId", "emoji"},
	},
	{
		Id:          model.REACTION_DISCORD_KICK_MEMBER,
		ServiceId:   model.SERVICE_DISCORD,
		Name:        "Kick Discord Member",
		Description: "Kick a member from a Discord server",
		Params:      []string{"guildId", "discordUserId", "reason"},
	},
	{
		Id:          model.REACTION_DISCORD_BAN_MEMBER,
		ServiceId:   model.SERVICE_DISCORD,
		Name:        "Ban Discord Member",
		Description: "Ban a member from a Discord server",
		Params:      []string{"guildId", "discordUserId", "reason", "deleteMessageDays"},
	},
	{
		Id:          model.REACTION_DISCORD_CREATE_ROLE,
		ServiceId:   model.SERVICE_DISCORD,
		Name:        "Create Discord Role",
		Description: "Create a new role in a Discord server",
		Params:      []string{"guildId", "roleName", "colorHex", "permissions"},
	},
}

func Services() []model.Service {
	return services
}

func Actions() []model.Action {
	return actions
}

func Reactions() []model.Reaction {
	return reactions
}

func GetAction(id int) (*model.Action, bool) {
	for i := range actions {
		if actions[i].Id == id {
			return &actions[i], true
		}
	}
	return nil, false
}

func GetReaction(id int) (*model.Reaction, bool) {
	for i := range reactions {
		if reactions[i].Id == id {
			return &reactions[i], true
		}
	}
	return nil, false
}
