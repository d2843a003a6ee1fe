package utils

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/exp/slices"
)

// PermissionNames maps discordgo permission bits to the names Discord shows
// in its UI, used when telling a user which permission is missing
var PermissionNames = map[int64]string{
	discordgo.PermissionCreateInstantInvite:   "Create Instant Invite",
	discordgo.PermissionKickMembers:           "Kick Members",
	discordgo.PermissionBanMembers:            "Ban Members",
	discordgo.PermissionAdministrator:         "Administrator",
	discordgo.PermissionManageChannels:        "Manage Channels",
	discordgo.PermissionManageServer:          "Manage Server",
	discordgo.PermissionAddReactions:          "Add Reactions",
	discordgo.PermissionViewAuditLogs:         "View Audit Logs",
	discordgo.PermissionViewChannel:           "View Channel",
	discordgo.PermissionSendMessages:          "Send Messages",
	discordgo.PermissionSendTTSMessages:       "Send TTS Messages",
	discordgo.PermissionManageMessages:        "Manage Messages",
	discordgo.PermissionEmbedLinks:            "Embed Links",
	discordgo.PermissionAttachFiles:           "Attach Files",
	discordgo.PermissionReadMessageHistory:    "Read Message History",
	discordgo.PermissionMentionEveryone:       "Mention Everyone",
	discordgo.PermissionUseExternalEmojis:     "Use External Emojis",
	discordgo.PermissionViewGuildInsights:     "View Guild Insights",
	discordgo.PermissionVoiceConnect:          "Connect",
	discordgo.PermissionVoiceSpeak:            "Speak",
	discordgo.PermissionVoiceMuteMembers:      "Mute Members",
	discordgo.PermissionVoiceDeafenMembers:    "Deafen Members",
	discordgo.PermissionVoiceMoveMembers:      "Move Members",
	discordgo.PermissionVoiceUseVAD:           "Use Voice Activity",
	discordgo.PermissionVoicePrioritySpeaker:  "Priority Speaker",
	discordgo.PermissionVoiceStreamVideo:      "Video",
	discordgo.PermissionVoiceRequestToSpeak:   "Request to Speak",
	discordgo.PermissionChangeNickname:        "Change Nickname",
	discordgo.PermissionManageNicknames:       "Manage Nicknames",
	discordgo.PermissionManageRoles:           "Manage Roles",
	discordgo.PermissionManageWebhooks:        "Manage Webhooks",
	discordgo.PermissionManageEmojis:          "Manage Emojis",
	discordgo.PermissionManageEvents:          "Manage Events",
	discordgo.PermissionManageThreads:         "Manage Threads",
	discordgo.PermissionCreatePublicThreads:   "Create Public Threads",
	discordgo.PermissionCreatePrivateThreads:  "Create Private Threads",
	discordgo.PermissionUseExternalStickers:   "Use External Stickers",
	discordgo.PermissionSendMessagesInThreads: "Send Messages in Threads",
	discordgo.PermissionModerateMembers:       "Timeout Members",
}

// PermissionName returns the display name for a permission bit
func PermissionName(permission int64) string {
	if name, ok := PermissionNames[permission]; ok {
		return name
	}
	return fmt.Sprintf("Unknown (0x%x)", permission)
}

// voicePermissions only apply inside voice channels; a command requiring one
// of these needs the invoking member to be connected to voice
var voicePermissions = []int64{
	discordgo.PermissionVoiceConnect,
	discordgo.PermissionVoiceSpeak,
	discordgo.PermissionVoiceMuteMembers,
	discordgo.PermissionVoiceDeafenMembers,
	discordgo.PermissionVoiceMoveMembers,
	discordgo.PermissionVoiceUseVAD,
	discordgo.PermissionVoicePrioritySpeaker,
	discordgo.PermissionVoiceStreamVideo,
	discordgo.PermissionVoiceRequestToSpeak,
}

// guildPermissions have no meaning at the channel level and are checked
// against guild-wide role permissions instead of channel overwrites
var guildPermissions = []int64{
	discordgo.PermissionKickMembers,
	discordgo.PermissionBanMembers,
	discordgo.PermissionAdministrator,
	discordgo.PermissionManageServer,
	discordgo.PermissionViewAuditLogs,
	discordgo.PermissionViewGuildInsights,
	discordgo.PermissionChangeNickname,
	discordgo.PermissionManageNicknames,
	discordgo.PermissionManageEmojis,
	discordgo.PermissionManageEvents,
	discordgo.PermissionModerateMembers,
}

// IsVoicePermission reports whether the permission is voice-channel scoped
func IsVoicePermission(permission int64) bool {
	return slices.Contains(voicePermissions, permission)
}

// IsGuildPermission reports whether the permission is guild scoped
func IsGuildPermission(permission int64) bool {
	return slices.Contains(guildPermissions, permission)
}

// GuildPermissions computes a member's guild-wide permissions from their
// roles. The guild owner and administrators hold every permission
func GuildPermissions(guild *discordgo.Guild, member *discordgo.Member) int64 {
	if member == nil || guild == nil {
		return 0
	}
	if member.User != nil && member.User.ID == guild.OwnerID {
		return discordgo.PermissionAll
	}
	var permissions int64
	for _, role := range guild.Roles {
		// the @everyone role shares the guild's ID and applies to all members
		if role.ID == guild.ID || slices.Contains(member.Roles, role.ID) {
			permissions |= role.Permissions
		}
	}
	if permissions&discordgo.PermissionAdministrator != 0 {
		return discordgo.PermissionAll
	}
	return permissions
}
