package cmd

import (
	"fmt"
	"github.com/5HT2/coding-bot/bot"
	"github.com/5HT2/coding-bot/util"
	"github.com/diamondburned/arikawa/v3/discord"
	"log"
	"strings"
)

var (
	Permissions = []Permission{PermChannels, PermPermissions, PermModerate, PermOperator}
)

type Permission int64

const (
	PermUndefined Permission = iota
	PermChannels
	PermPermissions
	PermModerate
	PermOperator // "operator" is a special permission, managed by bot.C.OperatorIDs
)

func (p Permission) String() string {
	switch p {
	case PermChannels:
		return "channels"
	case PermPermissions:
		return "permissions"
	case PermModerate:
		return "moderate"
	case PermOperator:
		return "operator"
	default:
		return "undefined"
	}
}

// Discord returns the guild permission that grants p without it being given through the bot
func (p Permission) Discord() discord.Permissions {
	switch p {
	case PermChannels:
		return discord.PermissionManageChannels
	case PermPermissions:
		return discord.PermissionManageRoles
	case PermModerate:
		return discord.PermissionKickMembers | discord.PermissionBanMembers
	default:
		return discord.PermissionAdministrator
	}
}

// HasPermission will return if the author of a command has said permission
func HasPermission(c bot.Command, p Permission) *bot.Error {
	id := int64(c.E.Author.ID)

	if id == 0 {
		return bot.GenericError(c.FnName, "checking permission", "id is `0`")
	}

	if p == PermOperator {
		if !IsOperator(c.E.Author.ID) {
			return bot.GenericError(c.FnName, "running command", util.GetUserMention(id)+" is not a bot operator")
		}

		return nil
	}

	if !c.E.GuildID.IsValid() {
		return bot.GenericError(c.FnName, "running command", "command run in a non-guild, permissions are not supported here")
	}

	if !UserHasPermission(c, p, id) {
		return bot.GenericError(c.FnName, "running command", fmt.Sprintf("%s is missing the \"%s\" permission", util.GetUserMention(id), p))
	}

	return nil
}

// IsOperator returns if id is one of bot.C.OperatorIDs
func IsOperator(id discord.UserID) bool {
	opIDs := make([]int64, 0)
	bot.C.Run(func(c *bot.Config) {
		opIDs = c.OperatorIDs
	})

	return util.SliceContains(opIDs, int64(id))
}

// UserHasPermission will return if the user with id has said permission, either through the guild's
// config or through their roles in the channel the command was sent in
func UserHasPermission(c bot.Command, p Permission, id int64) bool {
	if IsOperator(discord.UserID(id)) {
		return true
	}

	cfg, _ := bot.FindGuildConfig(c.E.GuildID)
	if util.SliceContains(getPermissionSlice(p, &cfg), id) {
		return true
	}

	perms, err := bot.Client.Permissions(c.E.ChannelID, discord.UserID(id))
	if err != nil {
		log.Printf("failed to get permissions of %v in %v: %v\n", id, c.E.ChannelID, err)
		return false
	}

	return perms.Has(discord.PermissionAdministrator) || perms.Has(p.Discord())
}

// GivePermission will return nil if the permission was successfully given to the user with a matching id
func GivePermission(c bot.Command, pStr string, id int64) error {
	var err error = nil

	bot.GuildContext(c.E.GuildID, func(g *bot.GuildConfig) (*bot.GuildConfig, string) {
		p := GetPermission(pStr)
		users := getPermissionSlice(p, g)

		if util.SliceContains(users, id) {
			err = bot.GenericError("GivePermission",
				"giving permission to "+util.GetUserMention(id),
				fmt.Sprintf("user already has permission \"%s\"", p))
			return g, "GivePermission: " + c.FnName
		}
		users = append(users, id)

		switch p {
		case PermChannels:
			g.Permissions.ManageChannels = users
		case PermPermissions:
			g.Permissions.ManagePermissions = users
		case PermModerate:
			g.Permissions.Moderation = users
		default:
			err = bot.GenericError("GivePermission",
				"giving permission to "+util.GetUserMention(id),
				fmt.Sprintf("couldn't find permission type \"%s\"", pStr))
		}

		return g, "GivePermission: " + c.FnName
	})

	return err
}

// RevokePermission removes a permission given with GivePermission
func RevokePermission(c bot.Command, pStr string, id int64) error {
	var err error = nil

	bot.GuildContext(c.E.GuildID, func(g *bot.GuildConfig) (*bot.GuildConfig, string) {
		p := GetPermission(pStr)
		users := getPermissionSlice(p, g)

		if !util.SliceContains(users, id) {
			err = bot.GenericError("RevokePermission",
				"revoking permission from "+util.GetUserMention(id),
				fmt.Sprintf("user doesn't have permission \"%s\"", pStr))
			return g, "RevokePermission: " + c.FnName
		}
		users = util.SliceRemove(users, id)

		switch p {
		case PermChannels:
			g.Permissions.ManageChannels = users
		case PermPermissions:
			g.Permissions.ManagePermissions = users
		case PermModerate:
			g.Permissions.Moderation = users
		}

		return g, "RevokePermission: " + c.FnName
	})

	return err
}

// GetPermission will return a valid Permission type from a string
func GetPermission(pStr string) Permission {
	pStr = strings.ToLower(pStr)

	for _, p := range Permissions {
		if p.String() == pStr {
			return p
		}
	}

	return PermUndefined
}

func getPermissionSlice(p Permission, guild *bot.GuildConfig) []int64 {
	switch p {
	case PermChannels:
		return guild.Permissions.ManageChannels
	case PermPermissions:
		return guild.Permissions.ManagePermissions
	case PermModerate:
		return guild.Permissions.Moderation
	default:
		return make([]int64, 0)
	}
}
