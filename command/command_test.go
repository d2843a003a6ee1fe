package command

import (
	"errors"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
)

// testClient is a minimal Client for driving the check chain without a
// gateway connection
type testClient struct {
	owner     string
	coOwners  []string
	listener  Listener
	cooldowns *CooldownRegistry
	uses      map[string]int
	sent      []string
	sendErr   error
	linked    []string
}

func newTestClient() *testClient {
	return &testClient{
		owner:     "owner",
		cooldowns: NewCooldownRegistry(),
		uses:      make(map[string]int),
	}
}

func (c *testClient) Prefix() string                  { return "!" }
func (c *testClient) OwnerID() string                 { return c.owner }
func (c *testClient) CoOwnerIDs() []string            { return c.coOwners }
func (c *testClient) SuccessEmoji() string            { return "" }
func (c *testClient) WarningEmoji() string            { return "" }
func (c *testClient) ErrorEmoji() string              { return "" }
func (c *testClient) Listener() Listener              { return c.listener }
func (c *testClient) Commands() []*Command            { return nil }
func (c *testClient) Uses(name string) int            { return c.uses[name] }
func (c *testClient) CountUse(name string)            { c.uses[name]++ }
func (c *testClient) RemainingCooldown(key string) int { return c.cooldowns.Remaining(key) }
func (c *testClient) ApplyCooldown(key string, seconds int) {
	c.cooldowns.Apply(key, seconds)
}

func (c *testClient) Send(channelID, content string) ([]*discordgo.Message, error) {
	c.sent = append(c.sent, content)
	return []*discordgo.Message{{ID: "sent", ChannelID: channelID}}, c.sendErr
}

func (c *testClient) SendEmbed(channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error) {
	c.sent = append(c.sent, embed.Description)
	return &discordgo.Message{ID: "sent", ChannelID: channelID}, nil
}

func (c *testClient) LinkResponses(triggerID string, responses ...*discordgo.Message) {
	for _, response := range responses {
		c.linked = append(c.linked, response.ID)
	}
}

// recordListener tallies dispatch callbacks
type recordListener struct {
	commands   int
	completed  int
	terminated int
	ignored    int
}

func (l *recordListener) OnCommand(*Event, *Command)           { l.commands++ }
func (l *recordListener) OnCompletedCommand(*Event, *Command)  { l.completed++ }
func (l *recordListener) OnTerminatedCommand(*Event, *Command) { l.terminated++ }
func (l *recordListener) OnNonCommandMessage(*Event)           { l.ignored++ }

const (
	testGuildID   = "guild"
	testChannelID = "channel"
	testVoiceID   = "voice"
	testBotID     = "bot"
	testUserID    = "user"
)

// guildSession builds a session whose state holds one guild with a text
// channel, a voice channel, the bot and one member. botPermissions and
// userPermissions become the permissions of a role held by the respective
// member
func guildSession(t *testing.T, botPermissions, userPermissions int64) *discordgo.Session {
	t.Helper()
	state := discordgo.NewState()
	state.User = &discordgo.User{ID: testBotID, Username: "sparky"}
	err := state.GuildAdd(&discordgo.Guild{
		ID:      testGuildID,
		OwnerID: "someone-else",
		Roles: []*discordgo.Role{
			{ID: testGuildID, Name: "@everyone"},
			{ID: "bot-role", Name: "Bots", Permissions: botPermissions},
			{ID: "user-role", Name: "Members", Permissions: userPermissions},
		},
		Channels: []*discordgo.Channel{
			{ID: testChannelID, GuildID: testGuildID, Type: discordgo.ChannelTypeGuildText},
			{ID: testVoiceID, GuildID: testGuildID, Type: discordgo.ChannelTypeGuildVoice},
		},
	})
	if err != nil {
		t.Fatal("failed to seed guild:", err)
	}
	for _, member := range []*discordgo.Member{
		{GuildID: testGuildID, User: &discordgo.User{ID: testBotID}, Roles: []string{"bot-role"}},
		{GuildID: testGuildID, User: &discordgo.User{ID: testUserID}, Roles: []string{"user-role"}},
	} {
		if err := state.MemberAdd(member); err != nil {
			t.Fatal("failed to seed member:", err)
		}
	}
	return &discordgo.Session{State: state}
}

// guildEvent builds an invocation from the seeded member in the seeded guild
func guildEvent(client Client, session *discordgo.Session, args string, root *Command) *Event {
	return NewEvent(client, session, &discordgo.MessageCreate{Message: &discordgo.Message{
		ID:        "trigger",
		ChannelID: testChannelID,
		GuildID:   testGuildID,
		Author:    &discordgo.User{ID: testUserID},
		Member:    &discordgo.Member{GuildID: testGuildID, Roles: []string{"user-role"}},
	}}, args, root)
}

// dmEvent builds an invocation outside of any guild
func dmEvent(client Client, args string, root *Command) *Event {
	return NewEvent(client, &discordgo.Session{State: discordgo.NewState()}, &discordgo.MessageCreate{Message: &discordgo.Message{
		ID:        "trigger",
		ChannelID: "dm",
		Author:    &discordgo.User{ID: testUserID},
	}}, args, root)
}

func TestRunExecutesBody(t *testing.T) {
	client := newTestClient()
	listener := &recordListener{}
	client.listener = listener

	ran := false
	cmd := &Command{Name: "ping", AllowDM: true, Execute: func(ev *Event) { ran = true }}
	cmd.Run(dmEvent(client, "", cmd))

	if !ran {
		t.Error("body should have run")
	}
	if listener.completed != 1 || listener.terminated != 0 {
		t.Errorf("want 1 completion and no terminations, got %d/%d", listener.completed, listener.terminated)
	}
	if client.uses["ping"] != 1 {
		t.Errorf("usage counter should be 1, got %d", client.uses["ping"])
	}
}

func TestReplyLinksPartialSends(t *testing.T) {
	client := newTestClient()
	client.sendErr = errors.New("delivery failed")

	dmEvent(client, "", nil).Reply("hello")

	// messages delivered before the failure must still be linked, or they
	// escape cascade-deletion
	if len(client.linked) != 1 || client.linked[0] != "sent" {
		t.Errorf("delivered messages should be linked despite the send error, got %v", client.linked)
	}
}

func TestRunChildDelegation(t *testing.T) {
	client := newTestClient()
	listener := &recordListener{}
	client.listener = listener

	var childArgs string
	parentRan := false
	parent := &Command{
		Name:    "parent",
		AllowDM: true,
		Children: []*Command{{
			Name:    "kid",
			Aliases: []string{"child"},
			AllowDM: true,
			Execute: func(ev *Event) { childArgs = ev.Args },
		}},
		Execute: func(ev *Event) { parentRan = true },
	}

	ev := dmEvent(client, "KID rest args", parent)
	parent.Run(ev)

	if parentRan {
		t.Error("parent body should not run when a child matches")
	}
	if childArgs != "rest args" {
		t.Errorf("child should see the remaining args, got %q", childArgs)
	}
	// usage is counted against the dispatched top-level command
	if client.uses["parent"] != 1 || client.uses["kid"] != 0 {
		t.Errorf("want parent=1 kid=0, got parent=%d kid=%d", client.uses["parent"], client.uses["kid"])
	}

	// a non-matching first token falls through to the parent's own body
	parent.Run(dmEvent(client, "unrelated", parent))
	if !parentRan {
		t.Error("parent body should run when no child matches")
	}
}

func TestRunOwnerGate(t *testing.T) {
	client := newTestClient()
	listener := &recordListener{}
	client.listener = listener

	cmd := &Command{Name: "secret", OwnerOnly: true, AllowDM: true, Execute: func(ev *Event) {
		t.Error("body should not run for a non-owner")
	}}
	cmd.Run(dmEvent(client, "", cmd))

	if len(client.sent) != 0 {
		t.Errorf("owner rejection should be silent, sent %q", client.sent)
	}
	if listener.terminated != 1 {
		t.Errorf("owner rejection should still terminate, got %d", listener.terminated)
	}

	// co-owners pass
	client.coOwners = []string{testUserID}
	ran := false
	allowed := &Command{Name: "secret2", OwnerOnly: true, AllowDM: true, Execute: func(ev *Event) { ran = true }}
	allowed.Run(dmEvent(client, "", allowed))
	if !ran {
		t.Error("co-owner should pass the owner check")
	}
}

func TestRunCategoryGate(t *testing.T) {
	client := newTestClient()
	listener := &recordListener{}
	client.listener = listener

	cmd := &Command{
		Name:     "mod",
		AllowDM:  true,
		Category: &Category{Name: "moderation", FailureMessage: "Not here.", Predicate: func(*Event) bool { return false }},
		Execute:  func(ev *Event) { t.Error("body should not run") },
	}
	cmd.Run(dmEvent(client, "", cmd))

	if len(client.sent) != 1 || client.sent[0] != "Not here." {
		t.Errorf("category failure message should be sent, got %q", client.sent)
	}
	if listener.terminated != 1 {
		t.Errorf("category rejection should terminate, got %d", listener.terminated)
	}
}

func TestRunRequiredRoleGate(t *testing.T) {
	client := newTestClient()
	session := guildSession(t, discordgo.PermissionSendMessages, discordgo.PermissionSendMessages)

	cmd := &Command{Name: "dj", RequiredRole: "DJ", Execute: func(ev *Event) {
		t.Error("body should not run without the role")
	}}
	cmd.Run(guildEvent(client, session, "", cmd))
	if len(client.sent) != 1 || client.sent[0] != "You must have a role called `DJ` to use that!" {
		t.Errorf("unexpected reply %q", client.sent)
	}

	// role names compare case-insensitively
	client.sent = nil
	ran := false
	members := &Command{Name: "list", RequiredRole: "members", Execute: func(ev *Event) { ran = true }}
	members.Run(guildEvent(client, session, "", members))
	if !ran {
		t.Error("member with the role should pass")
	}
}

func TestRunGuildOnlyGate(t *testing.T) {
	client := newTestClient()
	listener := &recordListener{}
	client.listener = listener

	cmd := &Command{Name: "kick", Execute: func(ev *Event) {
		t.Error("body should not run in DMs")
	}}
	cmd.Run(dmEvent(client, "", cmd))

	if len(client.sent) != 1 || client.sent[0] != "This command cannot be used in Direct messages" {
		t.Errorf("unexpected reply %q", client.sent)
	}
	if listener.terminated != 1 {
		t.Errorf("DM rejection should terminate, got %d", listener.terminated)
	}
}

func TestRunCooldownGate(t *testing.T) {
	client := newTestClient()
	listener := &recordListener{}
	client.listener = listener

	runs := 0
	cmd := &Command{Name: "ping", AllowDM: true, Cooldown: 5, Execute: func(ev *Event) { runs++ }}

	cmd.Run(dmEvent(client, "", cmd))
	cmd.Run(dmEvent(client, "", cmd))

	if runs != 1 {
		t.Errorf("second run should be blocked, body ran %d times", runs)
	}
	if client.uses["ping"] != 1 {
		t.Errorf("usage counter should stay at 1, got %d", client.uses["ping"])
	}
	if len(client.sent) != 1 || !strings.Contains(client.sent[0], "on cooldown for") {
		t.Errorf("cooldown should be announced, got %q", client.sent)
	}
	// the cooldown path does not count as a termination
	if listener.terminated != 0 {
		t.Errorf("cooldown rejection should not terminate, got %d", listener.terminated)
	}
	if listener.completed != 1 {
		t.Errorf("only the first run should complete, got %d", listener.completed)
	}
}

func TestRunBotPermissionGate(t *testing.T) {
	client := newTestClient()
	session := guildSession(t, discordgo.PermissionSendMessages, discordgo.PermissionSendMessages)

	cmd := &Command{
		Name:           "purge",
		BotPermissions: []int64{discordgo.PermissionManageMessages},
		Execute:        func(ev *Event) { t.Error("body should not run") },
	}
	cmd.Run(guildEvent(client, session, "", cmd))
	if len(client.sent) != 1 || client.sent[0] != "I need the `Manage Messages` permission in this Channel!" {
		t.Errorf("unexpected reply %q", client.sent)
	}

	client.sent = nil
	guildCmd := &Command{
		Name:           "ban",
		BotPermissions: []int64{discordgo.PermissionBanMembers},
		Execute:        func(ev *Event) { t.Error("body should not run") },
	}
	guildCmd.Run(guildEvent(client, session, "", guildCmd))
	if len(client.sent) != 1 || client.sent[0] != "I need the `Ban Members` permission in this Guild!" {
		t.Errorf("unexpected reply %q", client.sent)
	}
}

func TestRunUserPermissionGate(t *testing.T) {
	client := newTestClient()
	session := guildSession(t, discordgo.PermissionAdministrator, discordgo.PermissionSendMessages)

	cmd := &Command{
		Name:            "purge",
		UserPermissions: []int64{discordgo.PermissionManageMessages},
		Execute:         func(ev *Event) { t.Error("body should not run") },
	}
	cmd.Run(guildEvent(client, session, "", cmd))
	if len(client.sent) != 1 || client.sent[0] != "You must have the `Manage Messages` permission in this Channel to use that!" {
		t.Errorf("unexpected reply %q", client.sent)
	}

	client.sent = nil
	guildCmd := &Command{
		Name:            "ban",
		UserPermissions: []int64{discordgo.PermissionBanMembers},
		Execute:         func(ev *Event) { t.Error("body should not run") },
	}
	guildCmd.Run(guildEvent(client, session, "", guildCmd))
	if len(client.sent) != 1 || client.sent[0] != "You must have the `Ban Members` permission in this Guild to use that!" {
		t.Errorf("unexpected reply %q", client.sent)
	}
}

func TestRunVoicePermissionGate(t *testing.T) {
	client := newTestClient()
	session := guildSession(t, discordgo.PermissionAdministrator, discordgo.PermissionSendMessages)

	cmd := &Command{
		Name:           "play",
		BotPermissions: []int64{discordgo.PermissionVoiceConnect},
		Execute:        func(ev *Event) { t.Error("body should not run") },
	}
	cmd.Run(guildEvent(client, session, "", cmd))
	if len(client.sent) != 1 || client.sent[0] != "You must be in a voice channel to use that!" {
		t.Errorf("unexpected reply %q", client.sent)
	}

	// with the member connected and the bot an administrator, the command runs
	guild, err := session.State.Guild(testGuildID)
	if err != nil {
		t.Fatal("guild should be in state:", err)
	}
	guild.VoiceStates = []*discordgo.VoiceState{{UserID: testUserID, ChannelID: testVoiceID, GuildID: testGuildID}}

	client.sent = nil
	ran := false
	allowed := &Command{
		Name:           "play2",
		BotPermissions: []int64{discordgo.PermissionVoiceConnect},
		Execute:        func(ev *Event) { ran = true },
	}
	allowed.Run(guildEvent(client, session, "", allowed))
	if !ran {
		t.Errorf("connected member and admin bot should pass, sent %q", client.sent)
	}
}
