package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"

	"linguaroom/contract"
	"linguaroom/domain"
	"linguaroom/domain/event"
	"linguaroom/errors"
	"linguaroom/moderation"
)

const (
	participantA = domain.ParticipantID("A")
	participantB = domain.ParticipantID("B")
)

// tickingClock advances one millisecond per reading so message IDs built
// from the timestamp never collide in tests.
type tickingClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTickingClock() *tickingClock {
	return &tickingClock{now: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)}
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Millisecond)
	return c.now
}

func testRoster() []domain.Participant {
	return []domain.Participant{
		{ID: participantA, DisplayName: "alice_martin", Initials: "AM", IsOnline: true},
		{ID: participantB, DisplayName: "bob_wilson", Initials: "BW", IsOnline: true},
		{ID: domain.LocalViewer, DisplayName: "you", Initials: "YO", IsOnline: true},
	}
}

func newTestSession(t *testing.T, cfg Config) *Session {
	t.Helper()
	if cfg.Room.ID == "" {
		cfg.Room = domain.Room{ID: "room-1", Name: "English Conversation Room", Language: "English", LanguageCode: "en"}
	}
	if cfg.Roster == nil {
		cfg.Roster = testRoster()
	}
	if cfg.Clock == nil {
		cfg.Clock = newTickingClock().Now
	}
	return NewSession(cfg, logs.GetLoggerFromLevel(slog.LevelDebug))
}

func TestSendMessage_AppendsToEndOfLog(t *testing.T) {
	req := require.New(t)
	s := newTestSession(t, Config{})
	ctx := context.Background()

	first, err := s.SendMessage(ctx, "  hello everyone  ")
	req.NoError(err)
	req.Equal("hello everyone", first.Body)
	req.Equal(domain.LocalViewer, first.AuthorID)
	req.Empty(first.Reactions)

	second, err := s.SendMessage(ctx, "welcome to the room")
	req.NoError(err)

	snap := s.Snapshot()
	req.Len(snap.Messages, 2)
	req.Equal(first.ID, snap.Messages[0].ID)
	req.Equal(second.ID, snap.Messages[1].ID)
	req.True(snap.Messages[0].CreatedAt.Before(snap.Messages[1].CreatedAt))
}

func TestSendMessage_Bounds(t *testing.T) {
	req := require.New(t)
	s := newTestSession(t, Config{})
	ctx := context.Background()

	_, err := s.SendMessage(ctx, "")
	req.True(errors.IsValidation(err))

	_, err = s.SendMessage(ctx, " ")
	req.True(errors.IsValidation(err))

	_, err = s.SendMessage(ctx, strings.Repeat("x", 1000))
	req.NoError(err)

	_, err = s.SendMessage(ctx, strings.Repeat("x", 1001))
	req.True(errors.IsValidation(err))

	// Rejected sends never reach the log.
	req.Len(s.Snapshot().Messages, 1)
}

func TestSendMessage_ClearsTypingIndicators(t *testing.T) {
	req := require.New(t)
	s := newTestSession(t, Config{})

	s.SetTyping(participantA)
	s.SetTyping(domain.LocalViewer)
	req.Len(s.TypingParticipants(), 2)

	_, err := s.SendMessage(context.Background(), "done typing")
	req.NoError(err)
	req.Empty(s.TypingParticipants())
}

func TestSendMessage_CensorsConfiguredWords(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	mod, err := moderation.NewModerator([]string{"badger"}, '*', log)
	req.NoError(err)

	s := newTestSession(t, Config{Moderator: &mod})

	msg, err := s.SendMessage(context.Background(), "the badger says hi")
	req.NoError(err)
	req.Equal("the ****** says hi", msg.Body)
}

func TestToggleReaction_AddThenRemoveIsANoOp(t *testing.T) {
	req := require.New(t)
	s := newTestSession(t, Config{})
	ctx := context.Background()

	msg, err := s.SendMessage(ctx, "hi")
	req.NoError(err)

	// When A reacts once
	req.NoError(s.ToggleReaction(ctx, msg.ID, "👍", participantA))
	snap := s.Snapshot()
	req.Len(snap.Messages[0].Reactions, 1)
	req.Equal("👍", snap.Messages[0].Reactions[0].Emoji)
	req.Equal([]domain.ParticipantID{participantA}, snap.Messages[0].Reactions[0].ReactorIDs)

	// And A reacts again with the same emoji
	req.NoError(s.ToggleReaction(ctx, msg.ID, "👍", participantA))

	// Then the stored data is back to its original state
	req.Empty(s.Snapshot().Messages[0].Reactions)
}

func TestToggleReaction_NeverLeavesEmptyReactorSets(t *testing.T) {
	req := require.New(t)
	s := newTestSession(t, Config{})
	ctx := context.Background()

	msg, err := s.SendMessage(ctx, "hi")
	req.NoError(err)

	toggles := []struct {
		emoji   string
		reactor domain.ParticipantID
	}{
		{"👍", participantA},
		{"👍", participantB},
		{"❤️", participantA},
		{"👍", participantA},
		{"❤️", participantA},
		{"👍", participantB},
	}
	for _, tt := range toggles {
		req.NoError(s.ToggleReaction(ctx, msg.ID, tt.emoji, tt.reactor))
	}

	for _, m := range s.Snapshot().Messages {
		for _, r := range m.Reactions {
			req.NotEmpty(r.ReactorIDs, "reaction %q has no reactors", r.Emoji)
		}
	}
}

func TestToggleReaction_SharedReactorsRemoveOneByOne(t *testing.T) {
	req := require.New(t)
	s := newTestSession(t, Config{})
	ctx := context.Background()

	msg, err := s.SendMessage(ctx, "hi")
	req.NoError(err)

	req.NoError(s.ToggleReaction(ctx, msg.ID, "👍", participantA))
	req.NoError(s.ToggleReaction(ctx, msg.ID, "👍", participantB))
	req.NoError(s.ToggleReaction(ctx, msg.ID, "👍", domain.LocalViewer))

	req.NoError(s.ToggleReaction(ctx, msg.ID, "👍", participantB))

	reactions := s.Snapshot().Messages[0].Reactions
	req.Len(reactions, 1)
	req.Equal([]domain.ParticipantID{participantA, domain.LocalViewer}, reactions[0].ReactorIDs)
}

func TestToggleReaction_UnknownMessage(t *testing.T) {
	s := newTestSession(t, Config{})
	err := s.ToggleReaction(context.Background(), "msg-does-not-exist", "👍", participantA)
	require.True(t, errors.IsNotFound(err))
}

func TestToggleReaction_DoesNotMutateEarlierSnapshots(t *testing.T) {
	req := require.New(t)
	s := newTestSession(t, Config{})
	ctx := context.Background()

	msg, err := s.SendMessage(ctx, "hi")
	req.NoError(err)
	req.NoError(s.ToggleReaction(ctx, msg.ID, "👍", participantA))

	before := s.Snapshot()
	req.NoError(s.ToggleReaction(ctx, msg.ID, "👍", participantB))

	// The earlier snapshot still shows a single reactor.
	req.Equal([]domain.ParticipantID{participantA}, before.Messages[0].Reactions[0].ReactorIDs)
	req.Equal(
		[]domain.ParticipantID{participantA, participantB},
		s.Snapshot().Messages[0].Reactions[0].ReactorIDs,
	)
}

func TestSelectFriend_MarksReadAndZerosUnreadTogether(t *testing.T) {
	req := require.New(t)
	friendID := domain.ParticipantID("friend-1")
	base := time.Date(2024, 1, 15, 11, 30, 0, 0, time.UTC)

	s := newTestSession(t, Config{
		Friends: []domain.Friend{
			{ID: friendID, Username: "john_doe", Initials: "JD", IsOnline: true, UnreadCount: 2},
		},
		FriendMessages: map[domain.ParticipantID][]domain.FriendMessage{
			friendID: {
				{ID: "fm-1", FriendID: friendID, SenderID: friendID, Body: "Hey! How are you doing?", SentAt: base, IsRead: false},
				{ID: "fm-2", FriendID: friendID, SenderID: domain.LocalViewer, Body: "Great, thanks!", SentAt: base.Add(2 * time.Minute), IsRead: true},
				{ID: "fm-3", FriendID: friendID, SenderID: friendID, Body: "Let's practice soon.", SentAt: base.Add(5 * time.Minute), IsRead: false},
			},
		},
	})

	conv, err := s.SelectFriend(context.Background(), friendID)
	req.NoError(err)
	req.Zero(conv.UnreadCount)
	for _, m := range conv.Messages {
		req.True(m.IsRead)
	}

	snap := s.Snapshot()
	req.Zero(snap.Friends[0].UnreadCount)
	req.Equal(friendID, snap.SelectedFriend)
	for _, m := range snap.Conversations[friendID].Messages {
		req.True(m.IsRead)
	}
}

func TestSelectFriend_UnknownFriend(t *testing.T) {
	s := newTestSession(t, Config{})
	_, err := s.SelectFriend(context.Background(), "friend-unknown")
	require.True(t, errors.IsNotFound(err))
}

func TestSendFriendMessage_AppendsAndUpdatesPreview(t *testing.T) {
	req := require.New(t)
	friendID := domain.ParticipantID("friend-2")

	s := newTestSession(t, Config{
		Friends: []domain.Friend{{ID: friendID, Username: "sarah_smith", Initials: "SS"}},
	})

	msg, err := s.SendFriendMessage(context.Background(), friendID, "  No problem! Happy to help.  ")
	req.NoError(err)
	req.Equal("No problem! Happy to help.", msg.Body)
	req.Equal(domain.LocalViewer, msg.SenderID)
	req.True(msg.IsRead)

	snap := s.Snapshot()
	req.Len(snap.Conversations[friendID].Messages, 1)
	req.Equal("No problem! Happy to help.", snap.Friends[0].LastMessage)

	// Friend threads are separate state from the room log.
	req.Empty(snap.Messages)

	_, err = s.SendFriendMessage(context.Background(), "friend-unknown", "hello")
	req.True(errors.IsNotFound(err))
}

func TestKickParticipant_SelfIsForbidden(t *testing.T) {
	req := require.New(t)
	s := newTestSession(t, Config{})

	err := s.KickParticipant(context.Background(), domain.LocalViewer)
	req.True(errors.IsForbidden(err))

	// And the roster is untouched
	req.Len(s.Snapshot().Roster, 3)
}

func TestKickParticipant_RemovesRosterAndCallButKeepsMessages(t *testing.T) {
	req := require.New(t)
	s := newTestSession(t, Config{
		Roster: []domain.Participant{
			{ID: participantA, DisplayName: "alice_martin", Initials: "AM", IsOnline: true},
			{ID: participantB, DisplayName: "bob_wilson", Initials: "BW", IsOnline: true, IsInCall: true, IsVideoOn: true},
			{ID: domain.LocalViewer, DisplayName: "you", Initials: "YO", IsOnline: true},
		},
	})
	ctx := context.Background()

	_, err := s.SendMessage(ctx, "hi")
	req.NoError(err)
	s.SetTyping(participantB)

	req.NoError(s.KickParticipant(ctx, participantB))

	snap := s.Snapshot()
	ids := make([]domain.ParticipantID, 0, len(snap.Roster))
	for _, p := range snap.Roster {
		ids = append(ids, p.ID)
	}
	req.Equal([]domain.ParticipantID{participantA, domain.LocalViewer}, ids)
	req.Empty(snap.Call)
	req.Empty(snap.Typing)
	req.Len(snap.Messages, 1)

	err = s.KickParticipant(ctx, participantB)
	req.True(errors.IsNotFound(err))
}

func TestToggleFollow_AlwaysFlips(t *testing.T) {
	req := require.New(t)
	s := newTestSession(t, Config{})

	req.NoError(s.ToggleFollow(participantA))
	req.True(s.Snapshot().Roster[0].IsFollowed)

	req.NoError(s.ToggleFollow(participantA))
	req.False(s.Snapshot().Roster[0].IsFollowed)

	req.True(errors.IsNotFound(s.ToggleFollow("ghost")))
}

func TestJoinAndLeaveCall(t *testing.T) {
	req := require.New(t)
	s := newTestSession(t, Config{})
	ctx := context.Background()

	s.JoinCall(ctx)
	snap := s.Snapshot()
	req.Len(snap.Call, 1)
	req.Equal(domain.LocalViewer, snap.Call[0].ID)
	req.True(snap.Call[0].VideoEnabled)

	s.LeaveCall(ctx)
	snap = s.Snapshot()
	req.Empty(snap.Call)
	req.False(snap.ScreenSharing)
	for _, p := range snap.Roster {
		if p.ID == domain.LocalViewer {
			req.False(p.IsInCall)
			req.False(p.IsVideoOn)
		}
	}
}

func TestToggleMuteAndVideo_MirroredIntoRoster(t *testing.T) {
	req := require.New(t)
	s := newTestSession(t, Config{})

	s.JoinCall(context.Background())
	s.ToggleMute()
	s.ToggleVideo()

	snap := s.Snapshot()
	for _, p := range snap.Roster {
		if p.ID == domain.LocalViewer {
			req.True(p.IsMuted)
			req.False(p.IsVideoOn)
		}
	}
	req.Len(snap.Call, 1)
	req.True(snap.Call[0].AudioMuted)
	req.False(snap.Call[0].VideoEnabled)
}

type recordingNotifier struct {
	mu       sync.Mutex
	failures bool
	calls    int
	done     chan struct{}
}

func (n *recordingNotifier) MessageSent(_ context.Context, _ domain.RoomID, _ domain.Message) error {
	n.mu.Lock()
	n.calls++
	n.mu.Unlock()
	defer close(n.done)
	if n.failures {
		return errors.NewAppError("backend unreachable", "NETWORK_ERROR", 500)
	}
	return nil
}

func (n *recordingNotifier) ReactionToggled(_ context.Context, _ domain.RoomID, _, _ string) error {
	return nil
}

func TestSendMessage_NotifierFailureDoesNotRollBack(t *testing.T) {
	req := require.New(t)
	notifier := &recordingNotifier{failures: true, done: make(chan struct{})}
	s := newTestSession(t, Config{Notifier: notifier})

	msg, err := s.SendMessage(context.Background(), "optimistic commit")
	req.NoError(err)

	select {
	case <-notifier.done:
	case <-time.After(2 * time.Second):
		t.Fatal("notifier was never called")
	}

	// The local append stands even though the backend call failed.
	snap := s.Snapshot()
	req.Len(snap.Messages, 1)
	req.Equal(msg.ID, snap.Messages[0].ID)
}

type deniedDevices struct{}

func (deniedDevices) RequestUserMedia(context.Context, bool, bool) (*contract.MediaStream, error) {
	return nil, errors.NewAppError("Permission denied", "MEDIA_PERMISSION_DENIED", 403)
}

func (deniedDevices) RequestDisplayMedia(context.Context) (*contract.MediaStream, error) {
	return nil, errors.NewAppError("Permission denied", "MEDIA_PERMISSION_DENIED", 403)
}

func TestStartVideoCall_DenialLeavesCallMembershipUntouched(t *testing.T) {
	req := require.New(t)
	s := newTestSession(t, Config{})
	ctx := context.Background()

	req.Error(s.StartVideoCall(ctx, deniedDevices{}))
	req.Empty(s.Snapshot().Call)

	req.Error(s.ToggleScreenShare(ctx, deniedDevices{}))
	req.False(s.Snapshot().ScreenSharing)
}

type collectingSink struct {
	mu     sync.Mutex
	events []event.DomainEvent
}

func (c *collectingSink) Consume(_ context.Context, e event.DomainEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
	return nil
}

func TestEndToEndScenario(t *testing.T) {
	req := require.New(t)
	sink := &collectingSink{}
	s := newTestSession(t, Config{})
	s.AddSink(sink)
	ctx := context.Background()

	// Given a roster of A, B and the local viewer and an empty room
	req.Empty(s.Snapshot().Messages)

	// When the local viewer sends a message
	msg, err := s.SendMessage(ctx, "hi")
	req.NoError(err)
	snap := s.Snapshot()
	req.Len(snap.Messages, 1)
	req.Equal(domain.LocalViewer, snap.Messages[0].AuthorID)

	// And A reacts with a thumbs up
	req.NoError(s.ToggleReaction(ctx, msg.ID, "👍", participantA))
	snap = s.Snapshot()
	req.Len(snap.Messages[0].Reactions, 1)
	req.Equal("👍", snap.Messages[0].Reactions[0].Emoji)
	req.Equal([]domain.ParticipantID{participantA}, snap.Messages[0].Reactions[0].ReactorIDs)

	// And A toggles the same reaction again
	req.NoError(s.ToggleReaction(ctx, msg.ID, "👍", participantA))
	req.Empty(s.Snapshot().Messages[0].Reactions)

	// And B gets kicked
	req.NoError(s.KickParticipant(ctx, participantB))

	// Then the roster is A plus the local viewer and the log is unchanged
	snap = s.Snapshot()
	ids := make([]domain.ParticipantID, 0, len(snap.Roster))
	for _, p := range snap.Roster {
		ids = append(ids, p.ID)
	}
	req.Equal([]domain.ParticipantID{participantA, domain.LocalViewer}, ids)
	req.Len(snap.Messages, 1)
	req.Equal(domain.LocalViewer, snap.Messages[0].AuthorID)

	// And every transition produced a domain event
	sink.mu.Lock()
	defer sink.mu.Unlock()
	req.Len(sink.events, 4)
}
