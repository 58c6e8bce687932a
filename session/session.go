// Package session owns the canonical state for one active chat surface:
// participant roster, message log, reaction index, typing indicators, call
// membership and friend conversations.
//
// Every command is apply-or-reject: it either commits and the next Snapshot
// reflects it, or it fails and prior state is untouched. Local commits are
// optimistic; the backend notifier runs fire-and-forget and its failures
// never roll anything back.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/lo"

	"linguaroom/contract"
	"linguaroom/domain"
	"linguaroom/domain/event"
	"linguaroom/errors"
	"linguaroom/moderation"
	"linguaroom/observability"
	"linguaroom/validation"
)

const (
	DefaultTypingTTL = 3 * time.Second
	notifyTimeout    = 5 * time.Second
)

// CallState carries the per-member flags of the (unconnected, mock) call.
type CallState struct {
	VideoEnabled bool
	AudioMuted   bool
}

type Config struct {
	Room           domain.Room
	Roster         []domain.Participant
	Messages       []domain.Message
	Friends        []domain.Friend
	FriendMessages map[domain.ParticipantID][]domain.FriendMessage

	// TypingTTL defaults to DefaultTypingTTL, MaxMessageLength to
	// validation.MaxMessageLength. Clock defaults to time.Now.
	TypingTTL        time.Duration
	MaxMessageLength int
	Clock            func() time.Time

	Moderator *moderation.Moderator
	Notifier  contract.Notifier
	Metrics   *observability.SessionMetrics
}

type Session struct {
	mu  sync.Mutex
	log *slog.Logger

	room   domain.Room
	self   domain.ParticipantID
	roster []domain.Participant

	messages []domain.Message

	friends        []domain.Friend
	conversations  map[domain.ParticipantID]*domain.FriendConversation
	selectedFriend domain.ParticipantID

	typing        *typingSet
	call          map[domain.ParticipantID]CallState
	screenSharing bool
	localStream   *contract.MediaStream
	shareStream   *contract.MediaStream

	moderator *moderation.Moderator
	notifier  contract.Notifier
	metrics   *observability.SessionMetrics
	sinks     []contract.EventSink

	clock  func() time.Time
	maxLen int
}

// NewSession seeds a session from the provided initial data. The roster is
// copied in join order; the local viewer is appended when the seed does not
// already contain them, so they are always present.
func NewSession(cfg Config, log *slog.Logger) *Session {
	if cfg.TypingTTL <= 0 {
		cfg.TypingTTL = DefaultTypingTTL
	}
	if cfg.MaxMessageLength <= 0 {
		cfg.MaxMessageLength = validation.MaxMessageLength
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	s := &Session{
		log:           log,
		room:          cfg.Room,
		self:          domain.LocalViewer,
		roster:        lo.Map(cfg.Roster, func(p domain.Participant, _ int) domain.Participant { return p }),
		messages:      lo.Map(cfg.Messages, func(m domain.Message, _ int) domain.Message { return m.Clone() }),
		friends:       lo.Map(cfg.Friends, func(f domain.Friend, _ int) domain.Friend { return f }),
		conversations: make(map[domain.ParticipantID]*domain.FriendConversation),
		typing:        newTypingSet(cfg.TypingTTL),
		call:          make(map[domain.ParticipantID]CallState),
		moderator:     cfg.Moderator,
		notifier:      cfg.Notifier,
		metrics:       cfg.Metrics,
		clock:         cfg.Clock,
		maxLen:        cfg.MaxMessageLength,
	}

	if _, ok := s.findParticipant(s.self); !ok {
		s.roster = append(s.roster, domain.Participant{
			ID:          s.self,
			DisplayName: "you",
			Initials:    "YO",
			IsOnline:    true,
		})
	}

	for _, friend := range s.friends {
		conv := &domain.FriendConversation{
			FriendID:    friend.ID,
			Messages:    append([]domain.FriendMessage(nil), cfg.FriendMessages[friend.ID]...),
			UnreadCount: friend.UnreadCount,
		}
		s.conversations[friend.ID] = conv
	}

	// Seed call membership for participants already flagged in-call.
	for _, p := range s.roster {
		if p.IsInCall {
			s.call[p.ID] = CallState{VideoEnabled: p.IsVideoOn, AudioMuted: p.IsMuted}
		}
	}

	return s
}

func (s *Session) Room() domain.Room { return s.room }

func (s *Session) Self() domain.ParticipantID { return s.self }

func (s *Session) AddSink(sinks ...contract.EventSink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sinks = append(s.sinks, sinks...)
}

// SendMessage sanitizes and validates the body, censors it when a moderator
// is configured, appends the message to the end of the log and clears the
// room's typing indicators. The backend is notified fire-and-forget.
func (s *Session) SendMessage(ctx context.Context, body string) (domain.Message, error) {
	sanitized, err := validation.MessageWithLimit(body, s.maxLen)
	if err != nil {
		s.log.Warn("Invalid message", "err", err)
		return domain.Message{}, err
	}

	if s.moderator != nil {
		censored, words := s.moderator.Censor(sanitized)
		if len(words) > 0 {
			s.log.Warn("Message censored before send", "matches", len(words))
		}
		sanitized = censored
	}

	s.mu.Lock()
	now := s.clock()
	msg := domain.Message{
		ID:        domain.NewMessageID(now),
		AuthorID:  s.self,
		Body:      sanitized,
		Lang:      domain.DetectLanguage(sanitized),
		CreatedAt: now,
		Reactions: []domain.Reaction{},
	}
	s.messages = append(s.messages, msg)
	s.mu.Unlock()

	s.typing.ClearAll()

	if s.metrics != nil {
		s.metrics.IncrMessagesSent()
	}
	s.emit(ctx, event.MessageSent{RoomID: s.room.ID, Message: msg.Clone()})
	s.notifyMessageSent(msg.Clone())

	s.log.Info("Message sent in room", "room", s.room.ID, "message", msg.ID)
	return msg, nil
}

// ToggleReaction flips the reactor's presence on the emoji's reaction of the
// given message. The message's reaction list is replaced wholesale: consumers
// relying on referential identity for change detection observe the update,
// and earlier snapshots stay untouched.
func (s *Session) ToggleReaction(ctx context.Context, messageID, emoji string, reactor domain.ParticipantID) error {
	s.mu.Lock()

	msgIdx := -1
	for i := range s.messages {
		if s.messages[i].ID == messageID {
			msgIdx = i
			break
		}
	}
	if msgIdx == -1 {
		s.mu.Unlock()
		s.log.Warn("Reaction on unknown message", "message", messageID)
		return errors.NewNotFound("Message not found")
	}

	old := s.messages[msgIdx].Reactions
	reactionIdx := -1
	for i := range old {
		if old[i].Emoji == emoji {
			reactionIdx = i
			break
		}
	}

	var next []domain.Reaction
	var added bool
	switch {
	case reactionIdx == -1:
		next = make([]domain.Reaction, 0, len(old)+1)
		next = append(next, old...)
		next = append(next, domain.Reaction{Emoji: emoji, ReactorIDs: []domain.ParticipantID{reactor}})
		added = true
	case old[reactionIdx].HasReactor(reactor):
		remaining := lo.Filter(old[reactionIdx].ReactorIDs, func(id domain.ParticipantID, _ int) bool {
			return id != reactor
		})
		if len(remaining) == 0 {
			// No zero-count reactions: drop the reaction entirely.
			next = make([]domain.Reaction, 0, len(old)-1)
			next = append(next, old[:reactionIdx]...)
			next = append(next, old[reactionIdx+1:]...)
		} else {
			next = append([]domain.Reaction(nil), old...)
			next[reactionIdx] = domain.Reaction{Emoji: emoji, ReactorIDs: remaining}
		}
	default:
		next = append([]domain.Reaction(nil), old...)
		next[reactionIdx] = domain.Reaction{
			Emoji:      emoji,
			ReactorIDs: append(append([]domain.ParticipantID(nil), old[reactionIdx].ReactorIDs...), reactor),
		}
		added = true
	}

	s.messages[msgIdx].Reactions = next
	now := s.clock()
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.IncrReactionsToggled()
	}
	s.emit(ctx, event.ReactionToggled{
		RoomID:    s.room.ID,
		MessageID: messageID,
		Emoji:     emoji,
		ReactorID: reactor,
		Added:     added,
		At:        now,
	})
	s.notifyReactionToggled(messageID, emoji)
	return nil
}

// SetTyping marks a participant as composing a message. Refreshing before
// expiry replaces the deadline. Advisory state: unknown participants are
// ignored with a warning rather than rejected.
func (s *Session) SetTyping(id domain.ParticipantID) {
	s.mu.Lock()
	_, ok := s.findParticipant(id)
	s.mu.Unlock()
	if !ok {
		s.log.Warn("Typing indicator for unknown participant", "participant", id)
		return
	}
	s.typing.Set(id, s.clock())
}

func (s *Session) ClearTyping(id domain.ParticipantID) {
	s.typing.Clear(id)
}

// TypingParticipants lists who is currently composing, oldest first.
func (s *Session) TypingParticipants() []domain.ParticipantID {
	return s.typing.Active(s.clock())
}

func (s *Session) sweepTyping() {
	expired := s.typing.Sweep(s.clock())
	if expired > 0 && s.metrics != nil {
		s.metrics.AddTypingExpired(uint64(expired))
	}
}

// SelectFriend makes the friend's conversation the active selection: every
// message is marked read and the unread counter zeroed in the same commit.
// A reader can never observe one without the other.
func (s *Session) SelectFriend(ctx context.Context, friendID domain.ParticipantID) (domain.FriendConversation, error) {
	s.mu.Lock()

	conv, ok := s.conversations[friendID]
	if !ok {
		s.mu.Unlock()
		return domain.FriendConversation{}, errors.NewNotFound("Friend not found")
	}

	read := lo.Map(conv.Messages, func(m domain.FriendMessage, _ int) domain.FriendMessage {
		m.IsRead = true
		return m
	})
	conv.Messages = read
	conv.UnreadCount = 0

	for i := range s.friends {
		if s.friends[i].ID == friendID {
			s.friends[i].UnreadCount = 0
			break
		}
	}
	s.selectedFriend = friendID
	now := s.clock()
	result := conv.Clone()
	s.mu.Unlock()

	s.emit(ctx, event.FriendSelected{RoomID: s.room.ID, FriendID: friendID, At: now})
	return result, nil
}

// SendFriendMessage appends to the friend's 1:1 thread, separate state from
// the room log. Same sanitization and bounds as SendMessage.
func (s *Session) SendFriendMessage(ctx context.Context, friendID domain.ParticipantID, body string) (domain.FriendMessage, error) {
	sanitized, err := validation.MessageWithLimit(body, s.maxLen)
	if err != nil {
		s.log.Warn("Invalid friend message", "err", err)
		return domain.FriendMessage{}, err
	}

	s.mu.Lock()
	conv, ok := s.conversations[friendID]
	if !ok {
		s.mu.Unlock()
		return domain.FriendMessage{}, errors.NewNotFound("Friend not found")
	}

	now := s.clock()
	msg := domain.FriendMessage{
		ID:       domain.NewMessageID(now),
		FriendID: friendID,
		SenderID: s.self,
		Body:     sanitized,
		SentAt:   now,
		IsRead:   true,
	}
	conv.Messages = append(conv.Messages, msg)

	for i := range s.friends {
		if s.friends[i].ID == friendID {
			s.friends[i].LastMessage = sanitized
			s.friends[i].LastMessageTime = now
			break
		}
	}
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.IncrFriendMessagesSent()
	}
	s.emit(ctx, event.FriendMessageSent{RoomID: s.room.ID, Message: msg})
	return msg, nil
}

// ToggleFollow flips whether the local viewer follows a participant.
// The follow and unfollow buttons share this single handler, so there is no
// idempotent guard: a toggle always flips.
func (s *Session) ToggleFollow(id domain.ParticipantID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.findParticipant(id)
	if !ok {
		return errors.NewNotFound("User not found")
	}
	s.roster[idx].IsFollowed = !s.roster[idx].IsFollowed
	return nil
}

// KickParticipant removes a participant from the roster and the call
// membership in one commit. Their past messages stay in the log, and the
// local viewer can never be kicked.
func (s *Session) KickParticipant(ctx context.Context, id domain.ParticipantID) error {
	if id.IsLocalViewer() {
		s.log.Warn("Refusing to kick the local viewer")
		return errors.NewForbidden("You cannot kick yourself from the room")
	}

	s.mu.Lock()
	idx, ok := s.findParticipant(id)
	if !ok {
		s.mu.Unlock()
		return errors.NewNotFound("User not found")
	}

	s.roster = append(s.roster[:idx], s.roster[idx+1:]...)
	delete(s.call, id)
	now := s.clock()
	s.mu.Unlock()

	// Roster and advisory state must not disagree.
	s.typing.Clear(id)

	if s.metrics != nil {
		s.metrics.IncrParticipantsKicked()
	}
	s.emit(ctx, event.ParticipantKicked{RoomID: s.room.ID, ParticipantID: id, At: now})
	s.log.Info("Participant kicked", "room", s.room.ID, "participant", id)
	return nil
}

// JoinCall adds the local viewer to the call membership. Local flag only:
// no peer connection is established.
func (s *Session) JoinCall(ctx context.Context) {
	s.mu.Lock()
	s.call[s.self] = CallState{VideoEnabled: true}
	if idx, ok := s.findParticipant(s.self); ok {
		s.roster[idx].IsInCall = true
		s.roster[idx].IsVideoOn = true
	}
	now := s.clock()
	s.mu.Unlock()

	s.emit(ctx, event.CallJoined{RoomID: s.room.ID, ParticipantID: s.self, At: now})
}

// LeaveCall removes the local viewer from the call membership and clears the
// local video and screen-share flags.
func (s *Session) LeaveCall(ctx context.Context) {
	s.mu.Lock()
	delete(s.call, s.self)
	s.screenSharing = false
	if idx, ok := s.findParticipant(s.self); ok {
		s.roster[idx].IsInCall = false
		s.roster[idx].IsVideoOn = false
	}
	localStream := s.localStream
	shareStream := s.shareStream
	s.localStream = nil
	s.shareStream = nil
	now := s.clock()
	s.mu.Unlock()

	localStream.Stop()
	shareStream.Stop()
	s.emit(ctx, event.CallLeft{RoomID: s.room.ID, ParticipantID: s.self, At: now})
}

// ToggleMute flips the local viewer's mute flag.
func (s *Session) ToggleMute() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx, ok := s.findParticipant(s.self); ok {
		s.roster[idx].IsMuted = !s.roster[idx].IsMuted
		if state, in := s.call[s.self]; in {
			state.AudioMuted = s.roster[idx].IsMuted
			s.call[s.self] = state
		}
	}
}

// ToggleVideo flips the local viewer's camera flag.
func (s *Session) ToggleVideo() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx, ok := s.findParticipant(s.self); ok {
		s.roster[idx].IsVideoOn = !s.roster[idx].IsVideoOn
		if state, in := s.call[s.self]; in {
			state.VideoEnabled = s.roster[idx].IsVideoOn
			s.call[s.self] = state
		}
	}
}

// StartVideoCall acquires camera and microphone, then joins the call.
// On denial the failure is reported and call membership stays untouched.
func (s *Session) StartVideoCall(ctx context.Context, devices contract.MediaDevices) error {
	stream, err := devices.RequestUserMedia(ctx, true, true)
	if err != nil {
		s.log.Error("Error accessing media devices", "err", err)
		if s.metrics != nil {
			s.metrics.IncrMediaFailures()
		}
		return err
	}

	s.mu.Lock()
	s.localStream = stream
	s.mu.Unlock()

	s.JoinCall(ctx)
	return nil
}

// ToggleScreenShare starts or stops screen capture. A denied request leaves
// every flag as it was.
func (s *Session) ToggleScreenShare(ctx context.Context, devices contract.MediaDevices) error {
	s.mu.Lock()
	sharing := s.screenSharing
	s.mu.Unlock()

	if !sharing {
		stream, err := devices.RequestDisplayMedia(ctx)
		if err != nil {
			s.log.Error("Error sharing screen", "err", err)
			if s.metrics != nil {
				s.metrics.IncrMediaFailures()
			}
			return err
		}
		s.mu.Lock()
		s.shareStream = stream
		s.screenSharing = true
		s.mu.Unlock()
		return nil
	}

	s.mu.Lock()
	stream := s.shareStream
	s.shareStream = nil
	s.screenSharing = false
	s.mu.Unlock()

	stream.Stop()
	return nil
}

// findParticipant assumes the caller holds the lock.
func (s *Session) findParticipant(id domain.ParticipantID) (int, bool) {
	for i := range s.roster {
		if s.roster[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

func (s *Session) emit(ctx context.Context, e event.DomainEvent) {
	for _, sink := range s.sinks {
		if err := sink.Consume(ctx, e); err != nil {
			s.log.Warn("Event sink failed", "err", err)
		}
	}
}

func (s *Session) notifyMessageSent(msg domain.Message) {
	if s.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.notifier.MessageSent(ctx, s.room.ID, msg); err != nil {
			s.log.Error("Backend message notification failed", "err", err)
			if s.metrics != nil {
				s.metrics.IncrNotifyFailures()
			}
		}
	}()
}

func (s *Session) notifyReactionToggled(messageID, emoji string) {
	if s.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.notifier.ReactionToggled(ctx, s.room.ID, messageID, emoji); err != nil {
			s.log.Error("Backend reaction notification failed", "err", err)
			if s.metrics != nil {
				s.metrics.IncrNotifyFailures()
			}
		}
	}()
}
