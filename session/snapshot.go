package session

import (
	"time"

	"github.com/samber/lo"

	"linguaroom/domain"
)

// CallMember is one roster member currently joined to the mock call.
type CallMember struct {
	ID           domain.ParticipantID
	VideoEnabled bool
	AudioMuted   bool
}

// Snapshot is an immutable deep copy of the session state, safe to hand to a
// rendering layer. Later commands never mutate an already-taken snapshot.
type Snapshot struct {
	Room           domain.Room
	Roster         []domain.Participant
	Messages       []domain.Message
	Typing         []domain.ParticipantID
	Call           []CallMember
	Friends        []domain.Friend
	Conversations  map[domain.ParticipantID]domain.FriendConversation
	SelectedFriend domain.ParticipantID
	ScreenSharing  bool
	TakenAt        time.Time
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()

	conversations := make(map[domain.ParticipantID]domain.FriendConversation, len(s.conversations))
	for id, conv := range s.conversations {
		conversations[id] = conv.Clone()
	}

	// Call membership in roster (join) order.
	var call []CallMember
	for _, p := range s.roster {
		if state, ok := s.call[p.ID]; ok {
			call = append(call, CallMember{ID: p.ID, VideoEnabled: state.VideoEnabled, AudioMuted: state.AudioMuted})
		}
	}

	return Snapshot{
		Room:           s.room,
		Roster:         append([]domain.Participant(nil), s.roster...),
		Messages:       lo.Map(s.messages, func(m domain.Message, _ int) domain.Message { return m.Clone() }),
		Typing:         s.typing.Active(now),
		Call:           call,
		Friends:        append([]domain.Friend(nil), s.friends...),
		Conversations:  conversations,
		SelectedFriend: s.selectedFriend,
		ScreenSharing:  s.screenSharing,
		TakenAt:        now,
	}
}
