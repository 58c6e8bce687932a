package domain

import (
	"time"

	"github.com/samber/lo"
)

// Friend is one row of the friends list sidebar.
type Friend struct {
	ID              ParticipantID
	Username        string
	Initials        string
	IsOnline        bool
	LastMessage     string
	LastMessageTime time.Time
	UnreadCount     int
}

// FriendMessage is one entry of a 1:1 thread, separate state from any room.
type FriendMessage struct {
	ID       string
	FriendID ParticipantID
	SenderID ParticipantID
	Body     string
	SentAt   time.Time
	IsRead   bool
}

// FriendConversation couples a friend's thread with its unread counter.
// Invariant: UnreadCount is zeroed exactly when the conversation becomes
// the active selection, at which point every message is marked read.
type FriendConversation struct {
	FriendID    ParticipantID
	Messages    []FriendMessage
	UnreadCount int
}

func (c FriendConversation) Clone() FriendConversation {
	return FriendConversation{
		FriendID:    c.FriendID,
		Messages:    lo.Map(c.Messages, func(m FriendMessage, _ int) FriendMessage { return m }),
		UnreadCount: c.UnreadCount,
	}
}
