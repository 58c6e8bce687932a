// Package event defines the domain events a chat session emits.
// Projections and sinks consume them; they never flow back into the session.
package event

import (
	"time"

	"linguaroom/domain"
)

type DomainEvent interface {
	Room() domain.RoomID
}

type MessageSent struct {
	RoomID  domain.RoomID
	Message domain.Message
}

func (e MessageSent) Room() domain.RoomID { return e.RoomID }

type ReactionToggled struct {
	RoomID    domain.RoomID
	MessageID string
	Emoji     string
	ReactorID domain.ParticipantID
	Added     bool
	At        time.Time
}

func (e ReactionToggled) Room() domain.RoomID { return e.RoomID }

type ParticipantKicked struct {
	RoomID        domain.RoomID
	ParticipantID domain.ParticipantID
	At            time.Time
}

func (e ParticipantKicked) Room() domain.RoomID { return e.RoomID }

type CallJoined struct {
	RoomID        domain.RoomID
	ParticipantID domain.ParticipantID
	At            time.Time
}

func (e CallJoined) Room() domain.RoomID { return e.RoomID }

type CallLeft struct {
	RoomID        domain.RoomID
	ParticipantID domain.ParticipantID
	At            time.Time
}

func (e CallLeft) Room() domain.RoomID { return e.RoomID }

type FriendMessageSent struct {
	RoomID  domain.RoomID
	Message domain.FriendMessage
}

func (e FriendMessageSent) Room() domain.RoomID { return e.RoomID }

type FriendSelected struct {
	RoomID   domain.RoomID
	FriendID domain.ParticipantID
	At       time.Time
}

func (e FriendSelected) Room() domain.RoomID { return e.RoomID }
