// Package seed provides the demo fixtures the app boots with before any
// backend is reachable. The content mirrors the hosted demo environment.
package seed

import (
	"time"

	"linguaroom/domain"
)

func at(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return t
}

// Rooms returns the dashboard directory.
func Rooms() []domain.Room {
	return []domain.Room{
		{
			ID:           "1",
			Name:         "English Conversation Room",
			Language:     "English",
			LanguageCode: "en",
			Description:  "Practice your English with native speakers",
			UserLimit:    12,
			Participants: 12,
		},
		{
			ID:           "2",
			Name:         "Spanish Fiesta",
			Language:     "Spanish",
			LanguageCode: "es",
			Description:  "¡Hola! Practice Spanish with native speakers.",
			UserLimit:    8,
			Participants: 8,
		},
		{
			ID:           "3",
			Name:         "French Rendezvous",
			Language:     "French",
			LanguageCode: "fr",
			Description:  "Parlez français avec des amis!",
			UserLimit:    3,
			Participants: 3,
		},
	}
}

// Roster returns the members of a room, without the local viewer. The
// session appends the viewer itself on construction.
func Roster(roomID domain.RoomID) []domain.Participant {
	rosters := map[domain.RoomID][]domain.Participant{
		"1": {
			{ID: "1", DisplayName: "john_doe", Initials: "JD", IsOnline: true},
			{ID: "2", DisplayName: "sarah_smith", Initials: "SS", IsOnline: true},
			{ID: "3", DisplayName: "mike_wilson", Initials: "MW", IsOnline: true},
			{ID: "4", DisplayName: "emma_brown", Initials: "EB", IsOnline: true},
			{ID: "5", DisplayName: "alex_taylor", Initials: "AT", IsOnline: true},
		},
		"2": {
			{ID: "6", DisplayName: "carlos_ruiz", Initials: "CR", IsOnline: true},
			{ID: "7", DisplayName: "maria_gonzalez", Initials: "MG", IsOnline: true},
			{ID: "8", DisplayName: "david_lee", Initials: "DL", IsOnline: true},
			{ID: "9", DisplayName: "sophia_wang", Initials: "SW", IsOnline: true},
			{ID: "10", DisplayName: "olivia_jones", Initials: "OJ", IsOnline: true},
		},
		"3": {
			{ID: "14", DisplayName: "pierre_dupont", Initials: "PD", IsOnline: true},
			{ID: "15", DisplayName: "claire_martin", Initials: "CM", IsOnline: true},
			{ID: "16", DisplayName: "lucas_petit", Initials: "LP", IsOnline: true},
		},
	}
	return rosters[roomID]
}

// Messages returns the backlog of the English room.
func Messages() []domain.Message {
	return []domain.Message{
		{
			ID:        "1",
			AuthorID:  "1",
			Body:      "Hello everyone! Welcome to the room.",
			CreatedAt: at("2024-01-15T10:00:00Z"),
		},
		{
			ID:        "2",
			AuthorID:  "2",
			Body:      "Hi John! Excited to practice together.",
			CreatedAt: at("2024-01-15T10:02:00Z"),
			Reactions: []domain.Reaction{
				{Emoji: "👍", ReactorIDs: []domain.ParticipantID{domain.LocalViewer, "1"}},
			},
		},
		{
			ID:        "3",
			AuthorID:  domain.LocalViewer,
			Body:      "Thanks for having me!",
			CreatedAt: at("2024-01-15T10:03:00Z"),
		},
		{
			ID:        "4",
			AuthorID:  "3",
			Body:      "Let's start practicing!",
			CreatedAt: at("2024-01-15T10:05:00Z"),
			Reactions: []domain.Reaction{
				{Emoji: "👍", ReactorIDs: []domain.ParticipantID{domain.LocalViewer}},
				{Emoji: "❤️", ReactorIDs: []domain.ParticipantID{"2"}},
			},
		},
	}
}

// Friends returns the sidebar friend list.
func Friends() []domain.Friend {
	return []domain.Friend{
		{
			ID:              "friend-1",
			Username:        "john_doe",
			Initials:        "JD",
			IsOnline:        true,
			LastMessage:     "Hey! How are you doing?",
			LastMessageTime: at("2024-01-15T11:30:00Z"),
			UnreadCount:     2,
		},
		{
			ID:              "friend-2",
			Username:        "sarah_smith",
			Initials:        "SS",
			IsOnline:        true,
			LastMessage:     "Thanks for the help!",
			LastMessageTime: at("2024-01-15T10:15:00Z"),
			UnreadCount:     0,
		},
		{
			ID:              "friend-3",
			Username:        "mike_wilson",
			Initials:        "MW",
			IsOnline:        false,
			LastMessage:     "See you later!",
			LastMessageTime: at("2024-01-14T18:00:00Z"),
			UnreadCount:     1,
		},
	}
}

// FriendMessages returns every 1:1 thread, keyed by friend.
func FriendMessages() map[domain.ParticipantID][]domain.FriendMessage {
	return map[domain.ParticipantID][]domain.FriendMessage{
		"friend-1": {
			{ID: "fm-1", FriendID: "friend-1", SenderID: "friend-1", Body: "Hey! How are you doing?", SentAt: at("2024-01-15T11:30:00Z")},
			{ID: "fm-2", FriendID: "friend-1", SenderID: domain.LocalViewer, Body: "I'm doing great, thanks! How about you?", SentAt: at("2024-01-15T11:32:00Z"), IsRead: true},
			{ID: "fm-3", FriendID: "friend-1", SenderID: "friend-1", Body: "Awesome! Let's practice Spanish together soon.", SentAt: at("2024-01-15T11:35:00Z")},
		},
		"friend-2": {
			{ID: "fm-4", FriendID: "friend-2", SenderID: domain.LocalViewer, Body: "No problem! Happy to help.", SentAt: at("2024-01-15T10:10:00Z"), IsRead: true},
			{ID: "fm-5", FriendID: "friend-2", SenderID: "friend-2", Body: "Thanks for the help!", SentAt: at("2024-01-15T10:15:00Z"), IsRead: true},
		},
		"friend-3": {
			{ID: "fm-6", FriendID: "friend-3", SenderID: "friend-3", Body: "See you later!", SentAt: at("2024-01-14T18:00:00Z")},
		},
	}
}
