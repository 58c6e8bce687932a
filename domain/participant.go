// Package domain contains core concepts of the chat product.
// This file defines Participant entities and the local-viewer identity.
// No runtime, network, or UI logic should be added here.
package domain

type ParticipantID string

// LocalViewer is the distinguished identity of the person driving the UI.
// It is a typed constant rather than a scattered string literal so that
// privileged checks (kick protection, call membership) compare by value.
const LocalViewer ParticipantID = "current-user"

func (id ParticipantID) IsLocalViewer() bool {
	return id == LocalViewer
}

// Participant is one entry of a room roster.
type Participant struct {
	ID          ParticipantID
	DisplayName string
	Initials    string
	IsOnline    bool
	IsMuted     bool
	IsVideoOn   bool
	IsInCall    bool
	IsFollowed  bool // followed by the local viewer
}
