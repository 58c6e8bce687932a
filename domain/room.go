package domain

type RoomID string

// Room describes one practice room of the dashboard directory.
type Room struct {
	ID           RoomID
	Name         string
	Language     string
	LanguageCode string
	Description  string
	UserLimit    int
	Participants int
}
