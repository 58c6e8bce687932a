//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"linguaroom/domain"
	"linguaroom/domain/event"
)

// EventSink receives domain events emitted by a session.
// Projections (friends sidebar, timelines) implement it.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// Notifier is the fire-and-forget bridge towards the backend.
// The session commits locally first; a Notifier failure is logged and
// counted but never rolls the local state back.
type Notifier interface {
	MessageSent(ctx context.Context, roomID domain.RoomID, msg domain.Message) error
	ReactionToggled(ctx context.Context, roomID domain.RoomID, messageID, emoji string) error
}

// MediaDevices acquires local capture streams. Acquisition is a request to
// the host environment: on denial it returns an error and the caller must
// leave call membership untouched.
type MediaDevices interface {
	RequestUserMedia(ctx context.Context, video, audio bool) (*MediaStream, error)
	RequestDisplayMedia(ctx context.Context) (*MediaStream, error)
}

type MediaKind string

const (
	MediaCamera  MediaKind = "camera"
	MediaDisplay MediaKind = "display"
)

// MediaStream is a handle on an acquired local stream. There is no peer
// connection behind it; Stop releases the (mock) device.
type MediaStream struct {
	Kind  MediaKind
	Label string
	stop  func()
}

func NewMediaStream(kind MediaKind, label string, stop func()) *MediaStream {
	return &MediaStream{Kind: kind, Label: label, stop: stop}
}

func (s *MediaStream) Stop() {
	if s != nil && s.stop != nil {
		s.stop()
	}
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging purposes during worker initialization or
// lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
