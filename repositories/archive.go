//go:generate go run go.uber.org/mock/mockgen -source=archive.go -destination=../mocks/mock_archive.go -package=mocks
package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"linguaroom/domain"
)

type IMessageArchive interface {
	Store(roomID domain.RoomID, message domain.Message) error
	List(roomID domain.RoomID, cursor *string) ([]domain.Message, *string, error)
	Close() error
}

// MessageArchive keeps a local, in-memory copy of everything sent during a
// session so the history pane can page backwards without going to the wire.
type MessageArchive struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewMessageArchive(log *slog.Logger, limitMessages *int) (*MessageArchive, error) {
	options := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(options)
	if err != nil {
		return nil, err
	}
	return &MessageArchive{db: db, log: log, limitMessages: limitMessages}, nil
}

func (m *MessageArchive) Close() error {
	return m.db.Close()
}

type archivedMessage struct {
	ID        string            `json:"id"`
	AuthorID  string            `json:"author_id"`
	Body      string            `json:"body"`
	Lang      string            `json:"lang,omitempty"`
	At        int64             `json:"at"`
	Reactions []domain.Reaction `json:"reactions,omitempty"`
}

// Store persists a message in BadgerDB.
// The key is formatted as "msg:{room_id}:{timestamp_padded}:{message_id}" to:
//  1. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  2. Prevent data loss by using the message id as a collision disconnector if
//     two messages arrive at the same nanosecond.
func (m *MessageArchive) Store(roomID domain.RoomID, message domain.Message) error {
	key := fmt.Sprintf("msg:%s:%019d:%s",
		roomID,
		message.CreatedAt.UnixNano(),
		message.ID,
	)
	bytes, err := json.Marshal(fromMessage(message))
	if err != nil {
		return err
	}
	return m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

// List retrieves messages for a specific room using a reverse prefix scan,
// newest first. Thanks to the padded timestamp in the key, messages are
// naturally sorted by time. It stops collecting messages once the configured
// limitMessages is reached and returns a cursor for the next page.
func (m *MessageArchive) List(roomID domain.RoomID, cursor *string) ([]domain.Message, *string, error) {
	var byteMessages [][]byte
	var messages []domain.Message
	var lastKey string
	err := m.db.View(func(txn *badger.Txn) error {
		prefixStr := fmt.Sprintf("msg:%s:", roomID)
		prefix := []byte(prefixStr)
		prefixLen := len(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// Seek past the newest possible key for the room, then walk back.
			seekKey = append(prefix, []byte("9999999999999999999")...)
		default:
			seekKey = append(prefix, []byte(*cursor)...)
		}

		it.Seek(seekKey)

		if cursor != nil && it.ValidForPrefix(prefix) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if m.limitMessages != nil && len(byteMessages) == *m.limitMessages {
				m.log.Debug(fmt.Sprintf("Maximum of %d messages reached", *m.limitMessages))
				break
			}
			item := it.Item()
			// Memorize cursor part of the actual key
			lastKey = string(item.Key()[prefixLen:])
			err := item.Value(func(value []byte) error {
				byteMessages = append(byteMessages, value)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	for _, b := range byteMessages {
		var archived archivedMessage
		if err = json.Unmarshal(b, &archived); err != nil {
			return nil, nil, err
		}
		messages = append(messages, toMessage(archived))
	}
	return messages, &lastKey, nil
}

// RecordReaction keeps an append-only trail of reaction toggles alongside the
// messages. The trail is write-only for now, it exists so a reconnecting
// session could replay reactions it missed.
func (m *MessageArchive) RecordReaction(roomID domain.RoomID, messageID, emoji string, at time.Time) error {
	key := fmt.Sprintf("rx:%s:%019d:%s", roomID, at.UnixNano(), messageID)
	bytes, err := json.Marshal(map[string]string{"message_id": messageID, "emoji": emoji})
	if err != nil {
		return err
	}
	return m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

func fromMessage(message domain.Message) archivedMessage {
	return archivedMessage{
		ID:        message.ID,
		AuthorID:  string(message.AuthorID),
		Body:      message.Body,
		Lang:      message.Lang,
		At:        message.CreatedAt.UnixNano(),
		Reactions: message.Reactions,
	}
}

func toMessage(archived archivedMessage) domain.Message {
	return domain.Message{
		ID:        archived.ID,
		AuthorID:  domain.ParticipantID(archived.AuthorID),
		Body:      archived.Body,
		Lang:      archived.Lang,
		CreatedAt: time.Unix(0, archived.At).UTC(),
		Reactions: archived.Reactions,
	}
}

// ArchiveNotifier mirrors outgoing traffic into the archive. It satisfies the
// session's notifier contract so the archive stays current without the
// session knowing about storage.
type ArchiveNotifier struct {
	archive *MessageArchive
	clock   func() time.Time
}

func NewArchiveNotifier(archive *MessageArchive) *ArchiveNotifier {
	return &ArchiveNotifier{archive: archive, clock: time.Now}
}

func (n *ArchiveNotifier) MessageSent(_ context.Context, roomID domain.RoomID, message domain.Message) error {
	return n.archive.Store(roomID, message)
}

func (n *ArchiveNotifier) ReactionToggled(_ context.Context, roomID domain.RoomID, messageID, emoji string) error {
	return n.archive.RecordReaction(roomID, messageID, emoji, n.clock())
}
