// Package search backs the dashboard's room directory: the free-text search
// box and the language filter. The index lives in memory only, consistent
// with the rest of the mock surviving nothing.
package search

import (
	"context"
	"log/slog"
	"strings"

	"github.com/blugelabs/bluge"

	"linguaroom/domain"
)

type RoomIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewRoomIndex(log *slog.Logger) (*RoomIndex, error) {
	writer, err := bluge.OpenWriter(bluge.InMemoryOnlyConfig())
	if err != nil {
		return nil, err
	}
	return &RoomIndex{writer: writer, log: log}, nil
}

func (i *RoomIndex) Close() error {
	return i.writer.Close()
}

// Index upserts rooms into the directory. Name and description are
// full-text searchable; the language code is an exact-match filter.
func (i *RoomIndex) Index(rooms ...domain.Room) error {
	batch := bluge.NewBatch()
	for _, room := range rooms {
		doc := bluge.NewDocument(string(room.ID)).
			AddField(bluge.NewTextField("name", room.Name).StoreValue()).
			AddField(bluge.NewTextField("description", room.Description)).
			AddField(bluge.NewKeywordField("language", strings.ToLower(room.LanguageCode)))
		batch.Update(doc.ID(), doc)
	}
	if err := i.writer.Batch(batch); err != nil {
		return err
	}
	i.log.Debug("Indexed rooms", "count", len(rooms))
	return nil
}

// Search returns the ids of rooms matching the query and language filter.
// An empty query lists everything (optionally narrowed by language), which
// is what the dashboard shows before the user types.
func (i *RoomIndex) Search(ctx context.Context, query, languageCode string, limit int) ([]domain.RoomID, error) {
	if limit <= 0 {
		limit = 10
	}

	bq := bluge.NewBooleanQuery()
	if query != "" {
		text := bluge.NewBooleanQuery().
			AddShould(bluge.NewMatchQuery(query).SetField("name")).
			AddShould(bluge.NewMatchQuery(query).SetField("description"))
		text.SetMinShould(1)
		bq.AddMust(text)
	} else {
		bq.AddMust(bluge.NewMatchAllQuery())
	}
	if languageCode != "" {
		bq.AddMust(bluge.NewTermQuery(strings.ToLower(languageCode)).SetField("language"))
	}

	reader, err := i.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = reader.Close()
	}()

	dmi, err := reader.Search(ctx, bluge.NewTopNSearch(limit, bq))
	if err != nil {
		return nil, err
	}

	var ids []domain.RoomID
	for {
		match, err := dmi.Next()
		if err != nil {
			return nil, err
		}
		if match == nil {
			break
		}
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			if field == "_id" {
				ids = append(ids, domain.RoomID(value))
				return false
			}
			return true
		})
		if err != nil {
			return nil, err
		}
	}
	return ids, nil
}
