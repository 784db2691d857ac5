// README: Chat service validates and appends thread messages.
package chat

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"courier/internal/types"
)

var ErrEmptyMessage = errors.New("empty message")

const maxBodyLen = 1000

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) Send(ctx context.Context, driverID types.ID, from Sender, body string) (Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return Message{}, ErrEmptyMessage
	}
	if len(body) > maxBodyLen {
		body = body[:maxBodyLen]
	}
	m := Message{
		ID:       newID(),
		DriverID: driverID,
		From:     from,
		Body:     body,
		SentAt:   time.Now(),
	}
	if err := s.store.Append(ctx, m); err != nil {
		return Message{}, err
	}
	return m, nil
}

func (s *Service) Recent(ctx context.Context, driverID types.ID, limit int) ([]Message, error) {
	return s.store.Recent(ctx, driverID, limit)
}

func newID() types.ID {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return types.ID(hex.EncodeToString(b[:]))
}
