package client

import (
	"context"

	"linguaroom/domain"
)

// RemoteNotifier bridges the session's fire-and-forget notifications to the
// backend contract. The session never waits on it and never rolls back when
// it fails.
type RemoteNotifier struct {
	c *Client
}

func NewRemoteNotifier(c *Client) *RemoteNotifier {
	return &RemoteNotifier{c: c}
}

func (n *RemoteNotifier) MessageSent(ctx context.Context, roomID domain.RoomID, msg domain.Message) error {
	_, err := n.c.Messages().Send(ctx, roomID, msg.Body)
	return err
}

func (n *RemoteNotifier) ReactionToggled(ctx context.Context, roomID domain.RoomID, messageID, emoji string) error {
	return n.c.Messages().AddReaction(ctx, roomID, messageID, emoji)
}
