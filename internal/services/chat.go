package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/websocket"
	"github.com/desertthunder/setmaster/internal/models"
	"github.com/desertthunder/setmaster/internal/shared"
)

// ChatService reads and sends band chat messages, and can subscribe to a
// band's channel for pushed messages over WebSocket.
type ChatService struct {
	client *Client
	wsURL  string
	logger *log.Logger
}

// NewChatService creates a chat service. wsURL is the WebSocket endpoint
// used by Subscribe; pass an empty string to disable subscriptions.
func NewChatService(client *Client, wsURL string, logger *log.Logger) *ChatService {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &ChatService{client: client, wsURL: wsURL, logger: logger}
}

// Messages returns a band's chat history, oldest first.
func (s *ChatService) Messages(ctx context.Context, bandID string) ([]models.BandMessage, error) {
	var messages []models.BandMessage
	path := "/bands/" + url.PathEscape(bandID) + "/messages"
	if err := s.client.Get(ctx, path, &messages); err != nil {
		return nil, fmt.Errorf("failed to fetch messages for band %s: %w", bandID, err)
	}

	return messages, nil
}

// Send posts a text message to a band's channel.
func (s *ChatService) Send(ctx context.Context, bandID, content string) (*models.BandMessage, error) {
	body := map[string]any{
		"content":      content,
		"message_type": models.MessageText,
	}

	var message models.BandMessage
	path := "/bands/" + url.PathEscape(bandID) + "/messages"
	if err := s.client.Post(ctx, path, body, &message); err != nil {
		return nil, fmt.Errorf("failed to send message to band %s: %w", bandID, err)
	}

	return &message, nil
}

// UpdateMessage edits the content of an existing message.
func (s *ChatService) UpdateMessage(ctx context.Context, messageID, content string) (*models.BandMessage, error) {
	body := map[string]string{"content": content}

	var message models.BandMessage
	if err := s.client.Patch(ctx, "/messages/"+url.PathEscape(messageID), body, &message); err != nil {
		return nil, fmt.Errorf("failed to update message %s: %w", messageID, err)
	}

	return &message, nil
}

// DeleteMessage removes a message from a band's channel.
func (s *ChatService) DeleteMessage(ctx context.Context, messageID string) error {
	if err := s.client.Delete(ctx, "/messages/"+url.PathEscape(messageID)); err != nil {
		return fmt.Errorf("failed to delete message %s: %w", messageID, err)
	}

	return nil
}

// ShareSetlist posts a setlist_share message carrying the shared setlist's
// id so band members can open it from chat.
func (s *ChatService) ShareSetlist(ctx context.Context, bandID, sharedSetlistID, name string) (*models.BandMessage, error) {
	body := map[string]any{
		"content":      fmt.Sprintf("shared the setlist %q", name),
		"message_type": models.MessageSetlistShare,
		"metadata":     map[string]any{"shared_setlist_id": sharedSetlistID},
	}

	var message models.BandMessage
	path := "/bands/" + url.PathEscape(bandID) + "/messages"
	if err := s.client.Post(ctx, path, body, &message); err != nil {
		return nil, fmt.Errorf("failed to share setlist to band %s: %w", bandID, err)
	}

	return &message, nil
}

// Subscription is a live connection to one band's chat channel. Messages
// pushed by the backend arrive on C until Close is called or the
// connection drops, at which point C is closed.
type Subscription struct {
	C      <-chan models.BandMessage
	bandID string
	conn   *websocket.Conn
	cancel context.CancelFunc
	done   sync.WaitGroup
	once   sync.Once
}

// BandID returns the band this subscription listens to.
func (s *Subscription) BandID() string {
	return s.bandID
}

// Close tears down the connection. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.cancel()
		s.conn.Close(websocket.StatusNormalClosure, "")
		s.done.Wait()
	})
}

// Subscribe opens a WebSocket subscription to a band's chat channel.
func (s *ChatService) Subscribe(ctx context.Context, bandID string) (*Subscription, error) {
	if s.wsURL == "" {
		return nil, fmt.Errorf("%w: no websocket endpoint configured", shared.ErrServiceUnavailable)
	}

	ctx, cancel := context.WithCancel(ctx)
	endpoint := s.wsURL + "/bands/" + url.PathEscape(bandID) + "/channel"

	conn, _, err := websocket.Dial(ctx, endpoint, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to subscribe to band %s: %w", bandID, err)
	}

	ch := make(chan models.BandMessage, 16)
	sub := &Subscription{C: ch, bandID: bandID, conn: conn, cancel: cancel}

	sub.done.Add(1)
	go func() {
		defer sub.done.Done()
		defer close(ch)

		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				if ctx.Err() == nil {
					s.logger.Warn("chat subscription closed", "band", bandID, "error", err)
				}
				return
			}

			var message models.BandMessage
			if err := json.Unmarshal(data, &message); err != nil {
				s.logger.Warn("discarding malformed chat message", "band", bandID, "error", err)
				continue
			}

			select {
			case ch <- message:
			case <-ctx.Done():
				return
			}
		}
	}()

	return sub, nil
}
