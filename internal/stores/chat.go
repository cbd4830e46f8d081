package stores

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setmaster/internal/models"
	"github.com/desertthunder/setmaster/internal/services"
	"github.com/desertthunder/setmaster/internal/shared"
)

// ChatStore caches per-band chat history and manages live channel
// subscriptions. Subscriptions must be released before the store is
// cleared so no goroutine keeps appending to evicted state.
type ChatStore struct {
	mu       sync.Mutex
	service  *services.ChatService
	logger   *log.Logger
	userID   string
	messages map[string][]models.BandMessage
	subs     map[string]*services.Subscription
}

// NewChatStore creates a chat store over the given service.
func NewChatStore(service *services.ChatService, logger *log.Logger) *ChatStore {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &ChatStore{
		service:  service,
		logger:   shared.WithLogger(logger, "dataset", "chat"),
		messages: make(map[string][]models.BandMessage),
		subs:     make(map[string]*services.Subscription),
	}
}

// Name identifies the dataset.
func (s *ChatStore) Name() string {
	return "chat"
}

// LoadUserData resets the cache for a new user. Band histories load
// lazily through LoadMessages once the band list is known.
func (s *ChatStore) LoadUserData(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
	s.messages = make(map[string][]models.BandMessage)
	return nil
}

// ClearData evicts all cached messages. Call ReleaseAll first.
func (s *ChatStore) ClearData() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = ""
	s.messages = make(map[string][]models.BandMessage)
}

// Release closes every live subscription. Satisfies the lifecycle
// Releaser contract.
func (s *ChatStore) Release() {
	s.ReleaseAll()
}

// ReleaseAll closes every live subscription.
func (s *ChatStore) ReleaseAll() {
	s.mu.Lock()
	subs := s.subs
	s.subs = make(map[string]*services.Subscription)
	s.mu.Unlock()

	for bandID, sub := range subs {
		s.logger.Debug("closing chat subscription", "band", bandID)
		sub.Close()
	}
}

// Messages returns a copy of the cached history for a band, oldest first.
func (s *ChatStore) Messages(bandID string) []models.BandMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.BandMessage(nil), s.messages[bandID]...)
}

// LoadMessages fetches a band's history from the backend into the cache.
func (s *ChatStore) LoadMessages(ctx context.Context, bandID string) error {
	messages, err := s.service.Messages(ctx, bandID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[bandID] = messages
	return nil
}

// Send posts a message to a band and appends it to the cache.
func (s *ChatStore) Send(ctx context.Context, bandID, content string) (*models.BandMessage, error) {
	message, err := s.service.Send(ctx, bandID, content)
	if err != nil {
		return nil, err
	}

	s.append(bandID, *message)
	return message, nil
}

// UpdateMessage edits a message through the backend and in the cache.
func (s *ChatStore) UpdateMessage(ctx context.Context, bandID, messageID, content string) error {
	message, err := s.service.UpdateMessage(ctx, messageID, content)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	history := s.messages[bandID]
	for i := range history {
		if history[i].ID == messageID {
			history[i] = *message
			return nil
		}
	}
	return nil
}

// DeleteMessage removes a message through the backend and from the cache.
func (s *ChatStore) DeleteMessage(ctx context.Context, bandID, messageID string) error {
	if err := s.service.DeleteMessage(ctx, messageID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	history := s.messages[bandID]
	for i := range history {
		if history[i].ID == messageID {
			s.messages[bandID] = append(history[:i], history[i+1:]...)
			return nil
		}
	}
	return nil
}

// ShareSetlist posts a setlist share message to a band's channel.
func (s *ChatStore) ShareSetlist(ctx context.Context, bandID, sharedSetlistID, name string) error {
	message, err := s.service.ShareSetlist(ctx, bandID, sharedSetlistID, name)
	if err != nil {
		return err
	}

	s.append(bandID, *message)
	return nil
}

// Subscribe opens a live subscription to a band's channel; pushed
// messages land in the cache. Subscribing twice to the same band is a
// no-op.
func (s *ChatStore) Subscribe(ctx context.Context, bandID string) error {
	s.mu.Lock()
	if _, ok := s.subs[bandID]; ok {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	sub, err := s.service.Subscribe(ctx, bandID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if _, ok := s.subs[bandID]; ok {
		// Lost the race to another Subscribe call.
		s.mu.Unlock()
		sub.Close()
		return nil
	}
	s.subs[bandID] = sub
	s.mu.Unlock()

	go func() {
		for message := range sub.C {
			s.append(bandID, message)
		}
	}()

	return nil
}

// Unsubscribe closes the live subscription for one band, if any.
func (s *ChatStore) Unsubscribe(bandID string) {
	s.mu.Lock()
	sub, ok := s.subs[bandID]
	delete(s.subs, bandID)
	s.mu.Unlock()

	if ok {
		sub.Close()
	}
}

func (s *ChatStore) append(bandID string, message models.BandMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[bandID] = append(s.messages[bandID], message)
}
