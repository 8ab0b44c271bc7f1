// Package chat implements project chat message handling.
package chat

import (
	"context"
	"strings"

	chatdomain "github.com/beedatatech/teamflow/internal/app/domain/chat"
	"github.com/beedatatech/teamflow/internal/app/services"
	"github.com/beedatatech/teamflow/internal/app/storage"
	"github.com/beedatatech/teamflow/pkg/logger"
)

// Service manages project chat messages.
type Service struct {
	store storage.ChatStore
	log   *logger.Logger
}

// New constructs a chat service.
func New(store storage.ChatStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("chat")
	}
	return &Service{store: store, log: log}
}

// Post stores a new message in a project room.
func (s *Service) Post(ctx context.Context, projectID, senderID int64, text string) (chatdomain.Message, error) {
	if strings.TrimSpace(text) == "" {
		return chatdomain.Message{}, services.Invalidf("message cannot be empty")
	}

	msg, err := s.store.CreateMessage(ctx, chatdomain.Message{
		ProjectID: projectID,
		SenderID:  senderID,
		Message:   text,
	})
	if err != nil {
		return chatdomain.Message{}, err
	}
	s.log.WithField("project_id", projectID).WithField("message_id", msg.ID).Debug("chat message stored")
	return msg, nil
}

// List returns a project's messages in chronological order.
func (s *Service) List(ctx context.Context, projectID int64) ([]chatdomain.Message, error) {
	return s.store.ListProjectMessages(ctx, projectID)
}

// Delete removes one message by id.
func (s *Service) Delete(ctx context.Context, messageID int64) error {
	if err := s.store.DeleteMessage(ctx, messageID); err != nil {
		return err
	}
	s.log.WithField("message_id", messageID).Info("chat message deleted")
	return nil
}
