package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/mrlokans/tourism/internal/activity"
	"github.com/mrlokans/tourism/internal/apperr"
	"github.com/mrlokans/tourism/internal/database/feedback"
	"github.com/mrlokans/tourism/internal/entities"
)

// ContactMessage is a submission of the public contact form. Only the
// message is required.
type ContactMessage struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// SubmitFeedback stores a contact form message for the back office.
func (s *Service) SubmitFeedback(ctx context.Context, msg ContactMessage) (*entities.Feedback, error) {
	if strings.TrimSpace(msg.Message) == "" {
		return nil, fmt.Errorf("%w: Message is required.", apperr.ErrValidation)
	}

	item := &entities.Feedback{
		Name:    strings.TrimSpace(msg.Name),
		Email:   strings.TrimSpace(msg.Email),
		Subject: strings.TrimSpace(msg.Subject),
		Message: msg.Message,
	}
	if err := feedback.NewRepository(s.db.Gorm().WithContext(ctx)).Create(item); err != nil {
		return nil, fmt.Errorf("failed to store feedback: %w", err)
	}

	s.activity.Record(ctx, nil, activity.RoleGuest, "Feedback submitted by "+item.Email)
	return item, nil
}
