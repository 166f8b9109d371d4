package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/tourism/internal/apperr"
	"github.com/mrlokans/tourism/internal/entities"
)

func TestService_SubmitFeedback(t *testing.T) {
	f := newFixture(t)

	item, err := f.svc.SubmitFeedback(context.Background(), ContactMessage{
		Name:    "Alice",
		Email:   " alice@example.com ",
		Subject: "Trip",
		Message: "Loved Goa!",
	})
	require.NoError(t, err)
	assert.NotZero(t, item.ID)
	assert.Equal(t, "alice@example.com", item.Email)

	var logged entities.CloudActivity
	require.NoError(t, f.conn.Gorm().Last(&logged).Error)
	assert.Equal(t, "guest", logged.Role)
	assert.Nil(t, logged.UserID)
	assert.Equal(t, "Feedback submitted by alice@example.com", logged.Action)
}

func TestService_SubmitFeedback_MessageRequired(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SubmitFeedback(context.Background(), ContactMessage{Name: "Alice", Message: "  "})
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "Message is required.", apperr.Message(err))
	assert.Zero(t, f.count(t, &entities.Feedback{}))
}
