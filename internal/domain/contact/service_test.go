package contact

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/your-org/fireplay-backend/internal/pkg/logger"
)

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendContactMessage(ctx context.Context, msg *Message) error {
	return m.Called(ctx, msg).Error(0)
}

func validMessage() *Message {
	return &Message{Name: "Sam", Email: "sam@example.com", Subject: "Refund", Message: "My key does not work"}
}

func TestSubmitForwardsMessage(t *testing.T) {
	mailer := &mockMailer{}
	msg := validMessage()
	mailer.On("SendContactMessage", mock.Anything, msg).Return(nil)

	require.NoError(t, NewService(mailer, logger.Discard()).Submit(context.Background(), msg))
	mailer.AssertExpectations(t)
}

func TestSubmitWithoutMailer(t *testing.T) {
	assert.NoError(t, NewService(nil, logger.Discard()).Submit(context.Background(), validMessage()))
}

func TestSubmitValidates(t *testing.T) {
	mailer := &mockMailer{}
	msg := validMessage()
	msg.Email = "not-an-email"

	err := NewService(mailer, logger.Discard()).Submit(context.Background(), msg)
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "Email", verrs[0].Field())
	mailer.AssertNotCalled(t, "SendContactMessage", mock.Anything, mock.Anything)
}

func TestSubmitMailerFailure(t *testing.T) {
	mailer := &mockMailer{}
	mailer.On("SendContactMessage", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	err := NewService(mailer, logger.Discard()).Submit(context.Background(), validMessage())
	assert.Error(t, err)
}
