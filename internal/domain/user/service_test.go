package user_test

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/your-org/fireplay-backend/internal/domain/identity"
	"github.com/your-org/fireplay-backend/internal/domain/user"
	"github.com/your-org/fireplay-backend/internal/infrastructure/database/memory"
	"github.com/your-org/fireplay-backend/internal/pkg/logger"
)

var alice = identity.Identity{UID: "alice", Email: "alice@example.com", DisplayName: "Alice"}

type mockProvider struct{ mock.Mock }

func (m *mockProvider) SignUp(ctx context.Context, email, password, displayName string) (identity.Identity, error) {
	args := m.Called(ctx, email, password, displayName)
	return args.Get(0).(identity.Identity), args.Error(1)
}

func (m *mockProvider) SignIn(ctx context.Context, email, password string) (identity.Identity, *identity.Token, error) {
	args := m.Called(ctx, email, password)
	tok, _ := args.Get(1).(*identity.Token)
	return args.Get(0).(identity.Identity), tok, args.Error(2)
}

func (m *mockProvider) SignOut(ctx context.Context, uid string) error {
	return m.Called(ctx, uid).Error(0)
}

func (m *mockProvider) Verify(ctx context.Context, token string) (identity.Identity, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(identity.Identity), args.Error(1)
}

func (m *mockProvider) Reauthenticate(ctx context.Context, uid, password string) error {
	return m.Called(ctx, uid, password).Error(0)
}

func (m *mockProvider) UpdateEmail(ctx context.Context, uid, email string) error {
	return m.Called(ctx, uid, email).Error(0)
}

func (m *mockProvider) UpdatePassword(ctx context.Context, uid, password string) error {
	return m.Called(ctx, uid, password).Error(0)
}

func TestGetProfileFallsBackToIdentity(t *testing.T) {
	svc := user.NewService(memory.NewStore(), &mockProvider{}, logger.Discard())

	p, err := svc.GetProfile(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, "Alice", p.DisplayName)
	assert.Equal(t, alice.Email, p.Email)
}

func TestUpdateProfileWithoutSensitiveChanges(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()
	idp := &mockProvider{}
	svc := user.NewService(st, idp, logger.Discard())

	p, ident, err := svc.UpdateProfile(ctx, alice, &user.UpdateProfileRequest{
		Email:    "Alice@Example.com",
		Birthday: "1990-04-12",
		Gender:   user.GenderFemale,
	})
	require.NoError(t, err)
	assert.Equal(t, alice, ident)
	assert.Equal(t, "1990-04-12", p.Birthday)
	idp.AssertNotCalled(t, "Reauthenticate", mock.Anything, mock.Anything, mock.Anything)

	stored, err := st.GetProfile(ctx, alice.UID)
	require.NoError(t, err)
	assert.Equal(t, user.GenderFemale, stored.Gender)
	assert.Equal(t, "Alice", stored.DisplayName)
}

func TestEmailChangeRequiresCurrentPassword(t *testing.T) {
	svc := user.NewService(memory.NewStore(), &mockProvider{}, logger.Discard())

	_, _, err := svc.UpdateProfile(context.Background(), alice, &user.UpdateProfileRequest{Email: "new@example.com"})
	assert.ErrorIs(t, err, user.ErrCurrentPasswordRequired)
}

func TestWrongPasswordChangesNothing(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()
	require.NoError(t, st.PutProfile(ctx, &user.Profile{UserID: alice.UID, Email: alice.Email, Gender: user.GenderOther}))

	idp := &mockProvider{}
	idp.On("Reauthenticate", mock.Anything, alice.UID, "wrong").Return(identity.ErrReauthFailed)
	svc := user.NewService(st, idp, logger.Discard())

	_, ident, err := svc.UpdateProfile(ctx, alice, &user.UpdateProfileRequest{
		Email:           "new@example.com",
		NewPassword:     "secret99",
		Gender:          user.GenderMale,
		CurrentPassword: "wrong",
	})
	assert.ErrorIs(t, err, identity.ErrReauthFailed)
	assert.Equal(t, alice.Email, ident.Email)
	idp.AssertNotCalled(t, "UpdateEmail", mock.Anything, mock.Anything, mock.Anything)
	idp.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)

	stored, err := st.GetProfile(ctx, alice.UID)
	require.NoError(t, err)
	assert.Equal(t, user.GenderOther, stored.Gender)
	assert.Equal(t, alice.Email, stored.Email)
}

func TestEmailAndPasswordChangeAfterReauth(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()
	idp := &mockProvider{}
	idp.On("Reauthenticate", mock.Anything, alice.UID, "correct").Return(nil).Once()
	idp.On("UpdateEmail", mock.Anything, alice.UID, "new@example.com").Return(nil).Once()
	idp.On("UpdatePassword", mock.Anything, alice.UID, "secret99").Return(nil).Once()
	svc := user.NewService(st, idp, logger.Discard())

	p, ident, err := svc.UpdateProfile(ctx, alice, &user.UpdateProfileRequest{
		Email:           "new@example.com",
		NewPassword:     "secret99",
		CurrentPassword: "correct",
	})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", ident.Email)
	assert.Equal(t, "new@example.com", p.Email)
	idp.AssertExpectations(t)
}

func TestFailedPasswordChangeKeepsEmail(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()
	require.NoError(t, st.PutProfile(ctx, &user.Profile{UserID: alice.UID, Email: alice.Email}))

	idp := &mockProvider{}
	idp.On("Reauthenticate", mock.Anything, alice.UID, "correct").Return(nil).Once()
	idp.On("UpdatePassword", mock.Anything, alice.UID, "secret99").Return(identity.ErrWeakPassword).Once()
	svc := user.NewService(st, idp, logger.Discard())

	_, ident, err := svc.UpdateProfile(ctx, alice, &user.UpdateProfileRequest{
		Email:           "new@example.com",
		NewPassword:     "secret99",
		CurrentPassword: "correct",
	})
	assert.ErrorIs(t, err, identity.ErrWeakPassword)
	assert.Equal(t, alice.Email, ident.Email)
	idp.AssertNotCalled(t, "UpdateEmail", mock.Anything, mock.Anything, mock.Anything)
	idp.AssertExpectations(t)

	stored, err := st.GetProfile(ctx, alice.UID)
	require.NoError(t, err)
	assert.Equal(t, alice.Email, stored.Email)
}

func TestUpdateProfileValidation(t *testing.T) {
	svc := user.NewService(memory.NewStore(), &mockProvider{}, logger.Discard())

	cases := map[string]*user.UpdateProfileRequest{
		"bad email":       {Email: "nope"},
		"bad birthday":    {Birthday: "12/04/1990"},
		"future birthday": {Birthday: "2999-01-01"},
		"bad gender":      {Gender: "Robot"},
		"short password":  {NewPassword: "abc", CurrentPassword: "x"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := svc.UpdateProfile(context.Background(), alice, req)
			var verrs validator.ValidationErrors
			assert.True(t, errors.As(err, &verrs), "got %v", err)
		})
	}
}

func TestRegisterCreatesProfileAndSignsIn(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()
	idp := &mockProvider{}
	idp.On("SignUp", mock.Anything, "alice@example.com", "secret99", "Alice").Return(alice, nil)
	idp.On("SignIn", mock.Anything, "alice@example.com", "secret99").Return(alice, &identity.Token{Value: "tok"}, nil)
	svc := user.NewService(st, idp, logger.Discard())

	resp, err := svc.Register(ctx, &user.RegisterRequest{
		Email:           " Alice@example.com",
		Password:        "secret99",
		ConfirmPassword: "secret99",
		DisplayName:     "Alice",
	})
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.Token)

	p, err := st.GetProfile(ctx, alice.UID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", p.DisplayName)
}

func TestRegisterPasswordMismatch(t *testing.T) {
	svc := user.NewService(memory.NewStore(), &mockProvider{}, logger.Discard())
	_, err := svc.Register(context.Background(), &user.RegisterRequest{Password: "a", ConfirmPassword: "b"})
	assert.ErrorIs(t, err, user.ErrPasswordMismatch)
}

func TestProfileAge(t *testing.T) {
	p := &user.Profile{}
	assert.Equal(t, -1, p.Age(timeAt(2024, 6, 1)))
	p.Birthday = "1990-06-02"
	assert.Equal(t, 33, p.Age(timeAt(2024, 6, 1)))
	assert.Equal(t, 34, p.Age(timeAt(2024, 6, 2)))
}
