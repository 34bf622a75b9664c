package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileService(t *testing.T) {
	svc := newTestServices(t, nil)
	ctx := context.Background()

	aliceID := mustRegister(t, svc.auth, "Alice", "alice@example.com")
	mustRegister(t, svc.auth, "Bob", "bob@example.com")

	t.Run("get", func(t *testing.T) {
		user, err := svc.profile.GetProfile(ctx, aliceID)
		require.NoError(t, err)
		assert.Equal(t, "Alice", user.Name)

		_, err = svc.profile.GetProfile(ctx, "missing")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("partial update", func(t *testing.T) {
		user, err := svc.profile.UpdateProfile(ctx, aliceID, UpdateProfileInput{Name: ptr("Alice Smith")})
		require.NoError(t, err)
		assert.Equal(t, "Alice Smith", user.Name)
		assert.Equal(t, "alice@example.com", user.Email)
	})

	t.Run("email change keeps password", func(t *testing.T) {
		user, err := svc.profile.UpdateProfile(ctx, aliceID, UpdateProfileInput{Email: ptr(" Alice@New.example.com ")})
		require.NoError(t, err)
		assert.Equal(t, "alice@new.example.com", user.Email)

		_, _, err = svc.auth.Login(ctx, LoginInput{Email: "alice@new.example.com", Password: "secret1"})
		assert.NoError(t, err)
	})

	t.Run("same email is not a conflict", func(t *testing.T) {
		_, err := svc.profile.UpdateProfile(ctx, aliceID, UpdateProfileInput{Email: ptr("alice@new.example.com")})
		assert.NoError(t, err)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.profile.UpdateProfile(ctx, aliceID, UpdateProfileInput{Email: ptr("bob@example.com")})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := svc.profile.UpdateProfile(ctx, aliceID, UpdateProfileInput{Name: ptr("A")})
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = svc.profile.UpdateProfile(ctx, aliceID, UpdateProfileInput{Email: ptr("nope")})
		assert.ErrorIs(t, err, ErrInvalidInput)

		user, err := svc.profile.GetProfile(ctx, aliceID)
		require.NoError(t, err)
		assert.Equal(t, "Alice Smith", user.Name)
	})
}
