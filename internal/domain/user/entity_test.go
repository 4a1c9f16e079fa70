package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		u, err := NewUser("id-1", "omar", "Omar H", "s3cret-pass")
		require.NoError(t, err)
		assert.True(t, u.IsActive)
		assert.False(t, u.IsModerator)
		assert.NotEmpty(t, u.PasswordHash)
		assert.NotEqual(t, "s3cret-pass", u.PasswordHash)
	})

	t.Run("short username", func(t *testing.T) {
		_, err := NewUser("id-1", "ab", "", "s3cret-pass")
		assert.ErrorIs(t, err, ErrInvalidUsername)
	})

	t.Run("username with spaces", func(t *testing.T) {
		_, err := NewUser("id-1", "om ar", "", "s3cret-pass")
		assert.ErrorIs(t, err, ErrInvalidUsername)
	})

	t.Run("short password", func(t *testing.T) {
		_, err := NewUser("id-1", "omar", "", "short")
		assert.ErrorIs(t, err, ErrInvalidPassword)
	})
}

func TestCheckPassword(t *testing.T) {
	u, err := NewUser("id-1", "omar", "", "s3cret-pass")
	require.NoError(t, err)

	assert.NoError(t, u.CheckPassword("s3cret-pass"))
	assert.ErrorIs(t, u.CheckPassword("wrong-pass"), ErrWrongPassword)
}

func TestSetPassword_RotatesHash(t *testing.T) {
	u, err := NewUser("id-1", "omar", "", "s3cret-pass")
	require.NoError(t, err)
	oldHash := u.PasswordHash

	require.NoError(t, u.SetPassword("another-pass"))

	assert.NotEqual(t, oldHash, u.PasswordHash)
	assert.NoError(t, u.CheckPassword("another-pass"))
	assert.ErrorIs(t, u.CheckPassword("s3cret-pass"), ErrWrongPassword)
}

func TestPermissions(t *testing.T) {
	u, err := NewUser("id-1", "omar", "", "s3cret-pass")
	require.NoError(t, err)

	assert.False(t, u.CanManageOffers())

	u.IsModerator = true
	assert.True(t, u.CanManageOffers())

	u.IsModerator = false
	u.IsSuperuser = true
	assert.True(t, u.CanManageOffers())
}

func TestDeactivate(t *testing.T) {
	u, err := NewUser("id-1", "omar", "", "s3cret-pass")
	require.NoError(t, err)

	u.Deactivate()
	assert.False(t, u.CanAuthenticate())

	u.Reactivate()
	assert.True(t, u.CanAuthenticate())
}
