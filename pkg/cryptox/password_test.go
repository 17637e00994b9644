package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 72)},
		{"empty password", ""},
		{"unicode password", "пароль🔒密码"},
		{"whitespace password", "   spaces   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			require.NoError(t, err)
			require.NotEmpty(t, hash)

			// bcrypt modular crypt format
			require.True(t, strings.HasPrefix(hash, "$2"),
				"hash should be in bcrypt format")

			ok, err := VerifyPassword(tt.password, hash)
			require.NoError(t, err)
			require.True(t, ok)
		})
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	password := "samepassword"

	hash1, err := HashPassword(password)
	require.NoError(t, err)

	hash2, err := HashPassword(password)
	require.NoError(t, err)

	require.NotEqual(t, hash1, hash2, "hashes should differ due to unique salts")
}

func TestHashPassword_TooLong(t *testing.T) {
	// bcrypt rejects inputs over 72 bytes
	_, err := HashPassword(strings.Repeat("a", 73))
	require.Error(t, err)
}

func TestVerifyPassword_Mismatch(t *testing.T) {
	hash, err := HashPassword("correct-password")
	require.NoError(t, err)

	ok, err := VerifyPassword("wrong-password", hash)
	require.NoError(t, err, "a mismatch is not an error")
	require.False(t, ok)
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{"empty hash", ""},
		{"garbage hash", "not-a-bcrypt-hash"},
		{"truncated hash", "$2a$10$short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := VerifyPassword("anything", tt.hash)
			require.Error(t, err)
		})
	}
}

func TestGeneratePassword(t *testing.T) {
	p1, err := GeneratePassword()
	require.NoError(t, err)
	require.Len(t, p1, 12)

	p2, err := GeneratePassword()
	require.NoError(t, err)
	require.NotEqual(t, p1, p2)
}
