package session

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"craftmotion/studio-api/internal/apperr"
)

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	manager := NewManager("test-secret")
	id := uuid.New()

	token, err := manager.Issue(id, "Ruta", RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity, err := manager.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, id, identity.ID)
	assert.Equal(t, "Ruta", identity.Name)
	assert.Equal(t, RoleAdmin, identity.Role)
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	token, err := NewManager("secret-a").Issue(uuid.New(), "Jonas", RoleClient)
	require.NoError(t, err)

	_, err = NewManager("secret-b").Verify(token)
	assert.True(t, apperr.Is(err, apperr.Forbidden))
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := NewManager("secret").Verify("not-a-token")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, CheckPassword(hash, "correct horse battery staple"))
	assert.False(t, CheckPassword(hash, "wrong password"))
	assert.False(t, CheckPassword("", "anything"))
}
