package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mauv0809/smashqueue/internal/auth"
	"github.com/mauv0809/smashqueue/internal/players"
)

func TestMintAndParseRoundtrip(t *testing.T) {
	verifier := auth.NewVerifier("test-secret")

	token, err := verifier.Mint(auth.Identity{
		PlayerID: 7,
		Username: "anna",
		Role:     players.RoleOrganizer,
	}, time.Hour)
	require.NoError(t, err)

	identity, err := verifier.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), identity.PlayerID)
	assert.Equal(t, "anna", identity.Username)
	assert.Equal(t, players.RoleOrganizer, identity.Role)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := auth.NewVerifier("secret-a").Mint(auth.Identity{PlayerID: 1, Role: players.RolePlayer}, time.Hour)
	require.NoError(t, err)

	_, err = auth.NewVerifier("secret-b").Parse(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	verifier := auth.NewVerifier("test-secret")

	token, err := verifier.Mint(auth.Identity{PlayerID: 1, Role: players.RolePlayer}, -time.Minute)
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseRejectsUnknownRole(t *testing.T) {
	verifier := auth.NewVerifier("test-secret")

	token, err := verifier.Mint(auth.Identity{PlayerID: 1, Role: "superuser"}, time.Hour)
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := auth.NewVerifier("test-secret").Parse("not-a-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestCapabilityMatrix(t *testing.T) {
	// Players only self-serve; organizers run the floor; sweeping is admin-only.
	assert.False(t, auth.Allowed(players.RolePlayer, auth.CapQueueCall))
	assert.False(t, auth.Allowed(players.RolePlayer, auth.CapMatchCreate))
	assert.False(t, auth.Allowed(players.RolePlayer, auth.CapAdminUsers))

	assert.True(t, auth.Allowed(players.RoleOrganizer, auth.CapQueueCall))
	assert.True(t, auth.Allowed(players.RoleOrganizer, auth.CapMatchRecord))
	assert.True(t, auth.Allowed(players.RoleOrganizer, auth.CapViewCompleted))
	assert.False(t, auth.Allowed(players.RoleOrganizer, auth.CapSweep))

	assert.True(t, auth.Allowed(players.RoleAdmin, auth.CapQueueCall))
	assert.True(t, auth.Allowed(players.RoleAdmin, auth.CapSweep))
}
