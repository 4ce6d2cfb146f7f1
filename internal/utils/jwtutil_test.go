package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuestTokenRoundTrip(t *testing.T) {
	token, exp, err := GenerateGuestToken("sess-1", "outlet-1", "t-4", time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := ParseGuestToken(token)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.Equal(t, "outlet-1", claims.OutletID)
	assert.Equal(t, "t-4", claims.TableID)
}

func TestParseGuestTokenRejectsExpired(t *testing.T) {
	token, _, err := GenerateGuestToken("sess-1", "outlet-1", "", -time.Minute)
	require.NoError(t, err)

	_, err = ParseGuestToken(token)
	assert.Error(t, err)
}

func TestParseGuestTokenRejectsGarbage(t *testing.T) {
	_, err := ParseGuestToken("not-a-token")
	assert.Error(t, err)
}
