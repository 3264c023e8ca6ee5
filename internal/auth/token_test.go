package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SantaTabla/Shop-Backend/internal/auth"
)

func testCodec(now time.Time) *auth.Codec {
	c := auth.NewCodec("test-secret")
	c.Now = func() time.Time { return now }
	return c
}

func sampleClaims() auth.Claims {
	return auth.Claims{
		UserID:    "u-1",
		FirstName: "Dana",
		LastName:  "Rivas",
		Email:     "dana@example.com",
		Age:       27,
		Role:      auth.RoleUser,
		Cart:      "cart-1",
	}
}

func TestCodecRoundtrip(t *testing.T) {
	codec := testCodec(time.Now())

	token, err := codec.Issue(sampleClaims())
	require.NoError(t, err)

	got, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.UserID)
	assert.Equal(t, "dana@example.com", got.Email)
	assert.Equal(t, auth.RoleUser, got.Role)
	assert.Equal(t, "cart-1", got.Cart)

	principal, err := got.Principal()
	require.NoError(t, err)
	assert.Equal(t, "u-1", principal.ID)
	assert.Equal(t, "cart-1", principal.Cart)
}

func TestCodecRejectsExpiredToken(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	codec := testCodec(issued)

	token, err := codec.Issue(sampleClaims())
	require.NoError(t, err)

	// Just inside the lifetime: still valid.
	codec.Now = func() time.Time { return issued.Add(auth.TokenTTL - time.Second) }
	_, err = codec.Verify(token)
	require.NoError(t, err)

	// Past the lifetime: rejected with the expiry kind, no claims returned.
	codec.Now = func() time.Time { return issued.Add(auth.TokenTTL + time.Second) }
	got, err := codec.Verify(token)
	assert.Nil(t, got)
	assert.True(t, auth.IsKind(err, auth.KindTokenExpired), "got %v", err)
}

func TestCodecRejectsTamperedToken(t *testing.T) {
	codec := testCodec(time.Now())

	token, err := codec.Issue(sampleClaims())
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	got, err := codec.Verify(tampered)
	assert.Nil(t, got)
	assert.True(t, auth.IsKind(err, auth.KindTokenInvalidSignature), "got %v", err)
}

func TestCodecRejectsForeignSecret(t *testing.T) {
	codec := testCodec(time.Now())
	other := auth.NewCodec("another-secret")

	token, err := other.Issue(sampleClaims())
	require.NoError(t, err)

	got, err := codec.Verify(token)
	assert.Nil(t, got)
	assert.True(t, auth.IsKind(err, auth.KindTokenInvalidSignature), "got %v", err)
}

func TestCodecRejectsGarbage(t *testing.T) {
	codec := testCodec(time.Now())

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		got, err := codec.Verify(token)
		assert.Nil(t, got)
		assert.Error(t, err)
	}
}
