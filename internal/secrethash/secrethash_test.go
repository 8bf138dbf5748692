package secrethash

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeGoldenVectors(t *testing.T) {
	tests := []struct {
		name         string
		username     string
		clientID     string
		clientSecret string
		want         string
	}{
		{
			name:         "reference vector",
			username:     "alice",
			clientID:     "client123",
			clientSecret: "s3cr3t",
			want:         "kOPeHzvKtscBvBM4zlIffwOT074cplXWBq9MCfoDa4k=",
		},
		{
			name:         "different user",
			username:     "bob",
			clientID:     "client123",
			clientSecret: "s3cr3t",
			want:         "W5G03OlFLZlfWjjipv+K+g7rAxgT0uBe/MDP2nMy1Wg=",
		},
		{
			name: "empty inputs",
			want: "thNnmggU2ex3L5XXeMNfxf8Wl8STcVZTxscSFEKSxa0=",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compute(tt.username, tt.clientID, tt.clientSecret))
		})
	}
}

func TestComputeDeterministic(t *testing.T) {
	first := Compute("alice", "client123", "s3cr3t")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Compute("alice", "client123", "s3cr3t"))
	}
}

func TestComputeSensitiveToEveryInput(t *testing.T) {
	base := Compute("alice", "client123", "s3cr3t")

	assert.NotEqual(t, base, Compute("alicf", "client123", "s3cr3t"), "username change")
	assert.NotEqual(t, base, Compute("alice", "client124", "s3cr3t"), "client id change")
	assert.NotEqual(t, base, Compute("alice", "client123", "s3cr3u"), "secret change")
}

func TestComputeOutputShape(t *testing.T) {
	got := Compute("alice", "client123", "s3cr3t")

	raw, err := base64.StdEncoding.DecodeString(got)
	require.NoError(t, err)
	assert.Len(t, raw, 32)
	assert.Len(t, got, 44)
}
