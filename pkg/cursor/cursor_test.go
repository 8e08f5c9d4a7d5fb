package cursor

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_RoundTrip(t *testing.T) {
	codec := NewCodec("secret")
	ts := time.Date(2024, 5, 1, 12, 30, 0, 123456000, time.UTC)

	token := codec.Encode(Cursor{CreatedAt: ts, ID: "post-9"})
	got, err := codec.Decode(token)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, ts.Equal(got.CreatedAt))
	assert.Equal(t, "post-9", got.ID)
}

func TestCodec_Decode(t *testing.T) {
	codec := NewCodec("secret")
	valid := codec.Encode(Cursor{CreatedAt: time.Unix(100, 0), ID: "a"})

	tests := []struct {
		name    string
		token   string
		wantNil bool
		wantErr bool
	}{
		{name: "empty token means first page", token: "", wantNil: true},
		{name: "valid", token: valid},
		{name: "not base64", token: "!!!", wantErr: true},
		{name: "missing signature", token: base64.RawURLEncoding.EncodeToString([]byte("2024-01-01T00:00:00Z|a")), wantErr: true},
		{name: "forged signature", token: base64.RawURLEncoding.EncodeToString([]byte("2024-01-01T00:00:00Z|a|deadbeef")), wantErr: true},
		{name: "signed by another secret", token: NewCodec("other").Encode(Cursor{CreatedAt: time.Unix(100, 0), ID: "a"}), wantErr: true},
		{name: "too long", token: string(make([]byte, maxTokenLen+1)), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := codec.Decode(tt.token)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalid)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, got)
			} else {
				assert.NotNil(t, got)
			}
		})
	}
}

func TestCursor_After(t *testing.T) {
	t3 := time.Unix(3, 0)
	t2 := time.Unix(2, 0)
	c := Cursor{CreatedAt: t3, ID: "5"}

	assert.False(t, c.After(t3, "9"), "same time, bigger id comes first")
	assert.False(t, c.After(t3, "5"), "cursor itself is excluded")
	assert.True(t, c.After(t3, "4"))
	assert.True(t, c.After(t2, "7"))
	assert.False(t, c.After(time.Unix(4, 0), "1"))
}
