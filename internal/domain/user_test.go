package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		name    string
		want    string
		wantErr error
	}{
		"plain":              {name: "alice", want: "alice"},
		"trimmed":            {name: "  bob \t", want: "bob"},
		"multibyte at limit": {name: strings.Repeat("ж", MaxUsernameLen), want: strings.Repeat("ж", MaxUsernameLen)},
		"empty":              {name: "   ", wantErr: ErrUsernameEmpty},
		"too long":           {name: strings.Repeat("a", MaxUsernameLen+1), wantErr: ErrUsernameTooLong},
		"control character":  {name: "al\x00ice", wantErr: ErrUsernameControl},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			u, err := NewUser(tc.name)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.ErrorIs(t, err, ErrInvalidUsername)
				assert.Nil(t, u)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, u.Username)
			assert.NotEmpty(t, u.ID)
		})
	}
}

func TestNewUser_FreshIDPerConnection(t *testing.T) {
	t.Parallel()
	a, err := NewUser("alice")
	require.NoError(t, err)
	b, err := NewUser("alice")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}
