package identity

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/avisos/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_Resolve(t *testing.T) {
	p := NewProvider([]string{"Pedro", "Isa"})

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"Isa", "Isa", false},
		{"  isa ", "Isa", false},
		{"PEDRO", "Pedro", false},
		{"Joan", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := p.Resolve(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, common.ErrUnknownUser, "input %q", tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestProvider_UsersIsACopy(t *testing.T) {
	src := []string{"Pedro"}
	p := NewProvider(src)
	src[0] = "X"
	u := p.Users()
	u[0] = "Y"
	assert.Equal(t, []string{"Pedro"}, p.Users())
}

func TestActorContext(t *testing.T) {
	_, ok := Actor(context.Background())
	assert.False(t, ok)

	ctx := WithActor(context.Background(), "Lourdes")
	a, ok := Actor(ctx)
	assert.True(t, ok)
	assert.Equal(t, "Lourdes", a)
}
