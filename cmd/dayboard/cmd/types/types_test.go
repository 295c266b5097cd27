package types

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dayboard/internal/domain/collection"
)

func TestResolveID(t *testing.T) {
	ids := []string{
		"3f2a9c10-0000-4000-8000-000000000001",
		"3f2a9c10-0000-4000-8000-000000000002",
		"b71e0d55-0000-4000-8000-000000000003",
	}

	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr error
	}{
		{name: "Exact", ref: ids[1], want: ids[1]},
		{name: "UniquePrefix", ref: "b71e", want: ids[2]},
		{name: "Ambiguous", ref: "3f2a9c10", wantErr: ErrAmbiguousID},
		{name: "Unknown", ref: "ffff", wantErr: collection.ErrNotFound},
		{name: "Empty", ref: "  ", wantErr: collection.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveID(tt.ref, ids)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "3f2a9c10", ShortID("3f2a9c10-0000-4000-8000-000000000001"))
	assert.Equal(t, "abc", ShortID("abc"))
}

func TestFromContext(t *testing.T) {
	_, err := FromContext(context.Background())
	assert.ErrorIs(t, err, ErrNoEnv)

	env := &Env{}
	got, err := FromContext(WithEnv(context.Background(), env))
	require.NoError(t, err)
	assert.Same(t, env, got)
}

func TestEnv_CloseUnopened(t *testing.T) {
	assert.NoError(t, (&Env{}).Close())
}
