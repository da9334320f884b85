package plan

import (
	"context"
	"testing"

	"github.com/rileyhilliard/wpx/internal/errors"
	"github.com/rileyhilliard/wpx/internal/target"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_Steps(t *testing.T) {
	m := &Migrate{OldHome: "https://www.example.com/blog", NewHost: "example.local"}

	require.NoError(t, m.Validate())
	assert.Equal(t, "www.example.com", m.OldHost())
	assert.Equal(t, []string{
		"wp search-replace http://www.example.com https://example.local",
		"wp search-replace http://example.com https://example.local",
		"wp search-replace //www.example.com //example.local",
		"wp search-replace //example.com //example.local",
	}, lines(m.Steps()))
}

func TestMigrate_Validate(t *testing.T) {
	tests := []struct {
		name     string
		m        Migrate
		wantCode string
	}{
		{name: "same host", m: Migrate{OldHome: "https://example.local", NewHost: "example.local"}, wantCode: errors.ErrUsage},
		{name: "missing new host", m: Migrate{OldHome: "https://example.com"}, wantCode: errors.ErrUsage},
		{name: "no host in home", m: Migrate{OldHome: "not a url", NewHost: "example.local"}, wantCode: errors.ErrConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.m.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tt.wantCode))
		})
	}
}

func TestMigrate_WwwOnlyDiffers(t *testing.T) {
	m := &Migrate{OldHome: "http://www.example.local", NewHost: "example.local"}

	require.NoError(t, m.Validate())
	assert.Equal(t, []string{
		"wp search-replace http://www.example.local https://example.local",
		"wp search-replace http://example.local https://example.local",
		"wp search-replace //www.example.local //example.local",
	}, lines(m.Steps()))
}

func TestMigrate_Run(t *testing.T) {
	h := newHarness(false)

	err := (&Migrate{OldHome: "https://example.com", NewHost: "example.local"}).Run(context.Background(), h.exec)

	require.NoError(t, err)
	assert.Equal(t, 4, h.wp.Count())
	assert.Zero(t, h.shell.Count())
}

func TestMigrate_RunStopsOnFailure(t *testing.T) {
	h := newHarness(false)
	h.wp.On("search-replace http://example.com", target.Result{ExitCode: 2}, nil)

	err := (&Migrate{OldHome: "https://example.com", NewHost: "example.local"}).Run(context.Background(), h.exec)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrSync))
	assert.Equal(t, 2, errors.ExitCode(err))
	assert.Equal(t, 2, h.wp.Count())
}

func TestMigrate_RunNothingToDo(t *testing.T) {
	h := newHarness(false)

	err := (&Migrate{OldHome: "https://example.local", NewHost: "example.local"}).Run(context.Background(), h.exec)

	require.Error(t, err)
	assert.Zero(t, h.wp.Count())
	assert.Empty(t, h.reporter.lines)
}
