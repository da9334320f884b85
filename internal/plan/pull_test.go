package plan

import (
	"context"
	"testing"
	"time"

	"github.com/rileyhilliard/wpx/internal/alias"
	"github.com/rileyhilliard/wpx/internal/errors"
	"github.com/rileyhilliard/wpx/internal/shell"
	"github.com/rileyhilliard/wpx/internal/target"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pullTime = time.Unix(1704207600, 0)

var migrateCmd = shell.New("wpx", "db", "migrate")

func lines(steps []Step) []string {
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = s.Line()
	}
	return out
}

func TestPull_Steps(t *testing.T) {
	prod := mustTarget(t, alias.Fields{Name: "@prod", SSH: "deploy@example.com:2222/srv/www"}, nil)
	p := &Pull{Target: prod, Migrate: migrateCmd, Timestamp: pullTime}

	assert.Equal(t, "db-1704207600.sql", p.File())
	assert.Equal(t, []string{
		"wp @prod db export db-1704207600.sql",
		"rsync --archive --compress --progress -e 'ssh -p 2222' deploy@example.com:/srv/www/db-1704207600.sql .",
		`wp @prod eval "unlink( 'db-1704207600.sql' );"`,
		"wp db import db-1704207600.sql",
		"rm -f db-1704207600.sql",
		"wpx db migrate",
	}, lines(p.Steps()))
}

func TestPull_StepsWithoutPathOrMigrate(t *testing.T) {
	direct := mustTarget(t, alias.Fields{SSH: "example.com"}, nil)
	p := &Pull{Target: direct, Timestamp: pullTime}

	assert.Equal(t, []string{
		"wp db export db-1704207600.sql --ssh=example.com",
		"rsync --archive --compress --progress example.com:db-1704207600.sql .",
		`wp eval "unlink( 'db-1704207600.sql' );" --ssh=example.com`,
		"wp db import db-1704207600.sql",
		"rm -f db-1704207600.sql",
	}, lines(p.Steps()))
}

func TestPull_RunOrder(t *testing.T) {
	h := newHarness(false)
	prod := mustTarget(t, alias.Fields{Name: "@prod", SSH: "example.com/srv/www"}, h.wp)

	err := (&Pull{Target: prod, Migrate: migrateCmd, Timestamp: pullTime}).Run(context.Background(), h.exec)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"@prod db export db-1704207600.sql",
		`@prod eval "unlink( 'db-1704207600.sql' );"`,
		"db import db-1704207600.sql",
	}, h.wp.Commands())
	assert.Equal(t, []string{
		"rsync --archive --compress --progress example.com:/srv/www/db-1704207600.sql .",
		"rm -f db-1704207600.sql",
		"wpx db migrate",
	}, h.shell.Lines())
	assert.Len(t, h.reporter.lines, 6)
}

func TestPull_FailureIsFatal(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(h *harness)
		wantStatus int
		wantWP     int
		wantShell  int
	}{
		{
			name:       "export fails",
			setup:      func(h *harness) { h.wp.On("db export", target.Result{ExitCode: 1}, nil) },
			wantStatus: 1,
			wantWP:     1,
		},
		{
			name:       "download fails",
			setup:      func(h *harness) { h.shell.FailOn("rsync", 23) },
			wantStatus: 23,
			wantWP:     1,
			wantShell:  1,
		},
		{
			name:       "import fails",
			setup:      func(h *harness) { h.wp.On("db import", target.Result{ExitCode: 4}, nil) },
			wantStatus: 4,
			wantWP:     3,
			wantShell:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(false)
			tt.setup(h)
			prod := mustTarget(t, alias.Fields{Name: "@prod", Host: "example.com"}, h.wp)

			err := (&Pull{Target: prod, Migrate: migrateCmd, Timestamp: pullTime}).Run(context.Background(), h.exec)

			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrSync))
			assert.Equal(t, tt.wantStatus, errors.ExitCode(err))
			assert.Equal(t, tt.wantWP, h.wp.Count())
			assert.Equal(t, tt.wantShell, h.shell.Count())
		})
	}
}

func TestPull_PreviewRunsNothing(t *testing.T) {
	h := newHarness(true)
	prod := mustTarget(t, alias.Fields{Name: "@prod", Host: "example.com"}, h.wp)

	require.NoError(t, (&Pull{Target: prod, Timestamp: pullTime}).Run(context.Background(), h.exec))

	assert.Len(t, h.reporter.lines, 5)
	assert.Zero(t, h.wp.Count())
	assert.Zero(t, h.shell.Count())
}

func TestPull_RequiresTarget(t *testing.T) {
	err := (&Pull{}).Run(context.Background(), newHarness(false).exec)
	assert.True(t, errors.IsCode(err, errors.ErrUsage))
}

func TestPull_DownloadFailureExplainsRsyncStatus(t *testing.T) {
	h := newHarness(false)
	h.shell.FailOn("rsync", 255)
	prod := mustTarget(t, alias.Fields{Name: "@prod", SSH: "deploy@example.com"}, h.wp)

	err := (&Pull{Target: prod, Timestamp: pullTime}).Run(context.Background(), h.exec)

	require.Error(t, err)
	assert.Equal(t, 255, errors.ExitCode(err))
	assert.Contains(t, err.Error(), "SSH connection to 'deploy@example.com' failed")
}
