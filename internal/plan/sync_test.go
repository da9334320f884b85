package plan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rileyhilliard/wpx/internal/alias"
	"github.com/rileyhilliard/wpx/internal/errors"
	"github.com/rileyhilliard/wpx/internal/target"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirection(t *testing.T) {
	for _, in := range []string{"to", "from"} {
		d, err := ParseDirection(in)
		require.NoError(t, err)
		assert.Equal(t, Direction(in), d)
	}

	for _, in := range []string{"", "To", "into", "up"} {
		_, err := ParseDirection(in)
		assert.True(t, errors.IsCode(err, errors.ErrUsage), in)
	}
}

func TestSyncValidate(t *testing.T) {
	a := mustTarget(t, alias.Fields{Name: "@a", Host: "a.test"}, nil)
	b := mustTarget(t, alias.Fields{Name: "@b", Host: "b.test"}, nil)

	tests := []struct {
		name    string
		sync    Sync
		wantErr string
	}{
		{name: "to many", sync: Sync{Source: "x", Direction: To, Targets: []*target.Target{a, b}}},
		{name: "from one", sync: Sync{Source: "x", Direction: From, Targets: []*target.Target{a}}},
		{name: "from many", sync: Sync{Source: "x", Direction: From, Targets: []*target.Target{a, b}}, wantErr: "only sync from one target"},
		{name: "no targets", sync: Sync{Source: "x", Direction: To}, wantErr: "Valid target required"},
		{name: "no source", sync: Sync{Direction: To, Targets: []*target.Target{a}}, wantErr: "Nothing to sync"},
		{name: "bad direction", sync: Sync{Source: "x", Direction: "sideways", Targets: []*target.Target{a}}, wantErr: "Direction"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sync.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrUsage))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSync_FromManyTargetsRunsNothing(t *testing.T) {
	h := newHarness(false)
	a := mustTarget(t, alias.Fields{Name: "@a", Host: "a.test"}, h.wp)
	b := mustTarget(t, alias.Fields{Name: "@b", Host: "b.test"}, h.wp)

	s := &Sync{Source: "uploads", Direction: From, Targets: []*target.Target{a, b}}
	report, err := s.Run(context.Background(), h.exec)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrUsage))
	assert.Nil(t, report)
	assert.Zero(t, h.shell.Count())
	assert.Zero(t, h.wp.Count(), "no path lookups either")
	assert.Empty(t, h.reporter.lines)
}

// siteTree creates an install root with a wp-content/uploads directory.
func siteTree(t *testing.T) (root, wpContent string) {
	t.Helper()
	root = t.TempDir()
	wpContent = filepath.Join(root, "wp-content")
	require.NoError(t, os.MkdirAll(filepath.Join(wpContent, "uploads"), 0755))
	return root, wpContent
}

func TestSyncCommand(t *testing.T) {
	root, wpContent := siteTree(t)

	direct := mustTarget(t, alias.Fields{SSH: "deploy@example.com:2222/srv/www", Key: "/keys/prod"}, nil)
	plain := mustTarget(t, alias.Fields{Name: "@plain", SSH: "example.com/srv/www"}, nil)

	tests := []struct {
		name string
		sync Sync
		tgt  *target.Target
		want string
	}{
		{
			name: "to from install root",
			sync: Sync{Source: "wp-content/uploads/", Direction: To, LocalRoot: root, WorkDir: root},
			tgt:  direct,
			want: "rsync --archive --compress --progress -e 'ssh -i /keys/prod -p 2222' wp-content/uploads/ deploy@example.com:/srv/www",
		},
		{
			name: "to from nested dir keeps relative path",
			sync: Sync{Source: "uploads/", Direction: To, LocalRoot: root, WorkDir: wpContent},
			tgt:  plain,
			want: "rsync --archive --compress --progress uploads/ example.com:/srv/www/wp-content",
		},
		{
			name: "from appends source",
			sync: Sync{Source: "uploads", Direction: From, LocalRoot: root, WorkDir: wpContent},
			tgt:  plain,
			want: "rsync --archive --compress --progress example.com:/srv/www/wp-content/uploads .",
		},
		{
			name: "absolute source ignores working dir",
			sync: Sync{Source: "/tmp/export/", Direction: To, LocalRoot: root, WorkDir: wpContent},
			tgt:  plain,
			want: "rsync --archive --compress --progress /tmp/export/ example.com:/srv/www",
		},
		{
			name: "explicit target path",
			sync: Sync{Source: "dist", Direction: To, TargetPath: "/var/www/static", LocalRoot: root, WorkDir: wpContent},
			tgt:  plain,
			want: "rsync --archive --compress --progress dist example.com:/var/www/static/",
		},
		{
			name: "options and passthrough flags",
			sync: Sync{Source: "themes/", Direction: To, Existing: true, DryRun: true, Flags: []string{"--delete", "--exclude=*.log"}},
			tgt:  plain,
			want: "rsync --archive --compress --progress --existing --dry-run --delete '--exclude=*.log' themes/ example.com:/srv/www",
		},
		{
			name: "glob source is left for the shell",
			sync: Sync{Source: "wp-content/uploads/2024/*", Direction: To, LocalRoot: root, WorkDir: root},
			tgt:  plain,
			want: "rsync --archive --compress --progress wp-content/uploads/2024/* example.com:/srv/www",
		},
		{
			name: "glob source with spaces quotes only the literal part",
			sync: Sync{Source: "my exports/*.csv", Direction: To, TargetPath: "/srv/import"},
			tgt:  plain,
			want: "rsync --archive --compress --progress 'my exports/'*.csv example.com:/srv/import/",
		},
		{
			name: "home relative source",
			sync: Sync{Source: "~/backups/uploads/", Direction: To, TargetPath: "/srv/www/wp-content/uploads"},
			tgt:  plain,
			want: "rsync --archive --compress --progress ~/backups/uploads/ example.com:/srv/www/wp-content/uploads/",
		},
		{
			name: "outside the install",
			sync: Sync{Source: "notes.txt", Direction: To, LocalRoot: wpContent, WorkDir: root},
			tgt:  plain,
			want: "rsync --archive --compress --progress notes.txt example.com:/srv/www",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, ok := tt.sync.Command(context.Background(), tt.tgt)
			require.True(t, ok)
			assert.Equal(t, tt.want, cmd.String())
		})
	}
}

func TestSync_ResolvesAbsPathOnce(t *testing.T) {
	h := newHarness(false)
	h.wp.On("realpath", target.Result{Stdout: "/var/www/html\n"}, nil)
	prod := mustTarget(t, alias.Fields{Name: "@prod", Host: "prod.test"}, h.wp)

	s := &Sync{Source: "wp-content/uploads/", Direction: To, Targets: []*target.Target{prod}}
	report, err := s.Run(context.Background(), h.exec)
	require.NoError(t, err)

	assert.Equal(t, []string{"@prod"}, report.Succeeded)
	assert.Equal(t, []string{`@prod eval "echo realpath( ABSPATH );"`}, h.wp.Commands())
	assert.Equal(t, []string{"rsync --archive --compress --progress wp-content/uploads/ prod.test:/var/www/html"}, h.shell.Lines())
}

func TestSync_SkipsUnresolvableTargets(t *testing.T) {
	h := newHarness(false)
	h.wp.On("@broken", target.Result{ExitCode: 1}, nil)
	h.wp.On("@ok", target.Result{Stdout: "/srv/ok"}, nil)

	broken := mustTarget(t, alias.Fields{Name: "@broken", Host: "broken.test"}, h.wp)
	ok := mustTarget(t, alias.Fields{Name: "@ok", Host: "ok.test"}, h.wp)

	s := &Sync{Source: "file.txt", Direction: To, Targets: []*target.Target{broken, ok}}
	report, err := s.Run(context.Background(), h.exec)
	require.NoError(t, err)

	assert.Equal(t, []string{"@broken"}, report.Skipped)
	assert.Equal(t, []string{"@ok"}, report.Succeeded)
	require.Len(t, h.reporter.warnings, 1)
	assert.Contains(t, h.reporter.warnings[0], "Could not resolve ABSPATH for '@broken'")
	assert.Equal(t, []string{"rsync --archive --compress --progress file.txt ok.test:/srv/ok"}, h.shell.Lines())
}

func TestSync_PartialFailureAttemptsEveryTarget(t *testing.T) {
	h := newHarness(false)
	h.shell.FailOn("alpha.test:", 23)

	alpha := mustTarget(t, alias.Fields{Name: "@alpha", SSH: "alpha.test/srv"}, h.wp)
	beta := mustTarget(t, alias.Fields{Name: "@beta", SSH: "beta.test/srv"}, h.wp)

	s := &Sync{Source: "a.txt", Direction: To, Targets: []*target.Target{alpha, beta}}
	report, err := s.Run(context.Background(), h.exec)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrPartial))
	assert.Equal(t, 23, errors.ExitCode(err))
	assert.Equal(t, 2, h.shell.Count())
	assert.Equal(t, []string{"@alpha"}, report.FailedTargets())
	assert.Equal(t, []string{"@beta"}, report.Succeeded)
	require.Len(t, h.reporter.warnings, 1)
	assert.Contains(t, h.reporter.warnings[0], "Partial transfer due to error (exit status 23)")
}

func TestSync_PreviewComposesSameCommands(t *testing.T) {
	targets := func(h *harness) []*target.Target {
		return []*target.Target{
			mustTarget(t, alias.Fields{Name: "@alpha", SSH: "alpha.test:2222/srv"}, h.wp),
			mustTarget(t, alias.Fields{Name: "@beta", SSH: "deploy@beta.test/srv"}, h.wp),
		}
	}

	live := newHarness(false)
	_, err := (&Sync{Source: "a/", Direction: To, Targets: targets(live)}).Run(context.Background(), live.exec)
	require.NoError(t, err)

	preview := newHarness(true)
	_, err = (&Sync{Source: "a/", Direction: To, Targets: targets(preview)}).Run(context.Background(), preview.exec)
	require.NoError(t, err)

	assert.Equal(t, live.reporter.lines, preview.reporter.lines)
	assert.Len(t, preview.reporter.lines, 2)
	assert.Zero(t, preview.shell.Count())
	assert.Zero(t, preview.wp.Count())
}

func TestSync_PreviewStillLooksUpUnknownPaths(t *testing.T) {
	h := newHarness(true)
	h.wp.On("realpath", target.Result{Stdout: "/var/www/html\n"}, nil)
	prod := mustTarget(t, alias.Fields{Name: "@prod", Host: "prod.test"}, h.wp)

	_, err := (&Sync{Source: "uploads/*", Direction: To, Targets: []*target.Target{prod}}).Run(context.Background(), h.exec)
	require.NoError(t, err)

	// The read-only ABSPATH lookup runs so the printed command is the real one.
	assert.Equal(t, []string{`@prod eval "echo realpath( ABSPATH );"`}, h.wp.Commands())
	assert.Zero(t, h.shell.Count())
	assert.Equal(t, []string{"rsync --archive --compress --progress uploads/* prod.test:/var/www/html"}, h.reporter.lines)
}

func TestSync_StopsWhenCancelled(t *testing.T) {
	h := newHarness(false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := mustTarget(t, alias.Fields{Name: "@a", SSH: "a.test/srv"}, h.wp)
	_, err := (&Sync{Source: "x", Direction: To, Targets: []*target.Target{a}}).Run(ctx, h.exec)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Interrupted")
	assert.Zero(t, h.shell.Count())
}
