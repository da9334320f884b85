package plan

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rileyhilliard/wpx/internal/alias"
	"github.com/rileyhilliard/wpx/internal/errors"
	"github.com/rileyhilliard/wpx/internal/target"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shipTime = time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)

func TestShip_FileName(t *testing.T) {
	s := &Ship{Type: "theme", Path: "/site/wp-content/themes/acme", Timestamp: shipTime}

	assert.Equal(t, "acme", s.Name())
	assert.Equal(t, "acme-20240102150405.zip", s.File())
}

func TestShip_LocalSteps(t *testing.T) {
	s := &Ship{
		Type:      "theme",
		Path:      "/site/wp-content/themes/acme",
		Build:     []string{"npm ci", "npm run build"},
		Timestamp: shipTime,
	}

	var lines []string
	for _, step := range s.LocalSteps() {
		lines = append(lines, step.Line())
	}

	assert.Equal(t, []string{
		"cd /site/wp-content/themes/acme && npm ci",
		"cd /site/wp-content/themes/acme && npm run build",
		"cd /site/wp-content/themes && zip acme-20240102150405.zip acme/ -r -x 'acme/node_modules/*' 'acme/.git/*' 'acme/*/.DS_Store' > /dev/null",
	}, lines)
}

func TestShip_LocalStepsCustomIgnore(t *testing.T) {
	s := &Ship{Type: "plugin", Path: "/p/widgets", Ignore: []string{"src/*"}, Timestamp: shipTime}

	steps := s.LocalSteps()
	require.Len(t, steps, 1)
	assert.Equal(t, "cd /p && zip widgets-20240102150405.zip widgets/ -r -x 'widgets/src/*' > /dev/null", steps[0].Line())
}

func TestShip_TargetSteps(t *testing.T) {
	s := &Ship{Type: "theme", Path: "/site/wp-content/themes/acme", Timestamp: shipTime}

	tests := []struct {
		name    string
		fields  alias.Fields
		copy    string
		install string
		cleanup string
	}{
		{
			name:    "alias with key, port and path",
			fields:  alias.Fields{Name: "@prod", SSH: "deploy@example.com:2222/srv/www", Key: "/k"},
			copy:    "cd /site/wp-content/themes && scp -i /k -P 2222 acme-20240102150405.zip deploy@example.com:/srv/www/acme-20240102150405.zip",
			install: "wp @prod theme install /srv/www/acme-20240102150405.zip --force",
			cleanup: "ssh -i /k -p 2222 deploy@example.com 'rm /srv/www/acme-20240102150405.zip'",
		},
		{
			name:    "bare endpoint without path",
			fields:  alias.Fields{SSH: "example.com"},
			copy:    "cd /site/wp-content/themes && scp acme-20240102150405.zip example.com:./acme-20240102150405.zip",
			install: "wp theme install ./acme-20240102150405.zip --force --ssh=example.com",
			cleanup: "ssh example.com 'rm ./acme-20240102150405.zip'",
		},
		{
			name:    "home relative path",
			fields:  alias.Fields{Name: "@prod", SSH: "deploy@example.com~/www"},
			copy:    "cd /site/wp-content/themes && scp acme-20240102150405.zip 'deploy@example.com:~/www/acme-20240102150405.zip'",
			install: "wp @prod theme install www/acme-20240102150405.zip --force",
			cleanup: "ssh deploy@example.com 'rm ~/www/acme-20240102150405.zip'",
		},
		{
			name:    "home relative path with spaces",
			fields:  alias.Fields{Name: "@prod", Host: "example.com", Path: "~/my sites/www"},
			copy:    "cd /site/wp-content/themes && scp acme-20240102150405.zip 'example.com:~/my sites/www/acme-20240102150405.zip'",
			install: "wp @prod theme install 'my sites/www/acme-20240102150405.zip' --force",
			cleanup: `ssh example.com 'rm ~/'\''my sites/www/acme-20240102150405.zip'\'''`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transfer, install, cleanup := s.TargetSteps(mustTarget(t, tt.fields, nil))
			assert.Equal(t, tt.copy, transfer.Line())
			assert.Equal(t, tt.install, install.Line())
			assert.Equal(t, tt.cleanup, cleanup.Line())
		})
	}
}

func TestShip_Validate(t *testing.T) {
	a := mustTarget(t, alias.Fields{Name: "@a", Host: "a.test"}, nil)

	assert.NoError(t, (&Ship{Type: "plugin", Path: "/p/x", Targets: []*target.Target{a}}).Validate())
	assert.True(t, errors.IsCode((&Ship{Type: "mu-plugin", Path: "/p/x", Targets: []*target.Target{a}}).Validate(), errors.ErrUsage))
	assert.True(t, errors.IsCode((&Ship{Type: "theme", Targets: []*target.Target{a}}).Validate(), errors.ErrUsage))
	assert.True(t, errors.IsCode((&Ship{Type: "theme", Path: "/p/x"}).Validate(), errors.ErrUsage))
}

// packageDir creates <tmp>/themes/acme and returns it.
func packageDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "themes", "acme")
	require.NoError(t, os.MkdirAll(dir, 0755))
	return dir
}

func TestShip_BuildFailureIsFatal(t *testing.T) {
	h := newHarness(false)
	h.shell.FailOn("npm run build", 2)
	a := mustTarget(t, alias.Fields{Name: "@a", SSH: "a.test/srv"}, h.wp)

	s := &Ship{Type: "theme", Path: packageDir(t), Targets: []*target.Target{a}, Build: []string{"npm run build"}, Timestamp: shipTime}
	report, err := s.Run(context.Background(), h.exec)

	require.Error(t, err)
	assert.Nil(t, report)
	assert.True(t, errors.IsCode(err, errors.ErrShip))
	assert.Equal(t, 2, errors.ExitCode(err))
	assert.Equal(t, 1, h.shell.Count(), "nothing after the failed build step")
	assert.Zero(t, h.wp.Count())
}

func TestShip_ZipFailureIsFatal(t *testing.T) {
	h := newHarness(false)
	h.shell.FailOn("zip ", 12)
	a := mustTarget(t, alias.Fields{Name: "@a", SSH: "a.test/srv"}, h.wp)

	s := &Ship{Type: "plugin", Path: packageDir(t), Targets: []*target.Target{a}, Timestamp: shipTime}
	_, err := s.Run(context.Background(), h.exec)

	require.Error(t, err)
	assert.Equal(t, 12, errors.ExitCode(err))
	assert.Equal(t, 1, h.shell.Count())
}

func TestShip_CopyFailureSkipsTarget(t *testing.T) {
	h := newHarness(false)
	h.shell.FailOn("alpha.test:", 1)
	alpha := mustTarget(t, alias.Fields{Name: "@alpha", SSH: "alpha.test/srv"}, h.wp)
	beta := mustTarget(t, alias.Fields{Name: "@beta", SSH: "beta.test/srv"}, h.wp)

	s := &Ship{Type: "theme", Path: packageDir(t), Targets: []*target.Target{alpha, beta}, Timestamp: shipTime}
	report, err := s.Run(context.Background(), h.exec)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrPartial))
	assert.Equal(t, []string{"@alpha"}, report.FailedTargets())
	assert.Equal(t, []string{"@beta"}, report.Succeeded)
	assert.Contains(t, h.reporter.warnings, "Failed to copy package to '@alpha'")

	// zip, scp alpha, scp beta, ssh rm beta
	assert.Equal(t, 4, h.shell.Count())
	assert.Equal(t, []string{"@beta theme install /srv/acme-20240102150405.zip --force"}, h.wp.Commands())
}

func TestShip_InstallFailureStillCleansUp(t *testing.T) {
	h := newHarness(false)
	h.wp.On("plugin install", target.Result{ExitCode: 1}, nil)
	a := mustTarget(t, alias.Fields{Name: "@a", SSH: "a.test/srv"}, h.wp)

	s := &Ship{Type: "plugin", Path: packageDir(t), Targets: []*target.Target{a}, Timestamp: shipTime}
	report, err := s.Run(context.Background(), h.exec)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrPartial))
	assert.Empty(t, report.Succeeded)
	lines := h.shell.Lines()
	require.Len(t, lines, 3)
	assert.Contains(t, lines[2], "rm /srv/acme-20240102150405.zip")
}

func TestShip_CleanupFailureWarns(t *testing.T) {
	h := newHarness(false)
	h.shell.FailOn("'rm ", 255)
	a := mustTarget(t, alias.Fields{Name: "@a", SSH: "a.test/srv"}, h.wp)

	s := &Ship{Type: "theme", Path: packageDir(t), Targets: []*target.Target{a}, Timestamp: shipTime}
	_, err := s.Run(context.Background(), h.exec)

	require.Error(t, err)
	assert.Equal(t, 255, errors.ExitCode(err))
	assert.Contains(t, h.reporter.warnings, "Failed to remove package from '@a'")
}

func TestShip_RemovesLocalZip(t *testing.T) {
	h := newHarness(false)
	dir := packageDir(t)
	a := mustTarget(t, alias.Fields{Name: "@a", SSH: "a.test/srv"}, h.wp)

	s := &Ship{Type: "theme", Path: dir, Targets: []*target.Target{a}, Timestamp: shipTime}
	zip := filepath.Join(filepath.Dir(dir), s.File())
	require.NoError(t, os.WriteFile(zip, []byte("PK"), 0644))

	report, err := s.Run(context.Background(), h.exec)
	require.NoError(t, err)
	assert.Equal(t, []string{"@a"}, report.Succeeded)

	_, statErr := os.Stat(zip)
	assert.True(t, os.IsNotExist(statErr))
}

func TestShip_PreviewRunsNothing(t *testing.T) {
	h := newHarness(true)
	dir := packageDir(t)
	a := mustTarget(t, alias.Fields{Name: "@a", SSH: "a.test/srv"}, h.wp)
	b := mustTarget(t, alias.Fields{SSH: "deploy@b.test:2222"}, h.wp)

	s := &Ship{Type: "theme", Path: dir, Targets: []*target.Target{a, b}, Build: []string{"make"}, Timestamp: shipTime}
	zip := filepath.Join(filepath.Dir(dir), s.File())
	require.NoError(t, os.WriteFile(zip, []byte("PK"), 0644))

	report, err := s.Run(context.Background(), h.exec)
	require.NoError(t, err)

	assert.Equal(t, []string{"@a", "deploy@b.test:2222"}, report.Succeeded)
	assert.Len(t, h.reporter.lines, 2+3*2)
	assert.Zero(t, h.shell.Count())
	assert.Zero(t, h.wp.Count())
	assert.FileExists(t, zip, "preview leaves the filesystem alone")
}

func TestShip_Describe(t *testing.T) {
	a := mustTarget(t, alias.Fields{Name: "@prod", Host: "p"}, nil)
	b := mustTarget(t, alias.Fields{Name: "@staging", Host: "s"}, nil)
	s := &Ship{Type: "plugin", Path: "/x/widgets", Targets: []*target.Target{a, b}}

	assert.Equal(t, "plugin widgets to @prod, @staging", s.Describe())
}
