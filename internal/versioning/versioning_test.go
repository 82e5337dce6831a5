package versioning

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/blogkit/internal/foundation/errors"
	"git.home.luguber.info/inful/blogkit/internal/project"
)

func TestIsNewer(t *testing.T) {
	tests := []struct {
		current, latest string
		want            bool
	}{
		{"1.2.3", "1.2.4", true},
		{"^1.2.3", "1.3.0", true},
		{"~1.2.3", "1.2.3", false},
		{"1.10.0", "1.9.9", false},
		{"1.2", "1.2.1", true},
		{"1.2.0", "1.2", false},
		{"v2.0.0", "2.0.1", true},
		{"", "1.0.0", false},
		{"1.0.0", "", false},
		{"1.0.0-beta", "1.0.1", true},
	}
	for _, tt := range tests {
		t.Run(tt.current+"->"+tt.latest, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNewer(tt.current, tt.latest))
		})
	}
}

func TestLatestTag(t *testing.T) {
	tags := []string{"v1.2.0", "1.10.0", "v1.9.3", "v2.0.0-rc.1", "nightly", "release-3"}
	latest, ok := LatestTag(tags, nil)
	require.True(t, ok)
	assert.Equal(t, "1.10.0", latest)

	latest, ok = LatestTag(tags, []string{"v1.*"})
	require.True(t, ok)
	assert.Equal(t, "1.9.3", latest)

	_, ok = LatestTag([]string{"nightly"}, nil)
	assert.False(t, ok)
}

type fakeLister struct {
	tags []string
	err  error
}

func (f fakeLister) ListTags(context.Context, string) ([]string, error) { return f.tags, f.err }

func TestRemoteLatest(t *testing.T) {
	v, err := RemoteLatest(context.Background(), fakeLister{tags: []string{"v1.0.0", "v1.1.0"}}, "url", nil)
	require.NoError(t, err)
	assert.Equal(t, "1.1.0", v)

	_, err = RemoteLatest(context.Background(), fakeLister{err: errors.New("offline")}, "url", nil)
	assert.Error(t, err)
}

func env(vars map[string]string, interactive bool) Environment {
	return Environment{Getenv: func(k string) string { return vars[k] }, Interactive: interactive}
}

func TestEnvironment(t *testing.T) {
	assert.False(t, env(nil, true).IsCI())
	assert.True(t, env(nil, false).IsCI())
	for _, vars := range []map[string]string{
		{"CI": "true"}, {"NETLIFY": "true"}, {"VERCEL": "1"}, {"GITHUB_ACTIONS": "true"},
		{"BUILD_ID": "42"}, {"VERCEL_ENV": "preview"},
	} {
		assert.True(t, env(vars, true).IsCI(), "%v", vars)
	}
	assert.False(t, env(map[string]string{"CI": "false"}, true).IsCI())

	assert.True(t, env(map[string]string{"SKIP_VERSION_CHECK": "true"}, true).SkipRequested())
	assert.True(t, env(map[string]string{"DISABLE_AUTO_UPDATE": "true"}, true).SkipRequested())
	assert.False(t, env(nil, true).SkipRequested())
}

type recorder struct {
	calls []string
	err   error
}

func (r *recorder) update(_ context.Context, v string) error {
	r.calls = append(r.calls, v)
	return r.err
}

func checker(current, latest string, e Environment, force bool, r *recorder) *Checker {
	return &Checker{
		Current:     func() (string, error) { return current, nil },
		Latest:      func(context.Context) (string, error) { return latest, nil },
		Update:      r.update,
		Env:         e,
		ForceUpdate: force,
	}
}

func TestCheck(t *testing.T) {
	ctx := context.Background()
	local := env(nil, true)
	ci := env(map[string]string{"CI": "true"}, true)

	t.Run("skip flag", func(t *testing.T) {
		r := &recorder{}
		res, err := checker("1.0.0", "2.0.0", ci, false, r).Check(ctx, true)
		require.NoError(t, err)
		assert.Equal(t, ActionSkipped, res.Action)
		assert.Empty(t, r.calls)
	})

	t.Run("skip env", func(t *testing.T) {
		r := &recorder{}
		e := env(map[string]string{"CI": "true", "DISABLE_AUTO_UPDATE": "true"}, true)
		res, err := checker("1.0.0", "2.0.0", e, false, r).Check(ctx, false)
		require.NoError(t, err)
		assert.Equal(t, ActionSkipped, res.Action)
	})

	t.Run("unknown latest", func(t *testing.T) {
		r := &recorder{}
		c := checker("1.0.0", "", ci, false, r)
		c.Latest = func(context.Context) (string, error) { return "", errors.New("offline") }
		res, err := c.Check(ctx, false)
		require.NoError(t, err)
		assert.Equal(t, ActionUnknown, res.Action)
	})

	t.Run("up to date", func(t *testing.T) {
		r := &recorder{}
		res, err := checker("^2.0.0", "2.0.0", ci, false, r).Check(ctx, false)
		require.NoError(t, err)
		assert.Equal(t, ActionUpToDate, res.Action)
		assert.Empty(t, r.calls)
	})

	t.Run("ci updates", func(t *testing.T) {
		r := &recorder{}
		res, err := checker("1.0.0", "2.0.0", ci, false, r).Check(ctx, false)
		require.NoError(t, err)
		assert.Equal(t, ActionUpdated, res.Action)
		assert.Equal(t, []string{"2.0.0"}, r.calls)
	})

	t.Run("ci failure is fatal", func(t *testing.T) {
		r := &recorder{err: errors.New("boom")}
		res, err := checker("1.0.0", "2.0.0", ci, false, r).Check(ctx, false)
		require.Error(t, err)
		assert.True(t, ferrors.HasCategory(err, ferrors.CategoryUpdate))
		assert.Equal(t, ActionUpdateFailed, res.Action)
	})

	t.Run("force update failure continues", func(t *testing.T) {
		r := &recorder{err: errors.New("boom")}
		res, err := checker("1.0.0", "2.0.0", local, true, r).Check(ctx, false)
		require.NoError(t, err)
		assert.Equal(t, ActionUpdateFailed, res.Action)
	})

	t.Run("hint", func(t *testing.T) {
		r := &recorder{}
		res, err := checker("1.0.0", "2.0.0", local, false, r).Check(ctx, false)
		require.NoError(t, err)
		assert.Equal(t, ActionHint, res.Action)
		assert.Empty(t, r.calls)
	})
}

func TestAutoUpdate(t *testing.T) {
	ctx := context.Background()
	r := &recorder{}
	res, err := checker("1.0.0", "1.1.0", env(nil, true), false, r).AutoUpdate(ctx)
	require.NoError(t, err)
	assert.Equal(t, ActionUpdated, res.Action)

	r = &recorder{err: errors.New("boom")}
	_, err = checker("1.0.0", "1.1.0", env(nil, true), false, r).AutoUpdate(ctx)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryUpdate))

	r = &recorder{}
	res, err = checker("1.1.0", "1.1.0", env(nil, true), false, r).AutoUpdate(ctx)
	require.NoError(t, err)
	assert.Equal(t, ActionUpToDate, res.Action)
}

func TestCurrentVersion(t *testing.T) {
	pkg, err := project.Parse([]byte(`{"name":"my-blog","version":"0.1.0","dependencies":{"core-maugli":"^1.4.2"}}`), "package.json")
	require.NoError(t, err)
	assert.Equal(t, "1.4.2", CurrentVersion(pkg, "core-maugli"))
	assert.Equal(t, "0.1.0", CurrentVersion(pkg, "other"))
}
