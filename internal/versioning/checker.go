package versioning

import (
	"context"
	"log/slog"

	ferrors "git.home.luguber.info/inful/blogkit/internal/foundation/errors"
	"git.home.luguber.info/inful/blogkit/internal/logfields"
)

// Action is the outcome of a check.
type Action string

const (
	ActionSkipped      Action = "skipped"
	ActionUnknown      Action = "unknown"
	ActionUpToDate     Action = "up-to-date"
	ActionUpdated      Action = "updated"
	ActionUpdateFailed Action = "update-failed"
	ActionHint         Action = "hint"
)

// Result describes a check.
type Result struct {
	Current string
	Latest  string
	Action  Action
}

// Checker compares the installed template version with the latest release
// and applies the update policy.
type Checker struct {
	// Current returns the installed version, "" when unknown.
	Current func() (string, error)
	// Latest returns the newest published version, "" when unknown.
	Latest func(ctx context.Context) (string, error)
	// Update installs version.
	Update func(ctx context.Context, version string) error
	Env    Environment
	// ForceUpdate mirrors automation.forceUpdate of the site config.
	ForceUpdate bool
}

func (c *Checker) versions(ctx context.Context) (Result, bool) {
	var res Result
	if c.Current != nil {
		v, err := c.Current()
		if err != nil {
			slog.Warn("Could not read current template version", logfields.Error(err))
		}
		res.Current = v
	}
	if c.Latest != nil {
		v, err := c.Latest(ctx)
		if err != nil {
			slog.Warn("Could not fetch latest template version", logfields.Error(err))
		}
		res.Latest = v
	}
	if res.Current == "" || res.Latest == "" {
		res.Action = ActionUnknown
		slog.Warn("Could not check template version, continuing")
		return res, false
	}
	slog.Info("Template version", slog.String("current", res.Current), slog.String("latest", res.Latest))
	if !IsNewer(res.Current, res.Latest) {
		res.Action = ActionUpToDate
		slog.Info("Template is up to date", logfields.Version(res.Current))
		return res, false
	}
	return res, true
}

// Check runs the build-time version gate. In CI a newer release is
// installed and a failed update is fatal. With ForceUpdate it is installed
// and a failure only logged. Otherwise a hint is logged.
func (c *Checker) Check(ctx context.Context, skip bool) (Result, error) {
	if skip || c.Env.SkipRequested() {
		slog.Info("Version check skipped")
		return Result{Action: ActionSkipped}, nil
	}
	res, newer := c.versions(ctx)
	if !newer {
		return res, nil
	}

	ci := c.Env.IsCI()
	slog.Info("New template version available",
		logfields.Version(res.Latest),
		slog.Bool("ci", ci),
		slog.Bool("force_update", c.ForceUpdate))

	switch {
	case ci:
		if err := c.update(ctx, res.Latest); err != nil {
			res.Action = ActionUpdateFailed
			return res, ferrors.UpdateError("automatic update failed in CI, build cancelled").
				WithCause(err).WithContext("version", res.Latest).Build()
		}
	case c.ForceUpdate:
		if err := c.update(ctx, res.Latest); err != nil {
			res.Action = ActionUpdateFailed
			slog.Warn("Automatic update failed, continuing with build", logfields.Error(err))
			return res, nil
		}
	default:
		res.Action = ActionHint
		slog.Info("To update the template run: blogkit update")
		return res, nil
	}
	res.Action = ActionUpdated
	return res, nil
}

// AutoUpdate installs a newer release unconditionally; a failed update is
// fatal.
func (c *Checker) AutoUpdate(ctx context.Context) (Result, error) {
	res, newer := c.versions(ctx)
	if !newer {
		return res, nil
	}
	if err := c.update(ctx, res.Latest); err != nil {
		res.Action = ActionUpdateFailed
		return res, ferrors.UpdateError("automatic update failed").
			WithCause(err).WithContext("version", res.Latest).Build()
	}
	res.Action = ActionUpdated
	return res, nil
}

func (c *Checker) update(ctx context.Context, version string) error {
	if c.Update == nil {
		return ferrors.InternalError("no updater configured").Build()
	}
	slog.Info("Updating template", logfields.Version(version))
	if err := c.Update(ctx, version); err != nil {
		return err
	}
	slog.Info("Template updated", logfields.Version(version))
	return nil
}
