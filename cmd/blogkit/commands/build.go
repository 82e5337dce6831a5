package commands

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/blogkit/internal/config"
	ferrors "git.home.luguber.info/inful/blogkit/internal/foundation/errors"
	"git.home.luguber.info/inful/blogkit/internal/images"
	"git.home.luguber.info/inful/blogkit/internal/logfields"
	"git.home.luguber.info/inful/blogkit/internal/metrics"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	SkipCheck bool   `name:"skip-check" help:"Skip the template version check"`
	SiteCmd   string `name:"site-cmd" help:"Site build command run after the asset pipeline (empty to skip)" default:"astro build"`
}

type buildStage struct {
	name string
	run  func() error
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	s, err := root.Settings()
	if err != nil {
		return err
	}
	ctx := g.context()
	stages := []buildStage{
		{"check-version", func() error {
			_, err := newChecker(g, s).Check(ctx, b.SkipCheck)
			return err
		}},
		{"flatten", func() error { return runFlatten(g, s) }},
		{"optimize", func() error { return runOptimize(g, s, images.DefaultQuality) }},
		{"typograf", func() error { return runTypograf(g, s, nil, "", false) }},
		{"verify", func() error { return runVerify(s) }},
		{"previews", func() error { return runPreviews(g, s, false) }},
	}
	if strings.TrimSpace(b.SiteCmd) != "" {
		stages = append(stages, buildStage{"site", func() error { return runSiteCommand(ctx, s, b.SiteCmd) }})
	}
	for _, st := range stages {
		start := time.Now()
		err := st.run()
		g.Recorder.ObserveStageDuration(st.name, time.Since(start))
		if err != nil {
			g.Recorder.IncStageResult(st.name, metrics.ResultFatal)
			slog.Error("Build stage failed", logfields.Stage(st.name), logfields.Error(err))
			return err
		}
		g.Recorder.IncStageResult(st.name, metrics.ResultSuccess)
		slog.Debug("Build stage done", logfields.Stage(st.name), logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	}
	slog.Info("Build complete")
	return nil
}

// siteCommand prepares line for execution in the project root. Binaries
// installed in node_modules/.bin take precedence over PATH.
func siteCommand(ctx context.Context, s *config.Settings, line string) (*exec.Cmd, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, ferrors.ValidationError("empty site command").Build()
	}
	name := fields[0]
	if filepath.Base(name) == name {
		local := filepath.Join(s.ProjectRoot, "node_modules", ".bin", name)
		if _, err := os.Stat(local); err == nil {
			name = local
		}
	}
	cmd := exec.CommandContext(ctx, name, fields[1:]...)
	cmd.Dir = s.ProjectRoot
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd, nil
}

func runSiteCommand(ctx context.Context, s *config.Settings, line string) error {
	cmd, err := siteCommand(ctx, s, line)
	if err != nil {
		return err
	}
	slog.Info("Running site command", slog.String("command", line))
	if err := cmd.Run(); err != nil {
		return ferrors.RuntimeError("site command failed").WithCause(err).WithContext("command", line).Build()
	}
	return nil
}
