package commands

import (
	"log/slog"

	"git.home.luguber.info/inful/blogkit/internal/config"
	"git.home.luguber.info/inful/blogkit/internal/verify"
)

// VerifyCmd implements the 'verify' command.
type VerifyCmd struct{}

func (v *VerifyCmd) Run(_ *Global, root *CLI) error {
	s, err := root.Settings()
	if err != nil {
		return err
	}
	return runVerify(s)
}

func runVerify(s *config.Settings) error {
	site, err := loadSite(s)
	if err != nil {
		return err
	}
	if err := verify.Run(s.ProjectRoot, site.Config, s.Getenv); err != nil {
		return err
	}
	slog.Info("Verification passed")
	return nil
}
