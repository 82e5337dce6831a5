package commands

import (
	"fmt"

	"git.home.luguber.info/inful/blogkit/internal/config"
	"git.home.luguber.info/inful/blogkit/internal/siteconfig"
)

// UpgradeCmd implements the 'upgrade' command.
type UpgradeCmd struct{}

func (u *UpgradeCmd) Run(_ *Global, root *CLI) error {
	s, err := root.Settings()
	if err != nil {
		return err
	}
	defaults, err := config.DefaultSite(s.TemplatePath())
	if err != nil {
		return err
	}
	res, err := siteconfig.Upgrade(s.SiteConfigPath(), defaults)
	if err != nil {
		return err
	}
	if res.UpToDate {
		fmt.Printf("Site configuration is at version %s\n", res.To)
		return nil
	}
	for _, key := range res.Added {
		fmt.Printf("Added %s\n", key)
	}
	fmt.Printf("Upgraded site configuration %s -> %s\n", displayVersion(res.From), res.To)
	return nil
}

func displayVersion(v string) string {
	if v == "" {
		return "none"
	}
	return v
}

// ForceUpdateCmd implements the 'force-update' command.
type ForceUpdateCmd struct {
	State string `arg:"" enum:"on,off" help:"on or off"`
}

func (f *ForceUpdateCmd) Run(_ *Global, root *CLI) error {
	s, err := root.Settings()
	if err != nil {
		return err
	}
	enabled := f.State == "on"
	if err := siteconfig.SetForceUpdate(s.SiteConfigPath(), enabled); err != nil {
		return err
	}
	fmt.Printf("automation.forceUpdate = %t\n", enabled)
	return nil
}
