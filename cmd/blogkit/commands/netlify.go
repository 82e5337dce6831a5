package commands

import (
	"fmt"

	"git.home.luguber.info/inful/blogkit/internal/netlify"
)

// NetlifyCmd groups the netlify.toml subcommands.
type NetlifyCmd struct {
	Generate NetlifyGenerateCmd `cmd:"" help:"Render netlify.toml from the site configuration"`
	Copy     NetlifyCopyCmd     `cmd:"" help:"Install the template's netlify.toml"`
}

// NetlifyGenerateCmd implements 'netlify generate'.
type NetlifyGenerateCmd struct{}

func (n *NetlifyGenerateCmd) Run(_ *NetlifyCmd, _ *Global, root *CLI) error {
	s, err := root.Settings()
	if err != nil {
		return err
	}
	site, err := loadSite(s)
	if err != nil {
		return err
	}
	backup, err := netlify.Generate(s.ProjectRoot, site.Config)
	if err != nil {
		return err
	}
	if backup != "" {
		fmt.Printf("Previous %s saved as %s\n", netlify.FileName, backup)
	}
	return nil
}

// NetlifyCopyCmd implements 'netlify copy'.
type NetlifyCopyCmd struct {
	OnlyNew bool `name:"only-new" help:"Leave an existing netlify.toml untouched"`
}

func (n *NetlifyCopyCmd) Run(_ *NetlifyCmd, _ *Global, root *CLI) error {
	s, err := root.Settings()
	if err != nil {
		return err
	}
	res, err := netlify.Copy(s.TemplatePath(), s.ProjectRoot, n.OnlyNew)
	if err != nil {
		return err
	}
	fmt.Println(res)
	return nil
}
