package commands

import (
	"fmt"

	"git.home.luguber.info/inful/blogkit/internal/version"
)

// VersionCmd implements the 'version' command.
type VersionCmd struct{}

func (v *VersionCmd) Run(_ *Global, _ *CLI) error {
	fmt.Printf("blogkit %s\n", version.String())
	return nil
}
