package commands

import (
	"fmt"

	"git.home.luguber.info/inful/blogkit/internal/content"
	"git.home.luguber.info/inful/blogkit/internal/featured"
)

// FeaturedCmd groups the featured subcommands.
type FeaturedCmd struct {
	Collection string `short:"c" default:"blog" enum:"blog,projects,products" help:"Collection to edit"`

	Add    FeaturedAddCmd    `cmd:"" help:"Feature an entry, unfeaturing the oldest when full"`
	Remove FeaturedRemoveCmd `cmd:"" help:"Unfeature an entry"`
	List   FeaturedListCmd   `cmd:"" help:"List featured entries"`
}

func (f *FeaturedCmd) manager(root *CLI) (*featured.Manager, error) {
	s, err := root.Settings()
	if err != nil {
		return nil, err
	}
	c, err := content.ParseCollection(f.Collection)
	if err != nil {
		return nil, err
	}
	return featured.New(s.ContentPath(), c)
}

// FeaturedAddCmd implements 'featured add'.
type FeaturedAddCmd struct {
	ID string `arg:"" help:"Entry id (path below the collection without extension)"`
}

func (a *FeaturedAddCmd) Run(parent *FeaturedCmd, _ *Global, root *CLI) error {
	m, err := parent.manager(root)
	if err != nil {
		return err
	}
	evicted, err := m.Add(a.ID)
	if err != nil {
		return err
	}
	if evicted != "" {
		fmt.Printf("Unfeatured %s\n", evicted)
	}
	fmt.Printf("Featured %s\n", a.ID)
	return nil
}

// FeaturedRemoveCmd implements 'featured remove'.
type FeaturedRemoveCmd struct {
	ID string `arg:"" help:"Entry id"`
}

func (r *FeaturedRemoveCmd) Run(parent *FeaturedCmd, _ *Global, root *CLI) error {
	m, err := parent.manager(root)
	if err != nil {
		return err
	}
	if err := m.Remove(r.ID); err != nil {
		return err
	}
	fmt.Printf("Unfeatured %s\n", r.ID)
	return nil
}

// FeaturedListCmd implements 'featured list'.
type FeaturedListCmd struct{}

func (l *FeaturedListCmd) Run(parent *FeaturedCmd, _ *Global, root *CLI) error {
	m, err := parent.manager(root)
	if err != nil {
		return err
	}
	entries, err := m.List()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No featured entries")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s\t%s\n", e.ID, e.Data.Title)
	}
	return nil
}
