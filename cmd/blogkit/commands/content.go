package commands

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"git.home.luguber.info/inful/blogkit/internal/content"
	ferrors "git.home.luguber.info/inful/blogkit/internal/foundation/errors"
	"git.home.luguber.info/inful/blogkit/internal/logfields"
)

// ContentCmd groups the content subcommands.
type ContentCmd struct {
	Validate ContentValidateCmd `cmd:"" help:"Validate front matter of every collection"`
	List     ContentListCmd     `cmd:"" help:"List entries of a collection"`
	Tags     ContentTagsCmd     `cmd:"" help:"List tags used by blog posts"`
}

// ContentValidateCmd implements 'content validate'.
type ContentValidateCmd struct {
	Collections []string `arg:"" optional:"" help:"Collections to validate (default: all)"`
}

func (c *ContentValidateCmd) Run(_ *Global, root *CLI) error {
	s, err := root.Settings()
	if err != nil {
		return err
	}
	cols, err := parseCollections(c.Collections)
	if err != nil {
		return err
	}
	var problems []content.Problem
	total := 0
	for _, col := range cols {
		entries, loadProblems, err := content.Load(s.ContentPath(), col)
		if err != nil {
			return err
		}
		total += len(entries)
		problems = append(problems, loadProblems...)
		problems = append(problems, content.ValidateAll(entries)...)
	}
	for _, p := range problems {
		fmt.Fprintln(os.Stderr, p.Error())
	}
	if len(problems) > 0 {
		return ferrors.ValidationError("content validation failed").
			WithContext("problems", len(problems)).Build()
	}
	slog.Info("Content is valid", logfields.Count(total))
	return nil
}

func parseCollections(names []string) ([]content.Collection, error) {
	if len(names) == 0 {
		return content.Collections, nil
	}
	out := make([]content.Collection, 0, len(names))
	for _, n := range names {
		c, err := content.ParseCollection(n)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// ContentListCmd implements 'content list'.
type ContentListCmd struct {
	Collection string `arg:"" optional:"" default:"blog" help:"Collection to list"`
	Tag        string `help:"Only entries with this tag slug"`
	Author     string `help:"Only entries by this author id"`
}

func (c *ContentListCmd) Run(_ *Global, root *CLI) error {
	s, err := root.Settings()
	if err != nil {
		return err
	}
	col, err := content.ParseCollection(c.Collection)
	if err != nil {
		return err
	}
	site, err := loadSite(s)
	if err != nil {
		return err
	}
	entries, problems, err := content.Load(s.ContentPath(), col)
	if err != nil {
		return err
	}
	for _, p := range problems {
		slog.Warn("Skipping unreadable entry", logfields.Path(p.Path), logfields.Error(p.Err))
	}
	entries = content.FilterExamples(entries, site.Config.ExamplesEnabled())
	if c.Tag != "" {
		entries = content.ByTag(entries, c.Tag)
	}
	resolver := content.NewAuthorResolver(nil, site.Config.DefaultAuthorID)
	if col == content.Blog {
		authors, _, err := content.Load(s.ContentPath(), content.Authors)
		if err != nil {
			return err
		}
		resolver = content.NewAuthorResolver(authors, site.Config.DefaultAuthorID)
		if c.Author != "" {
			entries = resolver.ByAuthor(entries, c.Author)
		}
	}
	content.SortByDateDesc(entries)
	content.SortFeaturedFirst(entries)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tFEATURED\tAUTHOR\tMIN\tTITLE")
	for _, e := range entries {
		date := ""
		if !e.Published().IsZero() {
			date = e.Published().Format("2006-01-02")
		}
		author := ""
		if col == content.Blog {
			author = resolver.Resolve(e)
		}
		fmt.Fprintf(w, "%s\t%s\t%t\t%s\t%d\t%s\n",
			e.ID, date, e.Data.IsFeatured, author, content.ReadingTime(e.Body), e.Data.Title)
	}
	return w.Flush()
}

// ContentTagsCmd implements 'content tags'.
type ContentTagsCmd struct{}

func (c *ContentTagsCmd) Run(_ *Global, root *CLI) error {
	s, err := root.Settings()
	if err != nil {
		return err
	}
	site, err := loadSite(s)
	if err != nil {
		return err
	}
	entries, _, err := content.Load(s.ContentPath(), content.Blog)
	if err != nil {
		return err
	}
	entries = content.FilterExamples(entries, site.Config.ExamplesEnabled())
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SLUG\tNAME\tPOSTS")
	for _, tag := range content.AllTags(entries) {
		fmt.Fprintf(w, "%s\t%s\t%d\n", tag.ID, tag.Name, len(content.ByTag(entries, tag.ID)))
	}
	return w.Flush()
}
