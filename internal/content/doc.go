// Package content loads the Markdown collections of a blog (posts, authors,
// projects, products, tags and pages), validates their front matter and
// answers the queries the asset tooling needs: example filtering, date and
// featured ordering, tags, authors and reading time.
package content
