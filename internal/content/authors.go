package content

// UnknownAuthor is used when neither the post nor the site names an author.
const UnknownAuthor = "unknown-author"

// AuthorResolver maps posts to existing author ids.
type AuthorResolver struct {
	known     map[string]bool
	defaultID string
}

// NewAuthorResolver builds a resolver from the loaded author entries and the
// site's default author id.
func NewAuthorResolver(authors []Entry, defaultID string) *AuthorResolver {
	known := make(map[string]bool, len(authors))
	for _, a := range authors {
		known[a.ID] = true
	}
	return &AuthorResolver{known: known, defaultID: defaultID}
}

func (r *AuthorResolver) fallback() string {
	if r.defaultID != "" {
		return r.defaultID
	}
	return UnknownAuthor
}

// Resolve returns the post's author when an author file exists for it, and
// the default author otherwise.
func (r *AuthorResolver) Resolve(post Entry) string {
	author := post.Data.Author
	if author == "" {
		author = r.fallback()
	}
	if r.known[author] {
		return author
	}
	return r.fallback()
}

// ByAuthor returns the posts attributed to authorID.
func (r *AuthorResolver) ByAuthor(posts []Entry, authorID string) []Entry {
	var out []Entry
	for _, p := range posts {
		if r.Resolve(p) == authorID {
			out = append(out, p)
		}
	}
	return out
}
