package git

import (
	"strings"

	"git.home.luguber.info/inful/blogkit/internal/foundation/errors"
)

// ClassifyGitError translates go-git errors into ClassifiedErrors.
func ClassifyGitError(err error, op string, url string) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.AsClassified(err); ok {
		return err
	}

	l := strings.ToLower(err.Error())
	msg := "git " + op + " failed"
	var builder *errors.ErrorBuilder
	switch {
	case strings.Contains(l, "authentication") || strings.Contains(l, "not authorized") || strings.Contains(l, "invalid credentials"):
		builder = errors.NewError(errors.CategoryConfig, msg).UserAction()
	case strings.Contains(l, "repository not found") || strings.Contains(l, "not found") || strings.Contains(l, "does not exist"):
		builder = errors.NotFoundError(msg)
	case strings.Contains(l, "remote hung up") || strings.Contains(l, "connection reset") || strings.Contains(l, "timeout") ||
		strings.Contains(l, "no route to host") || strings.Contains(l, "too many requests"):
		builder = errors.NetworkError(msg)
	case strings.Contains(l, "unsupported protocol") || strings.Contains(l, "protocol not supported"):
		builder = errors.NewError(errors.CategoryConfig, msg)
	default:
		builder = errors.GitError(msg)
	}
	return builder.WithCause(err).WithContext("op", op).WithContext("url", url).Build()
}
