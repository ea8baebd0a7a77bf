package workflow

import (
	"tue-news-backend/internal/domains/article/model"
	"tue-news-backend/internal/shared"
)

// Access policy as pure functions over a principal and an article. The HTTP
// layer extracts the principal; nothing here reads ambient request state.

// CanView reports whether principal may read the article.
//
// Published articles are public. Anything else is visible only to admins and
// the article's own authors. Callers must surface a denial as "not found" so
// unpublished articles do not leak their existence.
func CanView(article *model.Article, principal shared.Principal) bool {
	if article.Status == model.StatusPublished {
		return true
	}
	if !principal.Authenticated {
		return false
	}
	return principal.IsAdmin() || article.IsAuthor(principal.ID)
}

// CanMutate reports whether principal may edit or delete the article.
func CanMutate(article *model.Article, principal shared.Principal) bool {
	if !principal.Authenticated {
		return false
	}
	return principal.IsAdmin() || article.IsAuthor(principal.ID)
}

// CanSetStatus reports whether principal may force the article into another
// status. Only admins drive the override; authors never self-publish or
// self-reject.
func CanSetStatus(principal shared.Principal, _ model.Status) bool {
	return principal.IsAdmin()
}
