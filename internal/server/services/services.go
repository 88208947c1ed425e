// Package services contains the server-side business logic: pin-based
// content ownership, the email+pin session flow, attachments, and stats.
package services

import (
	"time"

	"github.com/interviewqs/backend/internal/common"
	"github.com/interviewqs/backend/internal/server/models"
)

// createDateFormat matches the MM/DD/YYYY dates stored for posts and
// comments.
const createDateFormat = "01/02/2006"

// maxListLimit caps page sizes on every listing endpoint.
const maxListLimit = 50

// Cleaner censors profanity in user-supplied text before it is stored.
// *goaway.ProfanityDetector satisfies this interface.
type Cleaner interface {
	Censor(text string) string
}

// listSortKeys mirrors the repository whitelist; validation happens here so
// a bad sort key is a 400, not a repository error.
var listSortKeys = map[string]struct{}{
	"create_date":    {},
	"interview_date": {},
	"views":          {},
}

var listSortOrders = map[string]struct{}{
	"asc":  {},
	"desc": {},
}

// validateListQuery enforces the listing parameter contract: a whitelisted
// sort key (when the listing is sortable), asc/desc order, 1..50 limit, and
// a non-negative offset.
func validateListQuery(q models.ListQuery, sortable bool) error {
	if sortable {
		if _, ok := listSortKeys[q.SortKey]; !ok {
			return common.ErrorValidation
		}
	}
	if _, ok := listSortOrders[q.SortOrder]; !ok {
		return common.ErrorValidation
	}
	if q.Limit < 1 || q.Limit > maxListLimit {
		return common.ErrorValidation
	}
	if q.Offset < 0 {
		return common.ErrorValidation
	}
	return nil
}

func today() string {
	return time.Now().Format(createDateFormat)
}
