// Package models defines server-side data models persisted in the database.
package models

// Content status values. Deletion is a status transition; rows are never
// physically removed.
const (
	StatusPublished = "published"
	StatusDeleted   = "deleted"
)

// Post is an interview experience tied to a company and position. PinHash is
// the bcrypt hash of the one-time admin pin issued at creation; the plaintext
// pin is never stored.
type Post struct {
	ID            int64
	Title         string
	InterviewDate string
	Company       string
	Position      string
	Body          string
	Status        string
	PinHash       string
	CreateDate    string
	Views         int64
	VotesUp       int64
	VotesDown     int64
}

// PostPatch is a sparse update: only non-empty fields are written. It is
// translated into a parameterized UPDATE by the repository, never into
// concatenated SQL.
type PostPatch struct {
	Title         string
	InterviewDate string
	Company       string
	Position      string
	Body          string
}

// IsEmpty reports whether the patch carries no changes.
func (p PostPatch) IsEmpty() bool {
	return p.Title == "" && p.InterviewDate == "" && p.Company == "" &&
		p.Position == "" && p.Body == ""
}

// ListQuery carries validated listing parameters. SortKey and SortOrder are
// checked against whitelists before they reach a repository.
type ListQuery struct {
	SortKey   string
	SortOrder string
	Limit     int
	Offset    int
}

// NameCount is a distinct value with its number of posts, used by the
// companies/positions stats listings.
type NameCount struct {
	Name  string
	Count int64
}
