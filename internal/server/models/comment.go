package models

// Comment shares the post ownership model: a bcrypt pin hash issued at
// creation gates later mutation and deletion.
type Comment struct {
	ID         int64
	PostID     int64
	Body       string
	Solution   bool
	Status     string
	PinHash    string
	CreateDate string
}

// CommentPatch is a sparse update for a comment. Solution is tri-state: nil
// leaves the flag untouched.
type CommentPatch struct {
	Body     string
	Solution *bool
}

func (p CommentPatch) IsEmpty() bool {
	return p.Body == "" && p.Solution == nil
}
