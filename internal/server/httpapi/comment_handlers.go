package httpapi

import (
	"net/http"

	"github.com/interviewqs/backend/internal/server/models"
)

type createCommentRequest struct {
	PostID   int64  `json:"postId"`
	Body     string `json:"body"`
	Solution *bool  `json:"solution"`
}

type updateCommentRequest struct {
	CommentID  int64  `json:"commentId"`
	CommentPin string `json:"commentPin"`
	Body       string `json:"body"`
	Solution   *bool  `json:"solution"`
}

type deleteCommentRequest struct {
	CommentID  int64  `json:"commentId"`
	CommentPin string `json:"commentPin"`
}

type listCommentsRequest struct {
	PostID    int64  `json:"postId"`
	SortOrder string `json:"sortOrder"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
}

type commentResponse struct {
	ID         int64  `json:"id"`
	PostID     int64  `json:"post_id"`
	Body       string `json:"body"`
	Solution   bool   `json:"solution"`
	CreateDate string `json:"create_date"`
}

func commentToResponse(c *models.Comment) commentResponse {
	return commentResponse{
		ID:         c.ID,
		PostID:     c.PostID,
		Body:       c.Body,
		Solution:   c.Solution,
		CreateDate: c.CreateDate,
	}
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	var req createCommentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Please provide post id, body, and solution")
		return
	}
	id, err := s.comments.Create(r.Context(), req.PostID, req.Body, req.Solution, emailFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, err, "Could not create comment")
		return
	}
	writeData(w, createdResponse{
		Message: "Comment has been published successfully, and an email has been sent with your admin pin.",
		ID:      id,
	})
}

func (s *Server) handleGetComment(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "commentID")
	comment, err := s.comments.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "Could not get a comment")
		return
	}
	writeData(w, commentToResponse(comment))
}

func (s *Server) handleUpdateComment(w http.ResponseWriter, r *http.Request) {
	var req updateCommentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Please provide a comment id and its admin pin")
		return
	}
	patch := models.CommentPatch{Body: req.Body, Solution: req.Solution}
	if err := s.comments.Update(r.Context(), req.CommentID, req.CommentPin, patch); err != nil {
		writeServiceError(w, err, "Could not update comment")
		return
	}
	writeData(w, createdResponse{Message: "Updated comment successfully", ID: req.CommentID})
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	var req deleteCommentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Please provide a comment id and its admin pin")
		return
	}
	if err := s.comments.Delete(r.Context(), req.CommentID, req.CommentPin); err != nil {
		writeServiceError(w, err, "Could not delete comment")
		return
	}
	writeData(w, messageResponse{Message: "Deleted comment successfully"})
}

func (s *Server) handleListPostComments(w http.ResponseWriter, r *http.Request) {
	s.listComments(w, r, false)
}

func (s *Server) handleListPostSolutions(w http.ResponseWriter, r *http.Request) {
	s.listComments(w, r, true)
}

func (s *Server) listComments(w http.ResponseWriter, r *http.Request, solutionsOnly bool) {
	var req listCommentsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Please provide post id, sort order, limit, and offset")
		return
	}
	q := models.ListQuery{SortOrder: req.SortOrder, Limit: req.Limit, Offset: req.Offset}
	result, err := s.comments.ListByPost(r.Context(), req.PostID, solutionsOnly, q)
	if err != nil {
		writeServiceError(w, err, "Could not get post comments")
		return
	}
	response := make([]commentResponse, 0, len(result))
	for _, c := range result {
		response = append(response, commentToResponse(c))
	}
	writeData(w, response)
}
