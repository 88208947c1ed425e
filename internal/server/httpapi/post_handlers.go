package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/interviewqs/backend/internal/server/models"
	"github.com/interviewqs/backend/internal/server/repositories/posts"
	"github.com/interviewqs/backend/internal/server/services"
)

type createPostRequest struct {
	Title         string `json:"title"`
	InterviewDate string `json:"interviewDate"`
	Company       string `json:"company"`
	Position      string `json:"position"`
	Body          string `json:"body"`
}

type updatePostRequest struct {
	PostID        int64  `json:"postId"`
	PostPin       string `json:"postPin"`
	Title         string `json:"title"`
	InterviewDate string `json:"interviewDate"`
	Company       string `json:"company"`
	Position      string `json:"position"`
	Body          string `json:"body"`
}

type deletePostRequest struct {
	PostID  int64  `json:"postId"`
	PostPin string `json:"postPin"`
}

type listPostsRequest struct {
	SortKey   string `json:"sortKey"`
	SortOrder string `json:"sortOrder"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
	Company   string `json:"company"`
	Position  string `json:"position"`
}

type createdResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

type postResponse struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	CreateDate    string `json:"create_date"`
	InterviewDate string `json:"interview_date"`
	Company       string `json:"company"`
	Position      string `json:"position"`
	Body          string `json:"body"`
	VotesUp       int64  `json:"votes_up"`
	VotesDown     int64  `json:"votes_down"`
	Views         int64  `json:"views"`
}

func postToResponse(p *models.Post) postResponse {
	return postResponse{
		ID:            p.ID,
		Title:         p.Title,
		CreateDate:    p.CreateDate,
		InterviewDate: p.InterviewDate,
		Company:       p.Company,
		Position:      p.Position,
		Body:          p.Body,
		VotesUp:       p.VotesUp,
		VotesDown:     p.VotesDown,
		Views:         p.Views,
	}
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Please provide post title, interview date, company, position")
		return
	}
	draft := services.PostDraft{
		Title:         req.Title,
		InterviewDate: req.InterviewDate,
		Company:       req.Company,
		Position:      req.Position,
		Body:          req.Body,
	}
	id, err := s.posts.Create(r.Context(), draft, emailFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, err, "Could not create post")
		return
	}
	writeData(w, createdResponse{
		Message: "Post has been published successfully, and an email has been sent with your admin pin.",
		ID:      id,
	})
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "postID")
	post, err := s.posts.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "Could not get a post")
		return
	}
	writeData(w, postToResponse(post))
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	var req updatePostRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Please provide a post id and its admin pin")
		return
	}
	patch := models.PostPatch{
		Title:         req.Title,
		InterviewDate: req.InterviewDate,
		Company:       req.Company,
		Position:      req.Position,
		Body:          req.Body,
	}
	if err := s.posts.Update(r.Context(), req.PostID, req.PostPin, patch); err != nil {
		writeServiceError(w, err, "Could not update post")
		return
	}
	writeData(w, createdResponse{Message: "Updated post successfully", ID: req.PostID})
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	var req deletePostRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Please provide a post id and its admin pin")
		return
	}
	s.deletePost(w, r, req.PostID, req.PostPin)
}

// handleDeletePostByPath is the POST /deletePost/{postID} alias kept for
// clients that cannot send bodies with DELETE.
func (s *Server) handleDeletePostByPath(w http.ResponseWriter, r *http.Request) {
	var req deletePostRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Please provide a post id and its admin pin")
		return
	}
	s.deletePost(w, r, pathID(r, "postID"), req.PostPin)
}

func (s *Server) deletePost(w http.ResponseWriter, r *http.Request, id int64, pin string) {
	if err := s.posts.Delete(r.Context(), id, pin); err != nil {
		writeServiceError(w, err, "Could not delete post")
		return
	}
	writeData(w, messageResponse{Message: "Deleted post successfully"})
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	s.listPosts(w, r, false, false)
}

func (s *Server) handleListCompanyPosts(w http.ResponseWriter, r *http.Request) {
	s.listPosts(w, r, true, false)
}

func (s *Server) handleListPositionPosts(w http.ResponseWriter, r *http.Request) {
	s.listPosts(w, r, false, true)
}

func (s *Server) handleListPositionCompanyPosts(w http.ResponseWriter, r *http.Request) {
	s.listPosts(w, r, true, true)
}

func (s *Server) listPosts(w http.ResponseWriter, r *http.Request, byCompany, byPosition bool) {
	var req listPostsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Please provide sort key, sort order, limit, and offset")
		return
	}

	filter := posts.Filter{}
	if byCompany {
		if req.Company == "" {
			writeError(w, http.StatusBadRequest, "Please provide a company")
			return
		}
		filter.Company = req.Company
	}
	if byPosition {
		if req.Position == "" {
			writeError(w, http.StatusBadRequest, "Please provide a position")
			return
		}
		filter.Position = req.Position
	}

	q := models.ListQuery{SortKey: req.SortKey, SortOrder: req.SortOrder, Limit: req.Limit, Offset: req.Offset}
	result, err := s.posts.List(r.Context(), filter, q)
	if err != nil {
		writeServiceError(w, err, "Could not get posts")
		return
	}

	response := make([]postResponse, 0, len(result))
	for _, p := range result {
		response = append(response, postToResponse(p))
	}
	writeData(w, response)
}

func (s *Server) handleCompanies(w http.ResponseWriter, r *http.Request) {
	result, err := s.posts.Companies(r.Context())
	if err != nil {
		writeServiceError(w, err, "Could not get companies")
		return
	}
	writeData(w, result)
}

func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	result, err := s.posts.Positions(r.Context())
	if err != nil {
		writeServiceError(w, err, "Could not get positions")
		return
	}
	writeData(w, result)
}

// pathID parses a numeric URL parameter; 0 means absent or garbage and is
// rejected downstream as a validation error.
func pathID(r *http.Request, name string) int64 {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
