package httpapi

import (
	"net/http"

	"github.com/interviewqs/backend/internal/server/models"
)

type deleteFilesRequest struct {
	PostPin string `json:"postPin"`
}

type uploadTaskResponse struct {
	UploadURL string `json:"uploadUrl"`
	FileURL   string `json:"fileUrl"`
}

type attachmentResponse struct {
	ID         int64  `json:"id"`
	PostID     int64  `json:"post_id"`
	FileURL    string `json:"file_url"`
	CreateDate string `json:"create_date"`
}

func attachmentToResponse(a *models.Attachment) attachmentResponse {
	return attachmentResponse{ID: a.ID, PostID: a.PostID, FileURL: a.URL, CreateDate: a.CreateDate}
}

func (s *Server) handleCreateUpload(w http.ResponseWriter, r *http.Request) {
	task, err := s.attachments.CreateUploadURL(r.Context(), pathID(r, "postID"))
	if err != nil {
		writeServiceError(w, err, "Could not store and upload file")
		return
	}
	writeData(w, uploadTaskResponse{UploadURL: task.URL, FileURL: task.FileURL})
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	result, err := s.attachments.ListByPost(r.Context(), pathID(r, "postID"))
	if err != nil {
		writeServiceError(w, err, "Could not get post files")
		return
	}
	response := make([]attachmentResponse, 0, len(result))
	for _, a := range result {
		response = append(response, attachmentToResponse(a))
	}
	writeData(w, response)
}

func (s *Server) handleDeleteFiles(w http.ResponseWriter, r *http.Request) {
	var req deleteFilesRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Please provide the post admin pin")
		return
	}
	if err := s.attachments.DeleteByPost(r.Context(), pathID(r, "postID"), req.PostPin); err != nil {
		writeServiceError(w, err, "Could not delete post files")
		return
	}
	writeData(w, messageResponse{Message: "Deleted post files successfully"})
}
