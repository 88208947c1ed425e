package httpapi

import (
	"net/http"

	"github.com/interviewqs/backend/internal/server/models"
	"github.com/interviewqs/backend/internal/server/services"
)

type nameCountResponse struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

func (s *Server) handleGreeting(w http.ResponseWriter, r *http.Request) {
	writeData(w, messageResponse{Message: "Hi from the interview questions backend"})
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	writeData(w, messageResponse{Message: services.Ping()})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeData(w, services.Version)
}

func (s *Server) handleCompanyStats(w http.ResponseWriter, r *http.Request) {
	result, err := s.posts.CompanyStats(r.Context())
	if err != nil {
		writeServiceError(w, err, "Could not get company stats")
		return
	}
	writeData(w, toNameCounts(result))
}

func (s *Server) handlePositionStats(w http.ResponseWriter, r *http.Request) {
	result, err := s.posts.PositionStats(r.Context())
	if err != nil {
		writeServiceError(w, err, "Could not get position stats")
		return
	}
	writeData(w, toNameCounts(result))
}

func toNameCounts(in []models.NameCount) []nameCountResponse {
	out := make([]nameCountResponse, 0, len(in))
	for _, nc := range in {
		out = append(out, nameCountResponse{Name: nc.Name, Count: nc.Count})
	}
	return out
}
