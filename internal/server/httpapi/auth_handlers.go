package httpapi

import (
	"net"
	"net/http"

	"github.com/interviewqs/backend/internal/common"
)

type registerRequest struct {
	Email string `json:"email"`
	IP    string `json:"ip"`
}

type loginRequest struct {
	Email string `json:"email"`
	Pin   string `json:"pin"`
	IP    string `json:"ip"`
}

type renewRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Please provide required information")
		return
	}
	if req.IP == "" {
		req.IP = remoteIP(r)
	}
	if err := s.sessions.RequestPin(r.Context(), req.Email, req.IP); err != nil {
		writeServiceError(w, err, "Could not generate user pin")
		return
	}
	writeData(w, messageResponse{Message: "Email sent successfully"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Please provide email and pin")
		return
	}
	if req.IP == "" {
		req.IP = remoteIP(r)
	}
	pair, err := s.sessions.Login(r.Context(), req.Email, req.Pin, req.IP)
	if err != nil {
		writeServiceError(w, err, "Could not login")
		return
	}
	s.setRefreshCookie(w, pair.RefreshToken)
	writeData(w, tokenPairResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get(common.AccessTokenHeaderName)
	refreshToken := refreshTokenFromCookie(r)
	if token == "" || refreshToken == "" {
		writeError(w, http.StatusBadRequest, "Please provide token and refresh token")
		return
	}
	if err := s.sessions.Logout(r.Context(), token, refreshToken); err != nil {
		writeServiceError(w, err, "Could not logout")
		return
	}
	s.clearRefreshCookie(w)
	writeData(w, messageResponse{Message: "Logged out successfully"})
}

func (s *Server) handleRenewToken(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get(common.AccessTokenHeaderName)
	var req renewRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Please provide token and refresh token")
		return
	}
	if token == "" || req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "Please provide token and refresh token")
		return
	}
	pair, err := s.sessions.Renew(r.Context(), token, req.RefreshToken)
	if err != nil {
		writeServiceError(w, err, "Could not generate a new token from existing refresh token")
		return
	}
	s.setRefreshCookie(w, pair.RefreshToken)
	writeData(w, tokenPairResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (s *Server) handleRenewTokenByCookie(w http.ResponseWriter, r *http.Request) {
	refreshToken := refreshTokenFromCookie(r)
	if refreshToken == "" {
		writeError(w, http.StatusBadRequest, "Please provide a refresh token")
		return
	}
	pair, err := s.sessions.RenewByCookie(r.Context(), refreshToken)
	if err != nil {
		writeServiceError(w, err, "Could not generate a new token from existing refresh token")
		return
	}
	s.setRefreshCookie(w, pair.RefreshToken)
	writeData(w, tokenPairResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (s *Server) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.RefreshTokenCookieName,
		Value:    token,
		MaxAge:   int(s.cookieAge.Seconds()),
		HttpOnly: true,
		Secure:   false,
		Path:     "/",
	})
}

func (s *Server) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.RefreshTokenCookieName,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Path:     "/",
	})
}

func refreshTokenFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(common.RefreshTokenCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
