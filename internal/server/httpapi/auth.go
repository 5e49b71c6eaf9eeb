package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/libris/internal/server/models"
)

type signupRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Name     string `json:"name" validate:"required,max=150"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type signupResponse struct {
	User          *models.User          `json:"user"`
	MemberProfile *models.MemberProfile `json:"member_profile"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, profile, err := s.svc.Users.Signup(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "user signed up", "user_id", user.ID, "membership_id", profile.MembershipID)
	writeJSON(w, http.StatusCreated, signupResponse{User: user, MemberProfile: profile})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	tokens, err := s.svc.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokens)
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	tokens, err := s.svc.Users.RefreshToken(r.Context(), req.Refresh)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokens)
}

// logout revokes the refresh token and answers 205 Reset Content.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.svc.Users.Logout(r.Context(), req.Refresh); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusResetContent)
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	profile, err := s.svc.Users.Me(r.Context(), user.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
