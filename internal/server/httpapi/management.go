package httpapi

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/libris/internal/common"
	"github.com/dmitrijs2005/libris/internal/server/models"
)

type managementRequest struct {
	Role string `json:"role" validate:"required,elevated_role"`
}

func (s *Server) createManagementRequest(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req managementRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	role, _ := models.ParseRole(req.Role)

	mr, err := s.svc.Management.CreateRequest(r.Context(), user.ID, role)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mr)
}

func (s *Server) listManagementRequests(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var status models.RequestStatus
	switch v := models.RequestStatus(r.URL.Query().Get("status")); v {
	case "", models.StatusPending, models.StatusApproved, models.StatusRejected:
		status = v
	default:
		s.writeError(w, r, fmt.Errorf("%w: unknown status %q", common.ErrorValidation, v))
		return
	}

	list, err := s.svc.Management.ListRequests(r.Context(), status, opts.Limit, opts.Offset)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) approveManagementRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := currentUser(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	mr, err := s.svc.Management.Approve(r.Context(), id, user.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info(r.Context(), "management request approved",
		"request_id", mr.ID, "user_id", mr.UserID, "role", string(mr.RequestedRole), "approved_by", user.ID)
	writeJSON(w, http.StatusOK, mr)
}

func (s *Server) rejectManagementRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := currentUser(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	mr, err := s.svc.Management.Reject(r.Context(), id, user.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mr)
}
