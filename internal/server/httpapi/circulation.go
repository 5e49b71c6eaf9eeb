package httpapi

import "net/http"

type issueRequest struct {
	BookID   string `json:"book_id" validate:"required,uuid"`
	MemberID string `json:"member_id" validate:"required,uuid"`
}

func (s *Server) issueBook(w http.ResponseWriter, r *http.Request) {
	var req issueRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	issue, err := s.svc.Circulation.Issue(r.Context(), req.BookID, req.MemberID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, issue)
}

func (s *Server) returnBook(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "issue_id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	issue, err := s.svc.Circulation.Return(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, issue)
}

func (s *Server) overdueReport(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Circulation.Overdue(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) memberIssues(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts, err := listOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	list, err := s.svc.Circulation.ListByMember(r.Context(), id, opts.Limit, opts.Offset)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) recommend(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "member_id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	k, err := queryInt(r, "k")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	books, err := s.svc.Recommend.Recommend(r.Context(), id, k)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, books)
}
