package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/libris/internal/server/models"
)

type categoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type bookRequest struct {
	Title      string  `json:"title" validate:"required,max=255"`
	Author     string  `json:"author" validate:"required,max=255"`
	ISBN       string  `json:"isbn" validate:"omitempty,isbn"`
	CategoryID *string `json:"category_id" validate:"omitempty,uuid"`
	// AvailableCopies defaults to TotalCopies on create and is ignored on
	// update, where it follows the copies on loan.
	TotalCopies     int  `json:"total_copies" validate:"min=0"`
	AvailableCopies *int `json:"available_copies" validate:"omitempty,min=0"`
}

func (b *bookRequest) book(id string) *models.Book {
	out := &models.Book{
		ID:          id,
		Title:       b.Title,
		Author:      b.Author,
		ISBN:        b.ISBN,
		CategoryID:  b.CategoryID,
		TotalCopies: b.TotalCopies,
	}
	out.AvailableCopies = b.TotalCopies
	if b.AvailableCopies != nil {
		out.AvailableCopies = *b.AvailableCopies
	}
	return out
}

type memberRequest struct {
	Name           string `json:"name" validate:"required,max=150"`
	MembershipCode string `json:"membership_code" validate:"required,max=50"`
	Email          string `json:"email" validate:"required,email"`
	IsActive       *bool  `json:"is_active"`
}

func (m *memberRequest) member(id string) *models.Member {
	active := true
	if m.IsActive != nil {
		active = *m.IsActive
	}
	return &models.Member{
		ID:             id,
		Name:           m.Name,
		MembershipCode: m.MembershipCode,
		Email:          m.Email,
		IsActive:       active,
	}
}

// categories

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	list, err := s.svc.Catalog.ListCategories(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) getCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	c, err := s.svc.Catalog.GetCategory(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	c := &models.Category{Name: req.Name}
	if err := s.svc.Catalog.CreateCategory(r.Context(), c); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req categoryRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	c := &models.Category{ID: id, Name: req.Name}
	if err := s.svc.Catalog.UpdateCategory(r.Context(), c); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.svc.Catalog.DeleteCategory(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// books

func (s *Server) listBooks(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	list, err := s.svc.Catalog.ListBooks(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) getBook(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	b, err := s.svc.Catalog.GetBook(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) createBook(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	b := req.book("")
	if err := s.svc.Catalog.CreateBook(r.Context(), b); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (s *Server) updateBook(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req bookRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	b := req.book(id)
	if err := s.svc.Catalog.UpdateBook(r.Context(), b); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) deleteBook(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.svc.Catalog.DeleteBook(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// members

func (s *Server) listMembers(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	list, err := s.svc.Catalog.ListMembers(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) getMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	m, err := s.svc.Catalog.GetMember(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) createMember(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	m := req.member("")
	if err := s.svc.Catalog.CreateMember(r.Context(), m); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) updateMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req memberRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	m := req.member(id)
	if err := s.svc.Catalog.UpdateMember(r.Context(), m); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) deleteMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.svc.Catalog.DeleteMember(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
