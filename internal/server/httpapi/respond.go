package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/libris/internal/common"
	"github.com/dmitrijs2005/libris/internal/server/models"
	"github.com/dmitrijs2005/libris/internal/validation"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

type errorResponse struct {
	Error  string                  `json:"error"`
	Code   string                  `json:"code"`
	Fields []validation.FieldError `json:"fields,omitempty"`
}

// errorKinds is checked in order; the first match decides status and code.
var errorKinds = []struct {
	err    error
	status int
	code   string
}{
	{common.ErrNoCopiesAvailable, http.StatusBadRequest, "no_copies_available"},
	{common.ErrAlreadyReturned, http.StatusBadRequest, "already_returned"},
	{common.ErrPendingRequestExists, http.StatusBadRequest, "pending_request_exists"},
	{common.ErrInvalidRole, http.StatusBadRequest, "invalid_role"},
	{common.ErrMemberInactive, http.StatusBadRequest, "member_inactive"},
	{common.ErrorValidation, http.StatusBadRequest, "validation_error"},
	{common.ErrorAlreadyExists, http.StatusBadRequest, "already_exists"},
	{common.ErrorInUse, http.StatusBadRequest, "in_use"},
	{common.ErrorNotFound, http.StatusNotFound, "not_found"},
	{common.ErrTokenExpired, http.StatusUnauthorized, "token_expired"},
	{common.ErrRefreshTokenExpired, http.StatusUnauthorized, "refresh_token_expired"},
	{common.ErrInvalidToken, http.StatusUnauthorized, "invalid_token"},
	{common.ErrorUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{common.ErrorForbidden, http.StatusForbidden, "forbidden"},
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	for _, k := range errorKinds {
		if !errors.Is(err, k.err) {
			continue
		}
		if common.IsBusinessError(err) {
			s.logger.Info(r.Context(), "request rejected", "method", r.Method, "path", r.URL.Path, "code", k.code)
		}
		body := errorResponse{Error: err.Error(), Code: k.code}
		var verr *validation.Error
		if errors.As(err, &verr) {
			body.Fields = verr.Fields
		}
		writeJSON(w, k.status, body)
		return
	}

	s.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error", Code: "internal_error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decode reads a JSON body into dst and validates it.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", common.ErrorValidation, err)
	}
	return validation.ValidateStruct(dst)
}

// pathID returns the named URL parameter. Every key is a UUID, so anything
// else cannot name an existing row.
func pathID(r *http.Request, name string) (string, error) {
	id := chi.URLParam(r, name)
	if _, err := uuid.Parse(id); err != nil {
		return "", fmt.Errorf("%w: %s %q", common.ErrorNotFound, name, id)
	}
	return id, nil
}

// listOptions reads limit, offset, q and category from the query string.
func listOptions(r *http.Request) (models.ListOptions, error) {
	q := r.URL.Query()
	opts := models.ListOptions{
		Query:      q.Get("q"),
		CategoryID: q.Get("category"),
	}
	if opts.CategoryID != "" {
		if _, err := uuid.Parse(opts.CategoryID); err != nil {
			return opts, fmt.Errorf("%w: category must be a UUID", common.ErrorValidation)
		}
	}

	var err error
	if opts.Limit, err = queryInt(r, "limit"); err != nil {
		return opts, err
	}
	if opts.Offset, err = queryInt(r, "offset"); err != nil {
		return opts, err
	}
	return opts, nil
}

func queryInt(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", common.ErrorValidation, name)
	}
	return n, nil
}
