// Package http provides http transport for questions
package http

import (
	"net"
	stdhttp "net/http"
	"net/url"
	"strconv"

	"qbank/internal/core/queryplan"
	"qbank/internal/modkit/httpkit"
	perr "qbank/internal/platform/errors"
	pnet "qbank/internal/platform/net"
	"qbank/internal/services/api/questions/domain"
	svc "qbank/internal/services/api/questions/service"
	adom "qbank/internal/services/audit/domain"
)

// Register mounts the router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.PutJSON[domain.UpsertInput](r, "/{user_id}/banks/{bank_id}/questions", h.upsert)
	httpkit.Get(r, "/{user_id}/banks/{bank_id}/questions", h.list)
}

type handlers struct{ svc svc.Service }

// @Summary Upsert a question by source id
// @Description Creates or updates the question keyed by (user, bank, source_question_id) and replaces its taxonomy relationships
// @Tags questions
// @Accept json
// @Produce json
// @Param user_id path int true "User ID"
// @Param bank_id path int true "Bank ID"
// @Param payload body domain.UpsertInput true "Question"
// @Success 200 {object} domain.UpsertOutput "upserted"
// @Failure 400 {object} httpkit.Envelope "validation failure"
// @Failure 401 {object} httpkit.Envelope "identity mismatch"
// @Failure 422 {object} httpkit.Envelope "unknown bank or taxonomy reference"
// @Router /users/{user_id}/banks/{bank_id}/questions [put]
func (h *handlers) upsert(r *stdhttp.Request, in domain.UpsertInput) (any, error) {
	principal, err := httpkit.UserInt64(r)
	if err != nil {
		return nil, err
	}
	userID, err := pathID(r, "user_id")
	if err != nil {
		return nil, err
	}
	bankID, err := pathID(r, "bank_id")
	if err != nil {
		return nil, err
	}

	out, err := h.svc.Upsert(r.Context(), domain.UpsertCommand{
		Principal: principal,
		UserID:    userID,
		BankID:    bankID,
		Meta:      auditMeta(r),
		In:        in,
	})
	if err != nil {
		return nil, err
	}

	hdr := stdhttp.Header{}
	hdr.Set("X-Operation", out.Operation)
	hdr.Set("X-Question-Id", out.QuestionID)
	return httpkit.Response{Status: stdhttp.StatusOK, Body: out, Header: hdr}, nil
}

// @Summary Query questions in a bank
// @Description Filters by status, type, taxonomy axes and full-text search; paginated
// @Tags questions
// @Produce json
// @Param user_id path int true "User ID"
// @Param bank_id path int true "Bank ID"
// @Param page query int false "Zero-based page" default(0)
// @Param size query int false "Page size (max 100)" default(20)
// @Param sort_by query string false "title|created_at|updated_at|display_order|points"
// @Param sort_dir query string false "asc|desc"
// @Param status query string false "draft|published|archived"
// @Param question_type query string false "mcq|true_false|essay"
// @Param category_level_1 query []string false "Level 1 category filter" collectionFormat(multi)
// @Param tag query []string false "Tag filter" collectionFormat(multi)
// @Param quiz_id query []string false "Quiz filter" collectionFormat(multi)
// @Param difficulty_level query string false "Difficulty filter"
// @Param search query string false "Full-text search over title and content"
// @Success 200 {object} domain.ListOutput "one page"
// @Failure 400 {object} httpkit.Envelope "invalid query parameter"
// @Failure 401 {object} httpkit.Envelope "identity mismatch"
// @Router /users/{user_id}/banks/{bank_id}/questions [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	principal, err := httpkit.UserInt64(r)
	if err != nil {
		return nil, err
	}
	userID, err := pathID(r, "user_id")
	if err != nil {
		return nil, err
	}
	bankID, err := pathID(r, "bank_id")
	if err != nil {
		return nil, err
	}

	q := r.URL.Query()
	out, err := h.svc.List(r.Context(), domain.ListCommand{
		Principal: principal,
		UserID:    userID,
		BankID:    bankID,
		Meta:      auditMeta(r),
		Params: queryplan.Params{
			Page:       q.Get("page"),
			Size:       q.Get("size"),
			SortBy:     q.Get("sort_by"),
			SortDir:    q.Get("sort_dir"),
			Status:     q.Get("status"),
			Type:       q.Get("question_type"),
			Categories: categoryParams(q),
			Tags:       q["tag"],
			Quizzes:    q["quiz_id"],
			Difficulty: q.Get("difficulty_level"),
			Search:     q.Get("search"),
		},
	})
	if err != nil {
		return nil, err
	}

	hdr := stdhttp.Header{}
	hdr.Set("X-Total-Count", strconv.FormatInt(out.Pagination.TotalElements, 10))
	hdr.Set("X-Page-Number", strconv.Itoa(out.Pagination.CurrentPage))
	hdr.Set("X-Page-Size", strconv.Itoa(out.Pagination.PageSize))
	return httpkit.Response{Status: stdhttp.StatusOK, Body: out, Header: hdr}, nil
}

// pathID parses a numeric path segment; zero and negatives are as
// malformed as garbage
func pathID(r *stdhttp.Request, name string) (int64, error) {
	raw := httpkit.Param(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, perr.WithField(perr.QueryParamf(
			"%s must be a positive integer, got %q", name, raw), name)
	}
	return id, nil
}

// categoryParams collects the repeatable category_level_N filters
func categoryParams(q url.Values) map[int][]string {
	var m map[int][]string
	for lvl := 1; lvl <= queryplan.MaxCategoryLevel; lvl++ {
		key := "category_level_" + strconv.Itoa(lvl)
		if vals := q[key]; len(vals) > 0 {
			if m == nil {
				m = make(map[int][]string, queryplan.MaxCategoryLevel)
			}
			m[lvl] = vals
		}
	}
	return m
}

// auditMeta lifts the request envelope for security events
func auditMeta(r *stdhttp.Request) adom.Meta {
	return adom.Meta{
		SessionID: r.Header.Get("X-Session-Id"),
		RequestID: pnet.RequestID(r.Context()),
		ClientIP:  clientIP(r),
		UserAgent: r.UserAgent(),
	}
}

// clientIP strips the port RemoteAddr usually carries
func clientIP(r *stdhttp.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
