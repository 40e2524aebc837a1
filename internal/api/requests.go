// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/aniora/internal/validation"
)

// RecommendationsRequest holds GET /api/v1/recommendations parameters.
type RecommendationsRequest struct {
	Title  string `query:"title" validate:"required,notblank,max=200"`
	K      *int   `query:"k" validate:"omitempty,gte=1,lte=100"`
	Enrich *bool  `query:"enrich"`
}

// CategoryRequest holds GET /api/v1/categories/{category} parameters.
type CategoryRequest struct {
	Category string `query:"category" validate:"required,notblank,max=100"`
	K        *int   `query:"k" validate:"omitempty,gte=1,lte=100"`
	Enrich   *bool  `query:"enrich"`
}

// TopRequest holds GET /api/v1/top parameters.
type TopRequest struct {
	K      *int  `query:"k" validate:"omitempty,gte=1,lte=100"`
	Enrich *bool `query:"enrich"`
}

// TitlesRequest holds GET /api/v1/titles parameters.
type TitlesRequest struct {
	Query string `query:"q" validate:"max=200"`
	Limit *int   `query:"limit" validate:"omitempty,gte=1,lte=100"`
}

// queryParser collects typed query parameters, remembering the first
// parameter that failed to parse.
type queryParser struct {
	r   *http.Request
	err *validation.RequestValidationError
}

func newQueryParser(r *http.Request) *queryParser {
	return &queryParser{r: r}
}

func (p *queryParser) str(key string) string {
	return strings.TrimSpace(p.r.URL.Query().Get(key))
}

func (p *queryParser) optionalInt(key string) *int {
	raw := p.str(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(key, "int", raw, key+" must be an integer")
		return nil
	}
	return &v
}

func (p *queryParser) optionalBool(key string) *bool {
	raw := p.str(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.fail(key, "bool", raw, key+" must be true or false")
		return nil
	}
	return &v
}

func (p *queryParser) fail(field, tag, value, message string) {
	if p.err != nil {
		return
	}
	p.err = &validation.RequestValidationError{Fields: []validation.FieldError{{
		Field:   field,
		Tag:     tag,
		Value:   value,
		Message: message,
	}}}
}

// bind validates req after parsing. Parse failures win over rule failures.
func (p *queryParser) bind(req interface{}) *validation.RequestValidationError {
	if p.err != nil {
		return p.err
	}
	return validation.ValidateStruct(req)
}

func parseRecommendationsRequest(r *http.Request) (RecommendationsRequest, *validation.RequestValidationError) {
	p := newQueryParser(r)
	req := RecommendationsRequest{
		Title:  p.str("title"),
		K:      p.optionalInt("k"),
		Enrich: p.optionalBool("enrich"),
	}
	return req, p.bind(&req)
}

func parseCategoryRequest(r *http.Request) (CategoryRequest, *validation.RequestValidationError) {
	p := newQueryParser(r)
	req := CategoryRequest{
		Category: strings.TrimSpace(chi.URLParam(r, "category")),
		K:        p.optionalInt("k"),
		Enrich:   p.optionalBool("enrich"),
	}
	return req, p.bind(&req)
}

func parseTopRequest(r *http.Request) (TopRequest, *validation.RequestValidationError) {
	p := newQueryParser(r)
	req := TopRequest{
		K:      p.optionalInt("k"),
		Enrich: p.optionalBool("enrich"),
	}
	return req, p.bind(&req)
}

func parseTitlesRequest(r *http.Request) (TitlesRequest, *validation.RequestValidationError) {
	p := newQueryParser(r)
	req := TitlesRequest{
		Query: p.str("q"),
		Limit: p.optionalInt("limit"),
	}
	return req, p.bind(&req)
}

// intOr dereferences v, or returns def when v is nil.
func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
