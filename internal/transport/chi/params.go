package chi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// FindSimilarParams are the query parameters of GET /artworks/{artwork_id}/similar.
type FindSimilarParams struct {
	Method        *string  `form:"method,omitempty" json:"method,omitempty"`
	Threshold     *int     `form:"threshold,omitempty" json:"threshold,omitempty"`
	ClipThreshold *float64 `form:"clip_threshold,omitempty" json:"clip_threshold,omitempty"`
	Limit         *int     `form:"limit,omitempty" json:"limit,omitempty"`
}

// DetectDuplicatesParams are the query parameters of GET /artworks/duplicates.
type DetectDuplicatesParams struct {
	Threshold *int `form:"threshold,omitempty" json:"threshold,omitempty"`
}

// ListFindingsParams are the query parameters of GET /vision/findings.
type ListFindingsParams struct {
	Limit  *int `form:"limit,omitempty" json:"limit,omitempty"`
	Offset *int `form:"offset,omitempty" json:"offset,omitempty"`
}

// LimitParams carry a single optional limit.
type LimitParams struct {
	Limit *int `form:"limit,omitempty" json:"limit,omitempty"`
}

// InvalidParamFormatError is returned when a parameter fails to bind.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

func bindPath(r *http.Request, name string, dest *string) error {
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), dest,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return &InvalidParamFormatError{ParamName: name, Err: err}
	}
	return nil
}

func bindQuery(r *http.Request, name string, dest any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dest); err != nil {
		return &InvalidParamFormatError{ParamName: name, Err: err}
	}
	return nil
}

func bindFindSimilarParams(r *http.Request) (FindSimilarParams, error) {
	var p FindSimilarParams
	for _, q := range []struct {
		name string
		dest any
	}{
		{"method", &p.Method},
		{"threshold", &p.Threshold},
		{"clip_threshold", &p.ClipThreshold},
		{"limit", &p.Limit},
	} {
		if err := bindQuery(r, q.name, q.dest); err != nil {
			return p, err
		}
	}
	return p, nil
}

func bindDetectDuplicatesParams(r *http.Request) (DetectDuplicatesParams, error) {
	var p DetectDuplicatesParams
	err := bindQuery(r, "threshold", &p.Threshold)
	return p, err
}

func bindListFindingsParams(r *http.Request) (ListFindingsParams, error) {
	var p ListFindingsParams
	if err := bindQuery(r, "limit", &p.Limit); err != nil {
		return p, err
	}
	err := bindQuery(r, "offset", &p.Offset)
	return p, err
}

func bindLimitParams(r *http.Request) (LimitParams, error) {
	var p LimitParams
	err := bindQuery(r, "limit", &p.Limit)
	return p, err
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
