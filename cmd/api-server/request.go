package main

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/reclutador/staffing-api/internal/model"
	"github.com/reclutador/staffing-api/internal/uploader"
)

const (
	_allSentinel     = "ALL"
	_maxMultipartMem = 32 << 20
	_dateParamLayout = "2006-01-02"
)

func idFromRequest(r *http.Request, param string) (model.ID, error) {
	id, err := strconv.Atoi(chi.URLParam(r, param))
	return model.ID(id), err
}

// dimensionQueryParam reads an optional numeric query param where absence,
// blank and the ALL sentinel all mean "no constraint".
func dimensionQueryParam(r *http.Request, key string) (*int, bool) {
	val := r.URL.Query().Get(key)
	if val == "" || strings.EqualFold(val, _allSentinel) {
		return nil, true
	}

	intVal, err := strconv.Atoi(val)
	if err != nil {
		return nil, false
	}

	return &intVal, true
}

func optionalStringQueryParams(r *http.Request, key string) *string {
	ref := new(string)
	val, ok := r.URL.Query().Get(key), r.URL.Query().Has(key)
	if !ok || val == "" {
		return nil
	}
	*ref = val
	return ref
}

func optionalIntQueryParams(r *http.Request, key string) (*int, bool) {
	val, ok := r.URL.Query().Get(key), r.URL.Query().Has(key)
	if !ok || val == "" {
		return nil, true
	}

	intVal, err := strconv.Atoi(val)
	if err != nil {
		return nil, false
	}

	ref := new(int)
	*ref = intVal
	return ref, true
}

// optionalFormValue distinguishes "field absent" (nil) from "field present",
// so updates merge only the submitted fields.
func optionalFormValue(r *http.Request, key string) *string {
	if r.MultipartForm == nil {
		return nil
	}

	vals, ok := r.MultipartForm.Value[key]
	if !ok || len(vals) == 0 {
		return nil
	}

	return &vals[0]
}

func formValue(r *http.Request, key string) string {
	if ref := optionalFormValue(r, key); ref != nil {
		return *ref
	}
	return ""
}

// multipartFiles buffers every uploaded file, keyed by its category field
// name. Unknown field names are ignored rather than rejected.
func multipartFiles(r *http.Request) (map[string][]uploader.File, error) {
	files := map[string][]uploader.File{}
	if r.MultipartForm == nil {
		return files, nil
	}

	for _, category := range model.Categories() {
		for _, header := range r.MultipartForm.File[category] {
			f, err := header.Open()
			if err != nil {
				return nil, err
			}

			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				return nil, err
			}

			files[category] = append(files[category], uploader.File{
				Name: header.Filename,
				Data: data,
			})
		}
	}

	return files, nil
}
