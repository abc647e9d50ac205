package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/reclutador/staffing-api/internal/ctxstore"
	"github.com/reclutador/staffing-api/internal/database"
	"github.com/reclutador/staffing-api/internal/model"
	"github.com/reclutador/staffing-api/internal/request"
	"github.com/reclutador/staffing-api/internal/response"
	"github.com/reclutador/staffing-api/internal/uploader"
	"github.com/reclutador/staffing-api/internal/validator"
)

func (app *application) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.logger.With(
		_traceIDKey.String(), ctxstore.MustFrom[string](ctx, _traceIDKey),
	)

	var v validator.Validator
	var filter database.FindCandidateFilter
	var ok bool

	filter.Year, ok = dimensionQueryParam(r, "year")
	v.CheckField(ok, "year", "must be a number or ALL")

	filter.Month, ok = dimensionQueryParam(r, "month")
	v.CheckField(ok, "month", "must be a number or ALL")

	filter.Status = optionalStringQueryParams(r, "status")

	filter.GroupStart, ok = optionalIntQueryParams(r, "groupStart")
	v.CheckField(ok, "groupStart", "must be a number")

	filter.GroupEnd, ok = optionalIntQueryParams(r, "groupEnd")
	v.CheckField(ok, "groupEnd", "must be a number")

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	dao := database.NewCandidateDAO(logger, app.db)

	candidates, err := dao.Find(ctx, filter)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"candidates": candidates}); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.logger.With(
		_traceIDKey.String(), ctxstore.MustFrom[string](ctx, _traceIDKey),
	)

	candidateID, err := idFromRequest(r, "candidateId")
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	dao := database.NewCandidateDAO(logger, app.db)

	candidate, err := dao.Get(ctx, candidateID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			app.errorMessage(w, r, http.StatusNotFound, err.Error(), nil)
			return
		}

		app.serverError(w, r, err)
		return
	}

	docDAO := database.NewCandidateDocumentDAO(logger, app.db)

	candidate.Documents, err = docDAO.ListByOwner(ctx, candidateID)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"candidate": candidate}); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleCreateCandidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.logger.With(
		_traceIDKey.String(), ctxstore.MustFrom[string](ctx, _traceIDKey),
	)

	if err := r.ParseMultipartForm(_maxMultipartMem); err != nil {
		app.badRequest(w, r, err)
		return
	}

	dto := database.InsertCandidateDTO{
		NationalID: formValue(r, "nationalId"),
		LastName1:  formValue(r, "lastName1"),
		LastName2:  formValue(r, "lastName2"),
		FirstNames: formValue(r, "firstNames"),
		Site:       optionalFormValue(r, "site"),
		Shift:      optionalFormValue(r, "shift"),
		Grp:        optionalFormValue(r, "grp"),
	}

	var v validator.Validator
	validateInsertCandidate(&v, dto)

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	files, err := multipartFiles(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	dao := database.NewCandidateDAO(logger, app.db)

	var stored []uploader.Attachment
	attach := func(ctx context.Context, id model.ID, naturalKey string) ([]database.InsertDocumentDTO, error) {
		atts, err := app.uploader.UploadAll(ctx, naturalKey, model.Categories(), files)
		stored = atts
		if err != nil {
			return nil, err
		}

		return attachmentsToDocs(atts), nil
	}

	candidateID, err := dao.Create(ctx, dto, attach)
	if err != nil {
		// The transaction is already rolled back; drop any objects that
		// made it to storage before the failure.
		app.uploader.Sweep(ctx, stored)

		if errors.Is(err, model.ErrExists) {
			app.errorMessage(w, r, http.StatusConflict, err.Error(), nil)
			return
		}

		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusCreated, response.JSONObject{"ok": true, "id": candidateID}); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleUpdateCandidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.logger.With(
		_traceIDKey.String(), ctxstore.MustFrom[string](ctx, _traceIDKey),
	)

	candidateID, err := idFromRequest(r, "candidateId")
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(_maxMultipartMem); err != nil {
		app.badRequest(w, r, err)
		return
	}

	dao := database.NewCandidateDAO(logger, app.db)

	candidate, err := dao.Get(ctx, candidateID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			app.errorMessage(w, r, http.StatusNotFound, err.Error(), nil)
			return
		}

		app.serverError(w, r, err)
		return
	}

	dto := database.UpdateCandidateDTO{
		LastName1:  optionalFormValue(r, "lastName1"),
		LastName2:  optionalFormValue(r, "lastName2"),
		FirstNames: optionalFormValue(r, "firstNames"),
		Site:       optionalFormValue(r, "site"),
		Shift:      optionalFormValue(r, "shift"),
		Grp:        optionalFormValue(r, "grp"),
	}

	var v validator.Validator
	validateUpdateCandidate(&v, dto)

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	if err := dao.Update(ctx, candidateID, dto); err != nil {
		app.serverError(w, r, err)
		return
	}

	files, err := multipartFiles(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	if len(files) > 0 {
		stored, err := app.uploader.UploadAll(ctx, candidate.NationalID, model.Categories(), files)
		if err != nil {
			app.uploader.Sweep(ctx, stored)
			app.serverError(w, r, err)
			return
		}

		docDAO := database.NewCandidateDocumentDAO(logger, app.db)
		if err := docDAO.InsertMany(ctx, app.db, candidateID, attachmentsToDocs(stored)); err != nil {
			app.uploader.Sweep(ctx, stored)
			app.serverError(w, r, err)
			return
		}
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"ok": true}); err != nil {
		app.serverError(w, r, err)
	}
}

type requestUpdateStatus struct {
	Status string `json:"status"`
}

func (app *application) handleUpdateCandidateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.logger.With(
		_traceIDKey.String(), ctxstore.MustFrom[string](ctx, _traceIDKey),
	)

	candidateID, err := idFromRequest(r, "candidateId")
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	var input requestUpdateStatus
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	validateStatus(&v, input.Status)

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	dao := database.NewCandidateDAO(logger, app.db)

	if _, err := dao.Get(ctx, candidateID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			app.errorMessage(w, r, http.StatusNotFound, err.Error(), nil)
			return
		}

		app.serverError(w, r, err)
		return
	}

	if err := dao.UpdateStatus(ctx, candidateID, input.Status); err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"ok": true}); err != nil {
		app.serverError(w, r, err)
	}
}

func attachmentsToDocs(atts []uploader.Attachment) []database.InsertDocumentDTO {
	docs := make([]database.InsertDocumentDTO, 0, len(atts))
	for _, att := range atts {
		docs = append(docs, database.InsertDocumentDTO{
			Category: att.Category,
			URL:      att.URL,
		})
	}
	return docs
}
