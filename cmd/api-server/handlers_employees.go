package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/reclutador/staffing-api/internal/ctxstore"
	"github.com/reclutador/staffing-api/internal/database"
	"github.com/reclutador/staffing-api/internal/model"
	"github.com/reclutador/staffing-api/internal/response"
	"github.com/reclutador/staffing-api/internal/uploader"
	"github.com/reclutador/staffing-api/internal/validator"
)

func (app *application) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.logger.With(
		_traceIDKey.String(), ctxstore.MustFrom[string](ctx, _traceIDKey),
	)

	dao := database.NewEmployeeDAO(logger, app.db)

	employees, err := dao.Find(ctx)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"employees": employees}); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.logger.With(
		_traceIDKey.String(), ctxstore.MustFrom[string](ctx, _traceIDKey),
	)

	employeeID, err := idFromRequest(r, "employeeId")
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	dao := database.NewEmployeeDAO(logger, app.db)

	employee, err := dao.Get(ctx, employeeID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			app.errorMessage(w, r, http.StatusNotFound, err.Error(), nil)
			return
		}

		app.serverError(w, r, err)
		return
	}

	docDAO := database.NewEmployeeDocumentDAO(logger, app.db)

	employee.Documents, err = docDAO.FirstPerCategory(ctx, employeeID)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"employee": employee}); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.logger.With(
		_traceIDKey.String(), ctxstore.MustFrom[string](ctx, _traceIDKey),
	)

	if err := r.ParseMultipartForm(_maxMultipartMem); err != nil {
		app.badRequest(w, r, err)
		return
	}

	dto := database.InsertEmployeeDTO{
		Name: formValue(r, "name"),
		Site: optionalFormValue(r, "site"),
		Grp:  optionalFormValue(r, "grp"),
	}

	var v validator.Validator
	v.CheckField(validator.NotBlank(dto.Name), "name", "cannot be blank")

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	files, err := multipartFiles(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	dao := database.NewEmployeeDAO(logger, app.db)

	var stored []uploader.Attachment
	attach := func(ctx context.Context, id model.ID, _ string) ([]database.InsertDocumentDTO, error) {
		// Employees carry no natural key; the generated id anchors the
		// storage path instead.
		atts, err := app.uploader.UploadAll(ctx, "emp-"+strconv.Itoa(int(id)), model.Categories(), files)
		stored = atts
		if err != nil {
			return nil, err
		}

		return attachmentsToDocs(atts), nil
	}

	employeeID, err := dao.Create(ctx, dto, attach)
	if err != nil {
		app.uploader.Sweep(ctx, stored)
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusCreated, response.JSONObject{"ok": true, "id": employeeID}); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.logger.With(
		_traceIDKey.String(), ctxstore.MustFrom[string](ctx, _traceIDKey),
	)

	employeeID, err := idFromRequest(r, "employeeId")
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(_maxMultipartMem); err != nil {
		app.badRequest(w, r, err)
		return
	}

	dao := database.NewEmployeeDAO(logger, app.db)

	if _, err := dao.Get(ctx, employeeID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			app.errorMessage(w, r, http.StatusNotFound, err.Error(), nil)
			return
		}

		app.serverError(w, r, err)
		return
	}

	dto := database.UpdateEmployeeDTO{
		Name: optionalFormValue(r, "name"),
		Site: optionalFormValue(r, "site"),
		Grp:  optionalFormValue(r, "grp"),
	}

	var v validator.Validator
	if dto.Name != nil {
		v.CheckField(validator.NotBlank(*dto.Name), "name", "cannot be blank")
	}

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	if err := dao.Update(ctx, employeeID, dto); err != nil {
		app.serverError(w, r, err)
		return
	}

	files, err := multipartFiles(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	if len(files) > 0 {
		stored, err := app.uploader.UploadAll(ctx, "emp-"+strconv.Itoa(int(employeeID)), model.Categories(), files)
		if err != nil {
			app.uploader.Sweep(ctx, stored)
			app.serverError(w, r, err)
			return
		}

		docDAO := database.NewEmployeeDocumentDAO(logger, app.db)
		if err := docDAO.InsertMany(ctx, app.db, employeeID, attachmentsToDocs(stored)); err != nil {
			app.uploader.Sweep(ctx, stored)
			app.serverError(w, r, err)
			return
		}
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"ok": true}); err != nil {
		app.serverError(w, r, err)
	}
}
