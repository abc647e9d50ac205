package main

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/reclutador/staffing-api/internal/ctxstore"
	"github.com/reclutador/staffing-api/internal/database"
	"github.com/reclutador/staffing-api/internal/model"
	"github.com/reclutador/staffing-api/internal/request"
	"github.com/reclutador/staffing-api/internal/response"
	"github.com/reclutador/staffing-api/internal/slug"
	"github.com/reclutador/staffing-api/internal/validator"
)

func (app *application) handleListSites(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.logger.With(
		_traceIDKey.String(), ctxstore.MustFrom[string](ctx, _traceIDKey),
	)

	dao := database.NewSiteDAO(logger, app.db)

	sites, err := dao.Find(ctx)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"sites": sites}); err != nil {
		app.serverError(w, r, err)
	}
}

type requestCreateSite struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

func (app *application) handleCreateSite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.logger.With(
		_traceIDKey.String(), ctxstore.MustFrom[string](ctx, _traceIDKey),
	)

	var input requestCreateSite
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	v.CheckField(validator.NotBlank(input.Name), "name", "cannot be blank")

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	dao := database.NewSiteDAO(logger, app.db)

	code := input.Code
	if code == "" {
		var err error
		code, err = slug.Unique(ctx, input.Name, dao.CodeExists)
		if err != nil {
			if errors.Is(err, slug.ErrEmpty) {
				app.errorMessage(w, r, http.StatusBadRequest, err.Error(), nil)
				return
			}

			app.serverError(w, r, err)
			return
		}
	}

	siteID, err := dao.Insert(ctx, database.InsertSiteDTO{Code: code, Name: input.Name})
	if err != nil {
		if errors.Is(err, model.ErrExists) {
			app.errorMessage(w, r, http.StatusConflict, err.Error(), nil)
			return
		}

		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusCreated, response.JSONObject{"ok": true, "id": siteID, "code": code}); err != nil {
		app.serverError(w, r, err)
	}
}

type requestUpdateSite struct {
	Name *string `json:"name"`
}

func (app *application) handleUpdateSite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.logger.With(
		_traceIDKey.String(), ctxstore.MustFrom[string](ctx, _traceIDKey),
	)

	siteID, err := idFromRequest(r, "siteId")
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	var input requestUpdateSite
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	dao := database.NewSiteDAO(logger, app.db)

	if _, err := dao.Get(ctx, siteID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			app.errorMessage(w, r, http.StatusNotFound, err.Error(), nil)
			return
		}

		app.serverError(w, r, err)
		return
	}

	if err := dao.Update(ctx, siteID, database.UpdateSiteDTO{Name: input.Name}); err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"ok": true}); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleDeleteSite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.logger.With(
		_traceIDKey.String(), ctxstore.MustFrom[string](ctx, _traceIDKey),
	)

	siteID, err := idFromRequest(r, "siteId")
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	dao := database.NewSiteDAO(logger, app.db)

	if _, err := dao.Get(ctx, siteID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			app.errorMessage(w, r, http.StatusNotFound, err.Error(), nil)
			return
		}

		app.serverError(w, r, err)
		return
	}

	if err := dao.Delete(ctx, siteID); err != nil {
		if errors.Is(err, model.ErrInUse) {
			app.errorMessage(w, r, http.StatusConflict, err.Error(), nil)
			return
		}

		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"ok": true}); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleListProjects(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.logger.With(
		_traceIDKey.String(), ctxstore.MustFrom[string](ctx, _traceIDKey),
	)

	dao := database.NewProjectDAO(logger, app.db)

	projects, err := dao.Find(ctx)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"projects": projects}); err != nil {
		app.serverError(w, r, err)
	}
}

type requestCreateProject struct {
	Name   string   `json:"name"`
	Code   string   `json:"code"`
	SiteID model.ID `json:"siteId"`
}

func (app *application) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.logger.With(
		_traceIDKey.String(), ctxstore.MustFrom[string](ctx, _traceIDKey),
	)

	var input requestCreateProject
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	v.CheckField(validator.NotBlank(input.Name), "name", "cannot be blank")
	v.CheckField(input.SiteID != 0, "siteId", "cannot be blank")

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	dao := database.NewProjectDAO(logger, app.db)

	code := input.Code
	if code == "" {
		var err error
		code, err = slug.Unique(ctx, input.Name, dao.CodeExists)
		if err != nil {
			if errors.Is(err, slug.ErrEmpty) {
				app.errorMessage(w, r, http.StatusBadRequest, err.Error(), nil)
				return
			}

			app.serverError(w, r, err)
			return
		}
	}

	projectID, err := dao.Insert(ctx, database.InsertProjectDTO{
		Code: code,
		Name: input.Name,
		Site: input.SiteID,
	})
	if err != nil {
		switch {
		case errors.Is(err, model.ErrExists):
			app.errorMessage(w, r, http.StatusConflict, err.Error(), nil)
		case errors.Is(err, model.ErrNotFound):
			app.errorMessage(w, r, http.StatusNotFound, err.Error(), nil)
		default:
			app.serverError(w, r, err)
		}
		return
	}

	if err := response.JSON(w, http.StatusCreated, response.JSONObject{"ok": true, "id": projectID, "code": code}); err != nil {
		app.serverError(w, r, err)
	}
}

type requestUpdateProject struct {
	Name   *string   `json:"name"`
	SiteID *model.ID `json:"siteId"`
}

func (app *application) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.logger.With(
		_traceIDKey.String(), ctxstore.MustFrom[string](ctx, _traceIDKey),
	)

	projectID, err := idFromRequest(r, "projectId")
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	var input requestUpdateProject
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	dao := database.NewProjectDAO(logger, app.db)

	if _, err := dao.Get(ctx, projectID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			app.errorMessage(w, r, http.StatusNotFound, err.Error(), nil)
			return
		}

		app.serverError(w, r, err)
		return
	}

	err = dao.Update(ctx, projectID, database.UpdateProjectDTO{
		Name: input.Name,
		Site: input.SiteID,
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			app.errorMessage(w, r, http.StatusNotFound, err.Error(), nil)
			return
		}

		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"ok": true}); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.logger.With(
		_traceIDKey.String(), ctxstore.MustFrom[string](ctx, _traceIDKey),
	)

	projectID, err := idFromRequest(r, "projectId")
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	dao := database.NewProjectDAO(logger, app.db)

	if _, err := dao.Get(ctx, projectID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			app.errorMessage(w, r, http.StatusNotFound, err.Error(), nil)
			return
		}

		app.serverError(w, r, err)
		return
	}

	if err := dao.Delete(ctx, projectID); err != nil {
		if errors.Is(err, model.ErrInUse) {
			app.errorMessage(w, r, http.StatusConflict, err.Error(), nil)
			return
		}

		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"ok": true}); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleListShifts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.logger.With(
		_traceIDKey.String(), ctxstore.MustFrom[string](ctx, _traceIDKey),
	)

	dao := database.NewShiftDAO(logger, app.db)

	shifts, err := dao.Find(ctx)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"shifts": shifts}); err != nil {
		app.serverError(w, r, err)
	}
}

type requestCreateShift struct {
	Name  string `json:"name"`
	Start string `json:"start"`
	End   string `json:"end"`
}

func (app *application) handleCreateShift(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.logger.With(
		_traceIDKey.String(), ctxstore.MustFrom[string](ctx, _traceIDKey),
	)

	var input requestCreateShift
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	validateShiftTimes(&v, input.Name, input.Start, input.End)

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	dao := database.NewShiftDAO(logger, app.db)

	shiftID, err := dao.Insert(ctx, database.InsertShiftDTO{
		Name:  input.Name,
		Start: input.Start,
		End:   input.End,
	})
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusCreated, response.JSONObject{"ok": true, "id": shiftID}); err != nil {
		app.serverError(w, r, err)
	}
}

type requestUpdateShift struct {
	Name  *string `json:"name"`
	Start *string `json:"start"`
	End   *string `json:"end"`
}

func (app *application) handleUpdateShift(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.logger.With(
		_traceIDKey.String(), ctxstore.MustFrom[string](ctx, _traceIDKey),
	)

	shiftID, err := idFromRequest(r, "shiftId")
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	var input requestUpdateShift
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	if input.Start != nil {
		v.CheckField(validTimeOfDay(*input.Start), "start", "must be HH:MM")
	}
	if input.End != nil {
		v.CheckField(validTimeOfDay(*input.End), "end", "must be HH:MM")
	}

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	dao := database.NewShiftDAO(logger, app.db)

	if _, err := dao.Get(ctx, shiftID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			app.errorMessage(w, r, http.StatusNotFound, err.Error(), nil)
			return
		}

		app.serverError(w, r, err)
		return
	}

	err = dao.Update(ctx, shiftID, database.UpdateShiftDTO{
		Name:  input.Name,
		Start: input.Start,
		End:   input.End,
	})
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"ok": true}); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleDeleteShift(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.logger.With(
		_traceIDKey.String(), ctxstore.MustFrom[string](ctx, _traceIDKey),
	)

	shiftID, err := idFromRequest(r, "shiftId")
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	dao := database.NewShiftDAO(logger, app.db)

	if _, err := dao.Get(ctx, shiftID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			app.errorMessage(w, r, http.StatusNotFound, err.Error(), nil)
			return
		}

		app.serverError(w, r, err)
		return
	}

	if err := dao.Delete(ctx, shiftID); err != nil {
		if errors.Is(err, model.ErrInUse) {
			app.errorMessage(w, r, http.StatusConflict, err.Error(), nil)
			return
		}

		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"ok": true}); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleGetEmployer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.logger.With(
		_traceIDKey.String(), ctxstore.MustFrom[string](ctx, _traceIDKey),
	)

	dao := database.NewEmployerDAO(logger, app.db)

	employer, err := dao.GetFirst(ctx)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			app.errorMessage(w, r, http.StatusNotFound, err.Error(), nil)
			return
		}

		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"employer": employer}); err != nil {
		app.serverError(w, r, err)
	}
}

type requestUpdateEmployer struct {
	Name    *string `json:"name"`
	TaxID   *string `json:"taxId"`
	Address *string `json:"address"`
}

func (app *application) handleUpdateEmployer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.logger.With(
		_traceIDKey.String(), ctxstore.MustFrom[string](ctx, _traceIDKey),
	)

	var input requestUpdateEmployer
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	dao := database.NewEmployerDAO(logger, app.db)

	employer, err := dao.Update(ctx, database.UpsertEmployerDTO{
		Name:    input.Name,
		TaxID:   input.TaxID,
		Address: input.Address,
	})
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"ok": true, "employer": employer}); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleListTaxRegimes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.logger.With(
		_traceIDKey.String(), ctxstore.MustFrom[string](ctx, _traceIDKey),
	)

	dao := database.NewTaxRegimeDAO(logger, app.db)

	regimes, err := dao.Find(ctx)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"taxRegimes": regimes}); err != nil {
		app.serverError(w, r, err)
	}
}

// resolveEmployer loads the employer profile for the regime endpoints,
// writing the error response itself when there is none.
func (app *application) resolveEmployer(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (model.Employer, bool) {
	dao := database.NewEmployerDAO(logger, app.db)

	employer, err := dao.GetFirst(r.Context())
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			app.errorMessage(w, r, http.StatusNotFound, err.Error(), nil)
		} else {
			app.serverError(w, r, err)
		}

		return model.Employer{}, false
	}

	return employer, true
}

func (app *application) handleCurrentRegime(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.logger.With(
		_traceIDKey.String(), ctxstore.MustFrom[string](ctx, _traceIDKey),
	)

	employer, ok := app.resolveEmployer(w, r, logger)
	if !ok {
		return
	}

	dao := database.NewRegimeHistoryDAO(logger, app.db)

	period, err := dao.Current(ctx, employer.ID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			app.errorMessage(w, r, http.StatusNotFound, err.Error(), nil)
			return
		}

		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"regime": period}); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleRegimeHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.logger.With(
		_traceIDKey.String(), ctxstore.MustFrom[string](ctx, _traceIDKey),
	)

	employer, ok := app.resolveEmployer(w, r, logger)
	if !ok {
		return
	}

	dao := database.NewRegimeHistoryDAO(logger, app.db)

	periods, err := dao.History(ctx, employer.ID)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"history": periods}); err != nil {
		app.serverError(w, r, err)
	}
}

type requestTransitionRegime struct {
	RegimeID      model.ID `json:"regimeId"`
	EffectiveFrom string   `json:"effectiveFrom"`
}

func (app *application) handleTransitionRegime(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.logger.With(
		_traceIDKey.String(), ctxstore.MustFrom[string](ctx, _traceIDKey),
	)

	var input requestTransitionRegime
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	v.CheckField(input.RegimeID != 0, "regimeId", "cannot be blank")

	var effective time.Time
	if input.EffectiveFrom != "" {
		var err error
		effective, err = time.Parse(_dateParamLayout, input.EffectiveFrom)
		v.CheckField(err == nil, "effectiveFrom", "must be a YYYY-MM-DD date")
	}

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	regimeDAO := database.NewTaxRegimeDAO(logger, app.db)
	if _, err := regimeDAO.Get(ctx, input.RegimeID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			app.errorMessage(w, r, http.StatusNotFound, err.Error(), nil)
			return
		}

		app.serverError(w, r, err)
		return
	}

	employer, ok := app.resolveEmployer(w, r, logger)
	if !ok {
		return
	}

	dao := database.NewRegimeHistoryDAO(logger, app.db)

	period, err := dao.Transition(ctx, database.TransitionDTO{
		Employer:      employer.ID,
		Regime:        input.RegimeID,
		EffectiveFrom: effective,
	})
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalid):
			app.badRequest(w, r, err)
		case errors.Is(err, model.ErrNotFound):
			app.errorMessage(w, r, http.StatusNotFound, err.Error(), nil)
		case errors.Is(err, model.ErrExists):
			app.errorMessage(w, r, http.StatusConflict, err.Error(), nil)
		default:
			app.serverError(w, r, err)
		}
		return
	}

	if err := response.JSON(w, http.StatusCreated, response.JSONObject{"ok": true, "regime": period}); err != nil {
		app.serverError(w, r, err)
	}
}
