package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/reclutador/staffing-api/internal/model"
)

type ShiftDAO struct {
	Logger *slog.Logger
	*DB
}

func NewShiftDAO(logger *slog.Logger, db *DB) *ShiftDAO {
	return &ShiftDAO{
		Logger: logger.With("dao", "shift"),
		DB:     db,
	}
}

func (dao *ShiftDAO) Find(ctx context.Context) ([]model.Shift, error) {
	logger := dao.Logger.With("query", "find")

	query, args, err := dao.Builder.
		Select("*").
		From("shifts").
		OrderBy("start_time ASC", "id ASC").
		ToSql()
	if err != nil {
		return []model.Shift{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	shifts := []model.Shift{}
	if err := dao.SelectContext(ctx, &shifts, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)
		return []model.Shift{}, err
	}

	return shifts, nil
}

func (dao *ShiftDAO) Get(ctx context.Context, id model.ID) (model.Shift, error) {
	query, args, err := dao.Builder.
		Select("*").
		From("shifts").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Shift{}, err
	}

	var shift model.Shift
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&shift); err != nil {
		if IsNoRows(err) {
			return model.Shift{}, model.NewError("shift", model.ErrNotFound)
		}

		return model.Shift{}, err
	}

	return shift, nil
}

type InsertShiftDTO struct {
	Name  string
	Start string
	End   string
}

func (dao *ShiftDAO) Insert(ctx context.Context, dto InsertShiftDTO) (model.ID, error) {
	logger := dao.Logger.With("query", "insert")

	query, args, err := dao.Builder.
		Insert("shifts").
		Columns("name", "start_time", "end_time").
		Values(dto.Name, dto.Start, dto.End).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var id model.ID
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&id); err != nil {
		logger.Warn("failed query execute", "error", err)
		return 0, err
	}

	return id, nil
}

type UpdateShiftDTO struct {
	Name  *string
	Start *string
	End   *string
}

func (dao *ShiftDAO) Update(ctx context.Context, id model.ID, dto UpdateShiftDTO) error {
	data := make(map[string]any, 4)
	data["updated_at"] = time.Now()
	if dto.Name != nil {
		data["name"] = *dto.Name
	}
	if dto.Start != nil {
		data["start_time"] = *dto.Start
	}
	if dto.End != nil {
		data["end_time"] = *dto.End
	}

	query, args, err := dao.Builder.
		Update("shifts").
		SetMap(data).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	if _, err = dao.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	return nil
}

func (dao *ShiftDAO) Delete(ctx context.Context, id model.ID) error {
	logger := dao.Logger.With("query", "delete")

	query, args, err := dao.Builder.
		Delete("shifts").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	logger.Debug("build query", "sql", query, "args", args)

	if _, err = dao.ExecContext(ctx, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)

		if IsForeignKeyViolation(err) {
			return model.NewError("shift", model.ErrInUse)
		}

		return err
	}

	return nil
}
