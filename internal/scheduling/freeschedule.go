package scheduling

import (
	"context"
	"errors"
	"slices"

	"tutor-scheduling-api/internal/model"
	"tutor-scheduling-api/internal/store"
)

const DefaultWeek = "6"

func (e *Engine) SaveFreeSchedule(ctx context.Context, tutorID, week string, cells []string, note string) (model.FreeSchedule, error) {
	if week == "" {
		week = DefaultWeek
	}
	fs := model.FreeSchedule{TutorID: tutorID, Week: week, Cells: slices.Clone(cells), Note: note}
	if fs.Cells == nil {
		fs.Cells = []string{}
	}
	err := e.write(ctx, func(ctx context.Context, tx store.Tx) error {
		return tx.PutFreeSchedule(ctx, fs)
	})
	if err != nil {
		return model.FreeSchedule{}, err
	}
	return fs, nil
}

// GetFreeSchedule never reports NotFound; an unpublished week is empty.
func (e *Engine) GetFreeSchedule(ctx context.Context, tutorID, week string) (model.FreeSchedule, error) {
	if week == "" {
		week = DefaultWeek
	}
	fs, err := e.store.GetFreeSchedule(ctx, tutorID, week)
	if errors.Is(err, store.ErrNotFound) {
		return model.FreeSchedule{TutorID: tutorID, Week: week, Cells: []string{}}, nil
	}
	return fs, err
}
