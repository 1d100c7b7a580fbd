package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Skotchmaster/dojo_backoffice/internal/models"
)

func (r *GormRepo) ListSchedules(ctx context.Context) ([]models.TrainingSchedule, error) {
	out := make([]models.TrainingSchedule, 0)
	if err := r.DB.WithContext(ctx).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return out, nil
}

func (r *GormRepo) CreateSchedule(ctx context.Context, s *models.TrainingSchedule) error {
	if err := r.DB.WithContext(ctx).Create(s).Error; err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}
	return nil
}

func (r *GormRepo) UpdateSchedule(ctx context.Context, id uuid.UUID, patch models.SchedulePatch) (*models.TrainingSchedule, error) {
	updates := map[string]any{}
	if patch.Type != nil {
		updates["type"] = *patch.Type
	}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Days != nil {
		updates["days"] = *patch.Days
	}
	if patch.TimeStart.Set {
		updates["time_start"] = patch.TimeStart.Value
	}
	if patch.TimeEnd.Set {
		updates["time_end"] = patch.TimeEnd.Value
	}
	if patch.AgeGroup.Set {
		updates["age_group"] = patch.AgeGroup.Value
	}
	if patch.Color.Set {
		updates["color"] = patch.Color.Value
	}

	db := r.DB.WithContext(ctx)
	if len(updates) > 0 {
		res := db.Model(&models.TrainingSchedule{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, fmt.Errorf("update schedule: %w", res.Error)
		}
	}

	var s models.TrainingSchedule
	if err := db.Where("id = ?", id).First(&s).Error; err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (r *GormRepo) DeleteSchedule(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.TrainingSchedule{})
	if res.Error != nil {
		return fmt.Errorf("delete schedule: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
