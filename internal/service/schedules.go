package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/dojo_backoffice/internal/logging"
	"github.com/Skotchmaster/dojo_backoffice/internal/models"
)

// ScheduleService manages training schedules, the shared site content gated to admins.
type ScheduleService struct {
	Store ScheduleStore
}

type NewSchedule struct {
	Type      string
	Title     string
	TimeStart *string
	TimeEnd   *string
	Days      string
	AgeGroup  *string
	Color     *string
}

func (s *ScheduleService) List(ctx context.Context) ([]models.TrainingSchedule, error) {
	out, err := s.Store.ListSchedules(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("list_schedules_error", "status", 500, "error", err)
		return nil, storeErr("list schedules", err)
	}
	return out, nil
}

func (s *ScheduleService) Create(ctx context.Context, actor *Identity, in NewSchedule) (*models.TrainingSchedule, error) {
	l := logging.FromContext(ctx).With("svc", "schedules.create")

	if err := Authorize(actor, Action{Capability: CapabilityAdminOnly}); err != nil {
		l.Warn("create_schedule_denied", "status", 403, "error", err)
		return nil, err
	}
	if err := validateScheduleType(in.Type); err != nil {
		return nil, err
	}
	if err := requireText("title", in.Title, 200); err != nil {
		return nil, err
	}
	if err := requireText("days", in.Days, 100); err != nil {
		return nil, err
	}
	if err := validateClock("time_start", in.TimeStart); err != nil {
		return nil, err
	}
	if err := validateClock("time_end", in.TimeEnd); err != nil {
		return nil, err
	}

	sched := &models.TrainingSchedule{
		Type:      in.Type,
		Title:     strings.TrimSpace(in.Title),
		TimeStart: in.TimeStart,
		TimeEnd:   in.TimeEnd,
		Days:      strings.TrimSpace(in.Days),
		AgeGroup:  in.AgeGroup,
		Color:     in.Color,
	}
	if err := s.Store.CreateSchedule(ctx, sched); err != nil {
		l.Error("create_schedule_error", "status", 500, "error", err)
		return nil, storeErr("create schedule", err)
	}
	l.Info("create_schedule_success", "schedule_id", sched.ID)
	return sched, nil
}

func (s *ScheduleService) Update(ctx context.Context, actor *Identity, id uuid.UUID, patch models.SchedulePatch) (*models.TrainingSchedule, error) {
	l := logging.FromContext(ctx).With("svc", "schedules.update", "schedule_id", id)

	if err := Authorize(actor, Action{Capability: CapabilityAdminOnly}); err != nil {
		l.Warn("update_schedule_denied", "status", 403, "error", err)
		return nil, err
	}
	if patch.Empty() {
		return nil, validationf("no fields to update")
	}
	if patch.Type != nil {
		if err := validateScheduleType(*patch.Type); err != nil {
			return nil, err
		}
	}
	if patch.Title != nil {
		if err := requireText("title", *patch.Title, 200); err != nil {
			return nil, err
		}
		title := strings.TrimSpace(*patch.Title)
		patch.Title = &title
	}
	if patch.Days != nil {
		if err := requireText("days", *patch.Days, 100); err != nil {
			return nil, err
		}
		days := strings.TrimSpace(*patch.Days)
		patch.Days = &days
	}
	if err := validateClock("time_start", patch.TimeStart.Value); err != nil {
		return nil, err
	}
	if err := validateClock("time_end", patch.TimeEnd.Value); err != nil {
		return nil, err
	}

	sched, err := s.Store.UpdateSchedule(ctx, id, patch)
	if err != nil {
		err = mapRepoErr("update schedule", err)
		if !errors.Is(err, ErrNotFound) {
			l.Error("update_schedule_error", "status", 500, "error", err)
		}
		return nil, err
	}
	l.Info("update_schedule_success")
	return sched, nil
}

func (s *ScheduleService) Delete(ctx context.Context, actor *Identity, id uuid.UUID) error {
	l := logging.FromContext(ctx).With("svc", "schedules.delete", "schedule_id", id)

	if err := Authorize(actor, Action{Capability: CapabilityAdminOnly}); err != nil {
		l.Warn("delete_schedule_denied", "status", 403, "error", err)
		return err
	}
	if err := s.Store.DeleteSchedule(ctx, id); err != nil {
		err = mapRepoErr("delete schedule", err)
		if !errors.Is(err, ErrNotFound) {
			l.Error("delete_schedule_error", "status", 500, "error", err)
		}
		return err
	}
	l.Info("delete_schedule_success")
	return nil
}
