package transport

import (
	"time"

	"github.com/Skotchmaster/dojo_backoffice/internal/models"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AddUserRequest struct {
	Username         string              `json:"username"`
	Password         string              `json:"password"`
	Role             string              `json:"role"`
	IsSubscribed     bool                `json:"is_subscribed"`
	SubscriptionDate models.NullableDate `json:"subscription_date"`
	NextBillDate     models.NullableDate `json:"next_bill_date"`
}

type UpdateUserRequest struct {
	Username         *string             `json:"username"`
	Role             *string             `json:"role"`
	IsSubscribed     *bool               `json:"is_subscribed"`
	SubscriptionDate models.NullableDate `json:"subscription_date"`
	NextBillDate     models.NullableDate `json:"next_bill_date"`
	Password         *string             `json:"password"`
}

type ScheduleRequest struct {
	Type      *string               `json:"type"`
	Title     *string               `json:"title"`
	TimeStart models.NullableString `json:"time_start"`
	TimeEnd   models.NullableString `json:"time_end"`
	Days      *string               `json:"days"`
	AgeGroup  models.NullableString `json:"age_group"`
	Color     models.NullableString `json:"color"`
}

func (r ScheduleRequest) Patch() models.SchedulePatch {
	return models.SchedulePatch{
		Type:      r.Type,
		Title:     r.Title,
		TimeStart: r.TimeStart,
		TimeEnd:   r.TimeEnd,
		Days:      r.Days,
		AgeGroup:  r.AgeGroup,
		Color:     r.Color,
	}
}

// UserView is the public shape of an account. It has no credential fields.
type UserView struct {
	UserID           string              `json:"user_id"`
	Username         string              `json:"username"`
	Role             models.Role         `json:"role"`
	IsSubscribed     bool                `json:"is_subscribed"`
	SubscriptionDate models.NullableDate `json:"subscription_date"`
	NextBillDate     models.NullableDate `json:"next_bill_date"`
	CreatedAt        time.Time           `json:"created_at"`
}

func NewUserView(a *models.Account) UserView {
	return UserView{
		UserID:           a.ID.String(),
		Username:         a.Username,
		Role:             a.Role,
		IsSubscribed:     a.IsSubscribed,
		SubscriptionDate: models.NullableDate{Set: true, Time: a.SubscriptionDate},
		NextBillDate:     models.NullableDate{Set: true, Time: a.NextBillDate},
		CreatedAt:        a.CreatedAt.UTC(),
	}
}

func NewUserViews(accounts []models.Account) []UserView {
	out := make([]UserView, 0, len(accounts))
	for i := range accounts {
		out = append(out, NewUserView(&accounts[i]))
	}
	return out
}

type LoginResponse struct {
	Success      bool      `json:"success"`
	User         UserView  `json:"user"`
	SessionToken string    `json:"sessionToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

type SessionResponse struct {
	Success   bool      `json:"success"`
	User      UserView  `json:"user"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type UserResponse struct {
	Success bool     `json:"success"`
	User    UserView `json:"user"`
}

type UsersResponse struct {
	Success bool       `json:"success"`
	Users   []UserView `json:"users"`
	Total   int64      `json:"total"`
}

type ScheduleResponse struct {
	Success  bool                     `json:"success"`
	ID       string                   `json:"id"`
	Schedule *models.TrainingSchedule `json:"schedule"`
}

type SchedulesResponse struct {
	Success   bool                      `json:"success"`
	Schedules []models.TrainingSchedule `json:"schedules"`
}

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}
