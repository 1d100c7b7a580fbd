package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

type Account struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"              json:"user_id"`
	Username         string     `gorm:"size:50;uniqueIndex;not null"      json:"username"`
	Role             Role       `gorm:"size:16;not null;default:user"     json:"role"`
	IsSubscribed     bool       `gorm:"not null;default:false"            json:"is_subscribed"`
	SubscriptionDate *time.Time `                                         json:"subscription_date"`
	NextBillDate     *time.Time `                                         json:"next_bill_date"`
	CreatedAt        time.Time  `gorm:"index"                             json:"created_at"`
	UpdatedAt        time.Time  `                                         json:"updated_at"`

	Credential *Credential `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE" json:"-"`
	Sessions   []Session   `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE" json:"-"`
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

type Credential struct {
	AccountID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	PasswordHash string    `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session rows are keyed by the SHA-256 of the issued token, never the token itself.
type Session struct {
	TokenHash string    `gorm:"size:64;primaryKey"`
	AccountID uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedAt time.Time
	ExpiresAt int64 `gorm:"index;not null"`
}

func (s *Session) Expiry() time.Time {
	return time.Unix(s.ExpiresAt, 0).UTC()
}

// AccountPatch carries the fields of an account update. Nil pointers and
// unset dates are left untouched.
type AccountPatch struct {
	Username         *string
	Role             *Role
	IsSubscribed     *bool
	SubscriptionDate NullableDate
	NextBillDate     NullableDate
	PasswordHash     *string
}

func (p AccountPatch) Empty() bool {
	return p.Username == nil && p.Role == nil && p.IsSubscribed == nil &&
		!p.SubscriptionDate.Set && !p.NextBillDate.Set && p.PasswordHash == nil
}

type TrainingSchedule struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Type      string    `gorm:"size:16;not null"     json:"type"`
	Title     string    `gorm:"size:200;not null"    json:"title"`
	TimeStart *string   `gorm:"size:8"               json:"time_start"`
	TimeEnd   *string   `gorm:"size:8"               json:"time_end"`
	Days      string    `gorm:"size:100;not null"    json:"days"`
	AgeGroup  *string   `gorm:"size:50"              json:"age_group"`
	Color     *string   `gorm:"size:32"              json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *TrainingSchedule) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (TrainingSchedule) TableName() string {
	return "training_schedules"
}

// All lists every persisted model in migration order.
func All() []any {
	return []any{&Account{}, &Credential{}, &Session{}, &TrainingSchedule{}}
}

const (
	ScheduleTypePrivate = "private"
	ScheduleTypeGroup   = "group"
)

// SchedulePatch mirrors AccountPatch for training schedules.
type SchedulePatch struct {
	Type      *string
	Title     *string
	TimeStart NullableString
	TimeEnd   NullableString
	Days      *string
	AgeGroup  NullableString
	Color     NullableString
}

func (p SchedulePatch) Empty() bool {
	return p.Type == nil && p.Title == nil && p.Days == nil &&
		!p.TimeStart.Set && !p.TimeEnd.Set && !p.AgeGroup.Set && !p.Color.Set
}
