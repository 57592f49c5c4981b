package model

import "time"

type UserRole string

const (
	Admin   UserRole = "ADMIN"
	Trainee UserRole = "STAGIAIRE"
)

// swagger:model User
type User struct {
	BaseModel
	LastName  string     `gorm:"size:120;not null" json:"lastName"`
	FirstName string     `gorm:"size:120;not null" json:"firstName"`
	Login     string     `gorm:"size:120;uniqueIndex;not null" json:"login"`
	Email     string     `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Password  string     `gorm:"size:255;not null" json:"-"`
	Role      UserRole   `gorm:"size:10;not null" json:"role"`
	IsActive  bool       `gorm:"default:true" json:"isActive"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == Admin
}

// TraineeProfile extends a STAGIAIRE user with training-specific data. One
// profile per user; attempts hang off the profile, not the user.
type TraineeProfile struct {
	BaseModel
	UserID  uint   `gorm:"uniqueIndex;type:bigint unsigned;not null" json:"userId"`
	Company string `gorm:"size:180" json:"company,omitempty"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (TraineeProfile) TableName() string {
	return "trainee_profiles"
}
