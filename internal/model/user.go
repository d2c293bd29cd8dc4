package model

import (
	"time"
)

type UserRole string

const (
	Student     UserRole = "student"
	Teacher     UserRole = "teacher"
	SchoolAdmin UserRole = "school_admin"
	Admin       UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	FirstName string    `gorm:"size:100;not null" json:"firstName"`
	LastName  string    `gorm:"size:100;not null" json:"lastName"`
	Email     string    `gorm:"size:100;unique;not null" json:"email"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	Role      UserRole  `gorm:"type:enum('student','teacher','school_admin','admin');default:'teacher'" json:"role"`
	SchoolID  *uint     `gorm:"index" json:"schoolId,omitempty"`
	Disabled  bool      `gorm:"default:false" json:"disabled"`
	LastLogin time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}

type School struct {
	BaseModel
	Name string `gorm:"size:255;not null" json:"name"`
	City string `gorm:"size:100" json:"city"`
}

func (School) TableName() string {
	return "schools"
}
