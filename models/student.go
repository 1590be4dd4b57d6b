package models

import "time"

type Student struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	Name          string     `json:"name" gorm:"size:100;not null"`
	Email         string     `json:"email" gorm:"uniqueIndex;size:100;not null"`
	Phone         *string    `json:"phone" gorm:"size:20"`
	Course        *string    `json:"course" gorm:"size:100"`
	EnrolmentDate *time.Time `json:"enrolment_date"`
	IsActive      bool       `json:"is_active" gorm:"not null;default:true"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
