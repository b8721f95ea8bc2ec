package model

import (
	"time"

	"github.com/google/uuid"
)

// Account is a faculty or student login. Department applies to faculty only,
// RollNumber and Class to students only.
type Account struct {
	ID           uuid.UUID `json:"id"`
	Role         Role      `json:"role"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Department   string    `json:"department,omitempty"`
	RollNumber   string    `json:"rollNumber,omitempty"`
	Class        string    `json:"class,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Profile carries the identity attributes supplied at registration.
type Profile struct {
	Name       string
	Email      string
	Department string
	RollNumber string
	Class      string
}

// FacultyRegisterRequest is the payload for faculty self-registration.
type FacultyRegisterRequest struct {
	Name       string `json:"name" binding:"required,notblank,max=100"`
	Email      string `json:"email" binding:"required,email,max=255"`
	Password   string `json:"password" binding:"required,min=6,maxbytes=72"`
	Department string `json:"department" binding:"omitempty,max=100"`
}

// Profile maps the request onto the registration profile.
func (r FacultyRegisterRequest) Profile() Profile {
	return Profile{Name: r.Name, Email: r.Email, Department: r.Department}
}

// StudentRegisterRequest is the payload for student self-registration.
type StudentRegisterRequest struct {
	Name       string `json:"name" binding:"required,notblank,max=100"`
	RollNumber string `json:"rollNumber" binding:"omitempty,max=50"`
	Email      string `json:"email" binding:"required,email,max=255"`
	Password   string `json:"password" binding:"required,min=6,maxbytes=72"`
	Class      string `json:"class" binding:"omitempty,max=50"`
}

// Profile maps the request onto the registration profile.
func (r StudentRegisterRequest) Profile() Profile {
	return Profile{Name: r.Name, Email: r.Email, RollNumber: r.RollNumber, Class: r.Class}
}

// LoginRequest is shared by faculty and student login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=128"`
}
