package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID          int64      `json:"id" db:"id" example:"1"`
	Username    string     `json:"username" db:"username" example:"jdoe"`
	Email       string     `json:"email" db:"email" example:"jdoe@university.edu"`
	Password    string     `json:"-" db:"password"` // hashed, excluded from JSON
	FirstName   string     `json:"firstName" db:"first_name" example:"John"`
	LastName    string     `json:"lastName" db:"last_name" example:"Doe"`
	Role        Role       `json:"role" db:"role" example:"student"`
	StudentID   *string    `json:"studentId,omitempty" db:"student_id" example:"S2025001"`
	ProfessorID *string    `json:"professorId,omitempty" db:"professor_id" example:"P1001"`
	IsActive    bool       `json:"isActive" db:"is_active" example:"true"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
}

// ValidateRoleIdentifiers enforces the role/identifier pairing: students carry
// a student number, professors a professor number, admins neither.
func (u *User) ValidateRoleIdentifiers() error {
	switch u.Role {
	case RoleStudent:
		if u.StudentID == nil || *u.StudentID == "" {
			return ErrStudentIDRequired
		}
	case RoleProfessor:
		if u.ProfessorID == nil || *u.ProfessorID == "" {
			return ErrProfessorIDRequired
		}
	case RoleAdmin:
		if u.StudentID != nil || u.ProfessorID != nil {
			return ErrAdminHasIdentifier
		}
	}
	return nil
}

// RefreshToken defines a persisted, revocable refresh token
type RefreshToken struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Token     string    `json:"token" db:"token"`
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`
	Revoked   bool      `json:"revoked" db:"revoked"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
