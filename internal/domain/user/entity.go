package user

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"    // Reviews leave requests and attendance
	RoleEmployee Role = "employee" // Submits leave requests
)

// ParseRole accepts the canonical role names plus the Indonesian "karyawan".
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleEmployee, "karyawan":
		return RoleEmployee, true
	}
	return "", false
}

type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin checks if user can review requests and attendance
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
