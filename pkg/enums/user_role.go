package enums

import "fmt"

// UserRole gates the classroom management endpoints.
type UserRole string

const (
	UserRoleAdmin   UserRole = "admin"
	UserRoleTeacher UserRole = "teacher"
	UserRoleStudent UserRole = "student"
)

var validUserRoles = []UserRole{UserRoleAdmin, UserRoleTeacher, UserRoleStudent}

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// CanManageUsers reports whether the role may create users and change quotas.
func (r UserRole) CanManageUsers() bool {
	return r == UserRoleAdmin || r == UserRoleTeacher
}

func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
