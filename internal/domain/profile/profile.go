package profile

import (
	"github.com/google/uuid"
)

// Role values carried in access tokens.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// Student is a student profile joined with its owning user account. NumPoints
// is the billing-relevant point balance; every mutation of it goes through an
// atomic increment in the repository, never a read-then-write.
type Student struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	LastName  string
	FirstName string
	NumPoints int
	Email     string
	TimeZone  string
}

// Teacher is a teacher profile joined with its owning user account.
type Teacher struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	LastName  string
	FirstName string
	Email     string
	TimeZone  string
}

// FullName renders the profile name in family-name-first order, matching the
// member-facing mail templates.
func (s *Student) FullName() string {
	return s.LastName + " " + s.FirstName
}
