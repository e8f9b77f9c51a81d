package domain

import "strings"

// Role is the account type of a user, fixed when the user is created.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	// RoleService is held by API-key callers acting on behalf of a teacher.
	RoleService Role = "service"
)

// EmailPolicy classifies accounts by the domain suffix of their email.
type EmailPolicy struct {
	StudentSuffix string
	TeacherSuffix string
}

// DefaultEmailPolicy matches the school board's account domains.
var DefaultEmailPolicy = EmailPolicy{
	StudentSuffix: "@student.tdsb.on.ca",
	TeacherSuffix: "@tdsb.on.ca",
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Classify returns the role implied by email. The student suffix is checked
// first so a configuration where it ends with the teacher suffix still works.
func (p EmailPolicy) Classify(email string) (Role, bool) {
	email = NormalizeEmail(email)
	switch {
	case p.StudentSuffix != "" && strings.HasSuffix(email, strings.ToLower(p.StudentSuffix)):
		return RoleStudent, true
	case p.TeacherSuffix != "" && strings.HasSuffix(email, strings.ToLower(p.TeacherSuffix)):
		return RoleTeacher, true
	}
	return "", false
}
