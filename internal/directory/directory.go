package directory

import (
	"context"
	"errors"
)

// Package directory provides read-only access to the external HR employee
// directory. It is consulted only to enrich department-based policy
// decisions, never to authenticate.

// ErrEmployeeNotFound is returned when no employee matches the email.
var ErrEmployeeNotFound = errors.New("employee not found")

// Department is the affiliation record of an employee.
type Department struct {
	EmployeeID int    `json:"employee_id"`
	Email      string `json:"email"`
	ID         *int   `json:"department_id"`
	Name       string `json:"department_name"`
	Code       string `json:"department_code"`
	NameEN     string `json:"department_name_en"`
}

// Directory resolves an employee email to their department affiliation.
type Directory interface {
	DepartmentByEmail(ctx context.Context, email string) (*Department, error)
}
