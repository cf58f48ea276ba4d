package users

import (
	"strings"
	"time"

	"tikidan/internal/domain/rbac"
)

const (
	ReportingSelf       = "self"
	ReportingManager    = "manager"
	ReportingSupervisor = "supervisor"
	ReportingDirector   = "director"
)

var ReportingValues = []string{"", ReportingSelf, ReportingManager, ReportingSupervisor, ReportingDirector}

type Employee struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	PasswordHash      string    `json:"-"`
	Role              string    `json:"role"`
	EmployeeID        string    `json:"employeeId"`
	FirstName         string    `json:"firstName"`
	LastName          string    `json:"lastName"`
	Designation       string    `json:"designation"`
	Mobile            string    `json:"mobile"`
	Department        string    `json:"department"`
	Reporting         string    `json:"reporting"`
	ReportsTo         string    `json:"reportsTo,omitempty"`
	AddressLine1      string    `json:"addressLine1"`
	AddressLine2      string    `json:"addressLine2"`
	City              string    `json:"city"`
	State             string    `json:"state"`
	Country           string    `json:"country"`
	CustomPermissions []string  `json:"customPermissions"`
	CreatedAt         time.Time `json:"createdAt"`
}

// Access is the view of the record that access decisions use.
func (e Employee) Access() rbac.User {
	return rbac.User{
		ID:                e.ID,
		Role:              e.Role,
		Department:        e.Department,
		CustomPermissions: e.CustomPermissions,
		ReportsTo:         e.ReportsTo,
	}
}

// Summary is the compact row used by dropdowns and team listings.
type Summary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Designation string `json:"designation"`
	Role        string `json:"role"`
	EmployeeID  string `json:"employeeId"`
}

func (e Employee) Summary() Summary {
	return Summary{
		ID:          e.ID,
		Name:        e.DisplayName(),
		Email:       e.Email,
		Designation: e.Designation,
		Role:        e.Role,
		EmployeeID:  e.EmployeeID,
	}
}

// DisplayName prefers the stored name, then first/last, then the email.
func (e Employee) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	if full := strings.TrimSpace(e.FirstName + " " + e.LastName); full != "" {
		return full
	}
	return e.Email
}

func composeName(first, last, email string) string {
	if full := strings.TrimSpace(first + " " + last); full != "" {
		return full
	}
	local, _, _ := strings.Cut(email, "@")
	return local
}
