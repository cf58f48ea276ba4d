package users

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"tikidan/internal/domain/auth"
	"tikidan/internal/domain/rbac"
)

type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type EmployeeInput struct {
	Email             string   `json:"email" validate:"required,email"`
	Password          string   `json:"password" validate:"required,min=6"`
	Role              string   `json:"role" validate:"required"`
	EmployeeID        string   `json:"employeeId" validate:"max=64"`
	FirstName         string   `json:"firstName" validate:"required,max=100"`
	LastName          string   `json:"lastName" validate:"max=100"`
	Designation       string   `json:"designation" validate:"max=100"`
	Mobile            string   `json:"mobile" validate:"max=32"`
	Department        string   `json:"department"`
	Reporting         string   `json:"reporting"`
	ReportsTo         string   `json:"reportsTo" validate:"omitempty,uuid"`
	AddressLine1      string   `json:"addressLine1"`
	AddressLine2      string   `json:"addressLine2"`
	City              string   `json:"city"`
	State             string   `json:"state"`
	Country           string   `json:"country"`
	CustomPermissions []string `json:"customPermissions"`
}

// UpdateInput is a partial update; nil fields are left unchanged. An empty
// ReportsTo clears the manager and an empty CustomPermissions list returns the
// user to role-based access.
type UpdateInput struct {
	Email             *string   `json:"email" validate:"omitempty,email"`
	Password          *string   `json:"password" validate:"omitempty,min=6"`
	Role              *string   `json:"role"`
	EmployeeID        *string   `json:"employeeId" validate:"omitempty,max=64"`
	FirstName         *string   `json:"firstName" validate:"omitempty,max=100"`
	LastName          *string   `json:"lastName" validate:"omitempty,max=100"`
	Designation       *string   `json:"designation" validate:"omitempty,max=100"`
	Mobile            *string   `json:"mobile" validate:"omitempty,max=32"`
	Department        *string   `json:"department"`
	Reporting         *string   `json:"reporting"`
	ReportsTo         *string   `json:"reportsTo"`
	AddressLine1      *string   `json:"addressLine1"`
	AddressLine2      *string   `json:"addressLine2"`
	City              *string   `json:"city"`
	State             *string   `json:"state"`
	Country           *string   `json:"country"`
	CustomPermissions *[]string `json:"customPermissions"`
}

type Service struct {
	dir      Directory
	registry *rbac.Registry
	validate *validator.Validate
}

func NewService(dir Directory, registry *rbac.Registry) *Service {
	return &Service{dir: dir, registry: registry, validate: newValidator()}
}

// Register creates a self-service account with the default role and no
// department.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Employee, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	issues, err := checkStruct(s.validate, in)
	if err != nil {
		return Employee{}, err
	}
	if len(issues) > 0 {
		return Employee{}, rbac.Invalid(issues...)
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return Employee{}, err
	}
	emp := Employee{
		Name:              in.Name,
		Email:             in.Email,
		PasswordHash:      hash,
		Role:              rbac.DefaultRole,
		CustomPermissions: []string{},
	}
	if err := s.dir.Create(ctx, &emp); err != nil {
		return Employee{}, err
	}
	return emp, nil
}

// RegisterEmployee creates an account on behalf of an administrator.
func (s *Service) RegisterEmployee(ctx context.Context, in EmployeeInput) (Employee, error) {
	in.Email = normalizeEmail(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	issues, err := checkStruct(s.validate, in)
	if err != nil {
		return Employee{}, err
	}
	issues = append(issues, accessIssues(s.registry, &in.Role, &in.Department, &in.CustomPermissions)...)
	issues = append(issues, reportingIssue(&in.Reporting)...)
	if in.ReportsTo != "" && !hasIssue(issues, "reportsTo") {
		if _, err := s.dir.Get(ctx, in.ReportsTo); errors.Is(err, ErrNotFound) {
			issues = append(issues, rbac.FieldIssue{Field: "reportsTo", Reason: "must reference an existing user"})
		} else if err != nil {
			return Employee{}, err
		}
	}
	if len(issues) > 0 {
		return Employee{}, rbac.Invalid(issues...)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return Employee{}, err
	}
	custom := in.CustomPermissions
	if custom == nil {
		custom = []string{}
	}
	emp := Employee{
		Name:              composeName(in.FirstName, in.LastName, in.Email),
		Email:             in.Email,
		PasswordHash:      hash,
		Role:              in.Role,
		EmployeeID:        strings.TrimSpace(in.EmployeeID),
		FirstName:         in.FirstName,
		LastName:          in.LastName,
		Designation:       in.Designation,
		Mobile:            in.Mobile,
		Department:        in.Department,
		Reporting:         in.Reporting,
		ReportsTo:         in.ReportsTo,
		AddressLine1:      in.AddressLine1,
		AddressLine2:      in.AddressLine2,
		City:              in.City,
		State:             in.State,
		Country:           in.Country,
		CustomPermissions: custom,
	}
	if err := s.dir.Create(ctx, &emp); err != nil {
		return Employee{}, err
	}
	return emp, nil
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Employee, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return Employee{}, err
	}
	if in.Email != nil {
		normalized := normalizeEmail(*in.Email)
		in.Email = &normalized
	}
	issues, err := checkStruct(s.validate, in)
	if err != nil {
		return Employee{}, err
	}
	issues = append(issues, accessIssues(s.registry, in.Role, in.Department, in.CustomPermissions)...)
	issues = append(issues, reportingIssue(in.Reporting)...)
	if in.ReportsTo != nil && *in.ReportsTo != "" {
		issue, err := s.managerIssue(ctx, current.ID, *in.ReportsTo)
		if err != nil {
			return Employee{}, err
		}
		issues = append(issues, issue...)
	}
	if len(issues) > 0 {
		return Employee{}, rbac.Invalid(issues...)
	}

	next := current
	apply(&next.Email, in.Email)
	apply(&next.Role, in.Role)
	apply(&next.EmployeeID, in.EmployeeID)
	apply(&next.FirstName, in.FirstName)
	apply(&next.LastName, in.LastName)
	apply(&next.Designation, in.Designation)
	apply(&next.Mobile, in.Mobile)
	apply(&next.Department, in.Department)
	apply(&next.Reporting, in.Reporting)
	apply(&next.ReportsTo, in.ReportsTo)
	apply(&next.AddressLine1, in.AddressLine1)
	apply(&next.AddressLine2, in.AddressLine2)
	apply(&next.City, in.City)
	apply(&next.State, in.State)
	apply(&next.Country, in.Country)
	if in.CustomPermissions != nil {
		next.CustomPermissions = append([]string{}, (*in.CustomPermissions)...)
	}
	if in.FirstName != nil || in.LastName != nil {
		next.Name = composeName(next.FirstName, next.LastName, next.Email)
	}
	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return Employee{}, err
		}
		next.PasswordHash = hash
	}
	if err := s.dir.Update(ctx, next); err != nil {
		return Employee{}, err
	}
	return next, nil
}

func (s *Service) managerIssue(ctx context.Context, subjectID, managerID string) ([]rbac.FieldIssue, error) {
	if managerID == subjectID {
		return []rbac.FieldIssue{{Field: "reportsTo", Reason: "a user cannot report to themselves"}}, nil
	}
	if _, err := uuid.Parse(managerID); err != nil {
		return []rbac.FieldIssue{{Field: "reportsTo", Reason: "must be a valid id"}}, nil
	}
	if _, err := s.dir.Get(ctx, managerID); errors.Is(err, ErrNotFound) {
		return []rbac.FieldIssue{{Field: "reportsTo", Reason: "must reference an existing user"}}, nil
	} else if err != nil {
		return nil, err
	}
	return nil, nil
}

// Delete removes a user. Administrators cannot remove their own account.
func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return rbac.Invalid(rbac.FieldIssue{Field: "id", Reason: "cannot delete your own account"})
	}
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	return s.dir.Delete(ctx, id)
}

func (s *Service) Get(ctx context.Context, id string) (Employee, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Employee{}, ErrNotFound
	}
	return s.dir.Get(ctx, id)
}

// List returns users newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Employee, error) {
	return s.dir.List(ctx, limit, offset)
}

// ListSummaries returns every user as a dropdown row, sorted by name.
func (s *Service) ListSummaries(ctx context.Context) ([]Summary, error) {
	all, err := s.dir.ListByName(ctx)
	if err != nil {
		return nil, err
	}
	return summarize(all), nil
}

// TeamMembers lists the users whose manager is managerID.
func (s *Service) TeamMembers(ctx context.Context, managerID string) ([]Summary, error) {
	reports, err := s.dir.ListReports(ctx, managerID)
	if err != nil {
		return nil, err
	}
	return summarize(reports), nil
}

// ReportingChain walks reportsTo upward from the user, nearest manager first.
// The walk stops at a missing manager or the first repeated user.
func (s *Service) ReportingChain(ctx context.Context, id string) ([]Summary, error) {
	subject, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	chain := []Summary{}
	seen := map[string]bool{subject.ID: true}
	next := subject.ReportsTo
	for next != "" && !seen[next] {
		manager, err := s.dir.Get(ctx, next)
		if errors.Is(err, ErrNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}
		seen[manager.ID] = true
		chain = append(chain, manager.Summary())
		next = manager.ReportsTo
	}
	return chain, nil
}

// LookupUser serves the authorization gate.
func (s *Service) LookupUser(ctx context.Context, id string) (rbac.User, error) {
	emp, err := s.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return rbac.User{}, rbac.ErrSubjectNotFound
	}
	if err != nil {
		return rbac.User{}, err
	}
	return emp.Access(), nil
}

// FindCredentials serves password login.
func (s *Service) FindCredentials(ctx context.Context, email string) (auth.Credentials, error) {
	emp, err := s.dir.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, ErrNotFound) {
		return auth.Credentials{}, auth.ErrNoAccount
	}
	if err != nil {
		return auth.Credentials{}, err
	}
	return auth.Credentials{UserID: emp.ID, Email: emp.Email, Role: emp.Role, PasswordHash: emp.PasswordHash}, nil
}

func summarize(list []Employee) []Summary {
	out := make([]Summary, 0, len(list))
	for _, emp := range list {
		out = append(out, emp.Summary())
	}
	return out
}

func apply(dst *string, value *string) {
	if value != nil {
		*dst = strings.TrimSpace(*value)
	}
}

func hasIssue(issues []rbac.FieldIssue, field string) bool {
	for _, issue := range issues {
		if issue.Field == field {
			return true
		}
	}
	return false
}
