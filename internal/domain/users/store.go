package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Directory is the durable home of user records.
type Directory interface {
	Create(ctx context.Context, emp *Employee) error
	Get(ctx context.Context, id string) (Employee, error)
	GetByEmail(ctx context.Context, email string) (Employee, error)
	List(ctx context.Context, limit, offset int) ([]Employee, error)
	ListByName(ctx context.Context) ([]Employee, error)
	ListReports(ctx context.Context, managerID string) ([]Employee, error)
	Update(ctx context.Context, emp Employee) error
	Delete(ctx context.Context, id string) error
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const employeeColumns = `
    id::text, name, email, password_hash, role,
    COALESCE(employee_id, ''), first_name, last_name, designation, mobile,
    department, reporting, COALESCE(reports_to::text, ''),
    address_line1, address_line2, city, state, country,
    custom_permissions, created_at`

func scanEmployee(row pgx.Row) (Employee, error) {
	var emp Employee
	err := row.Scan(
		&emp.ID, &emp.Name, &emp.Email, &emp.PasswordHash, &emp.Role,
		&emp.EmployeeID, &emp.FirstName, &emp.LastName, &emp.Designation, &emp.Mobile,
		&emp.Department, &emp.Reporting, &emp.ReportsTo,
		&emp.AddressLine1, &emp.AddressLine2, &emp.City, &emp.State, &emp.Country,
		&emp.CustomPermissions, &emp.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	if emp.CustomPermissions == nil {
		emp.CustomPermissions = []string{}
	}
	return emp, err
}

func collectEmployees(rows pgx.Rows) ([]Employee, error) {
	defer rows.Close()
	out := []Employee{}
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

func (s *Store) Create(ctx context.Context, emp *Employee) error {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO users (name, email, password_hash, role, employee_id, first_name, last_name,
      designation, mobile, department, reporting, reports_to,
      address_line1, address_line2, city, state, country, custom_permissions)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
    RETURNING id::text, created_at
  `, emp.Name, emp.Email, emp.PasswordHash, emp.Role, nullIfEmpty(emp.EmployeeID), emp.FirstName, emp.LastName,
		emp.Designation, emp.Mobile, emp.Department, emp.Reporting, nullIfEmpty(emp.ReportsTo),
		emp.AddressLine1, emp.AddressLine2, emp.City, emp.State, emp.Country, permissionsArray(emp.CustomPermissions),
	).Scan(&emp.ID, &emp.CreatedAt)
	return mapConstraintError(err)
}

func (s *Store) Get(ctx context.Context, id string) (Employee, error) {
	return scanEmployee(s.DB.QueryRow(ctx, "SELECT "+employeeColumns+" FROM users WHERE id = $1", id))
}

func (s *Store) GetByEmail(ctx context.Context, email string) (Employee, error) {
	return scanEmployee(s.DB.QueryRow(ctx, "SELECT "+employeeColumns+" FROM users WHERE email = $1", email))
}

func (s *Store) List(ctx context.Context, limit, offset int) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, "SELECT "+employeeColumns+" FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, err
	}
	return collectEmployees(rows)
}

func (s *Store) ListByName(ctx context.Context) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, "SELECT "+employeeColumns+" FROM users ORDER BY name")
	if err != nil {
		return nil, err
	}
	return collectEmployees(rows)
}

func (s *Store) ListReports(ctx context.Context, managerID string) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, "SELECT "+employeeColumns+" FROM users WHERE reports_to = $1 ORDER BY name", managerID)
	if err != nil {
		return nil, err
	}
	return collectEmployees(rows)
}

func (s *Store) Update(ctx context.Context, emp Employee) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE users
    SET name = $2, email = $3, role = $4, employee_id = $5, first_name = $6, last_name = $7,
        designation = $8, mobile = $9, department = $10, reporting = $11, reports_to = $12,
        address_line1 = $13, address_line2 = $14, city = $15, state = $16, country = $17,
        custom_permissions = $18
    WHERE id = $1
  `, emp.ID, emp.Name, emp.Email, emp.Role, nullIfEmpty(emp.EmployeeID), emp.FirstName, emp.LastName,
		emp.Designation, emp.Mobile, emp.Department, emp.Reporting, nullIfEmpty(emp.ReportsTo),
		emp.AddressLine1, emp.AddressLine2, emp.City, emp.State, emp.Country, permissionsArray(emp.CustomPermissions))
	if err != nil {
		return mapConstraintError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return err
	}
	switch pgErr.ConstraintName {
	case "users_employee_id_key":
		return ErrEmployeeIDTaken
	default:
		return ErrEmailTaken
	}
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func permissionsArray(perms []string) []string {
	if perms == nil {
		return []string{}
	}
	return perms
}
