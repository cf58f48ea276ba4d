// Package userstest provides an in-memory users.Directory for tests.
package userstest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"tikidan/internal/domain/users"
)

type Directory struct {
	mu    sync.Mutex
	byID  map[string]users.Employee
	clock time.Time
}

func NewDirectory() *Directory {
	return &Directory{
		byID:  map[string]users.Employee{},
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (d *Directory) Create(_ context.Context, emp *users.Employee) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.checkUnique(*emp); err != nil {
		return err
	}
	if emp.ID == "" {
		emp.ID = uuid.NewString()
	}
	d.clock = d.clock.Add(time.Second)
	emp.CreatedAt = d.clock
	d.byID[emp.ID] = clone(*emp)
	return nil
}

func (d *Directory) checkUnique(emp users.Employee) error {
	for id, existing := range d.byID {
		if id == emp.ID {
			continue
		}
		if existing.Email == emp.Email {
			return users.ErrEmailTaken
		}
		if emp.EmployeeID != "" && existing.EmployeeID == emp.EmployeeID {
			return users.ErrEmployeeIDTaken
		}
	}
	return nil
}

func (d *Directory) Get(_ context.Context, id string) (users.Employee, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	emp, ok := d.byID[id]
	if !ok {
		return users.Employee{}, users.ErrNotFound
	}
	return clone(emp), nil
}

func (d *Directory) GetByEmail(_ context.Context, email string) (users.Employee, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, emp := range d.byID {
		if emp.Email == email {
			return clone(emp), nil
		}
	}
	return users.Employee{}, users.ErrNotFound
}

func (d *Directory) List(_ context.Context, limit, offset int) ([]users.Employee, error) {
	all := d.sorted(func(a, b users.Employee) bool { return a.CreatedAt.After(b.CreatedAt) })
	if offset >= len(all) {
		return []users.Employee{}, nil
	}
	all = all[offset:]
	if limit >= 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (d *Directory) ListByName(context.Context) ([]users.Employee, error) {
	return d.sorted(func(a, b users.Employee) bool { return a.Name < b.Name }), nil
}

func (d *Directory) ListReports(_ context.Context, managerID string) ([]users.Employee, error) {
	out := []users.Employee{}
	for _, emp := range d.sorted(func(a, b users.Employee) bool { return a.Name < b.Name }) {
		if emp.ReportsTo == managerID {
			out = append(out, emp)
		}
	}
	return out, nil
}

func (d *Directory) Update(_ context.Context, emp users.Employee) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	existing, ok := d.byID[emp.ID]
	if !ok {
		return users.ErrNotFound
	}
	if err := d.checkUnique(emp); err != nil {
		return err
	}
	emp.CreatedAt = existing.CreatedAt
	d.byID[emp.ID] = clone(emp)
	return nil
}

// Delete removes the record and clears reportsTo on its direct reports.
func (d *Directory) Delete(_ context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.byID[id]; !ok {
		return users.ErrNotFound
	}
	delete(d.byID, id)
	for key, emp := range d.byID {
		if emp.ReportsTo == id {
			emp.ReportsTo = ""
			d.byID[key] = emp
		}
	}
	return nil
}

func (d *Directory) sorted(less func(a, b users.Employee) bool) []users.Employee {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]users.Employee, 0, len(d.byID))
	for _, emp := range d.byID {
		out = append(out, clone(emp))
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func clone(emp users.Employee) users.Employee {
	emp.CustomPermissions = append([]string{}, emp.CustomPermissions...)
	return emp
}
