package cache

import (
	"context"
	"errors"

	"github.com/antonio-alexander/go-employee-manager/internal/data"
)

var (
	ErrEmployeeNotCached         = errors.New("employee not cached")
	ErrEmployeeSearchNotCached   = errors.New("employee search not cached")
	ErrEmployeeReadSet           = errors.New("employee not cached, read set")
	ErrEmployeeReadAlreadySet    = errors.New("employee not cached, read already set")
	ErrEmployeesSearchSet        = errors.New("employees search not cached, read set")
	ErrEmployeesSearchAlreadySet = errors.New("employees search not cached, read already set")
)

type Cache interface {
	EmployeeRead(ctx context.Context, employeeId int64) (*data.Employee, error)
	EmployeesRead(ctx context.Context, search data.EmployeeSearch) ([]*data.Employee, error)
	EmployeesWrite(ctx context.Context, search data.EmployeeSearch, employees ...*data.Employee) error
	EmployeesDelete(ctx context.Context, employeeIds ...int64) error
	SearchesClear(ctx context.Context) error
}

// copyEmployee copies the employee and its fields map so cached values
// can't be mutated through returned pointers.
func copyEmployee(e *data.Employee) *data.Employee {
	employee := &data.Employee{}
	*employee = *e
	if e.Fields != nil {
		employee.Fields = make(map[string]data.FieldValue, len(e.Fields))
		for label, fieldValue := range e.Fields {
			employee.Fields[label] = fieldValue
		}
	}
	return employee
}
