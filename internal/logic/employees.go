package logic

import (
	"context"
	"errors"

	"github.com/antonio-alexander/go-employee-manager/internal/cache"
	"github.com/antonio-alexander/go-employee-manager/internal/data"
	"github.com/antonio-alexander/go-employee-manager/internal/utilities"

	"github.com/cenkalti/backoff/v5"
)

func (l *logic) cacheBackOff() backoff.BackOff {
	if l.config.cacheRetryExpBackoff {
		exponentialBackOff := backoff.NewExponentialBackOff()
		exponentialBackOff.InitialInterval = l.config.cacheRetryInterval
		return exponentialBackOff
	}
	return backoff.NewConstantBackOff(l.config.cacheRetryInterval)
}

// employeeReadCached reads through the cache; when another request has
// the read in progress it waits with backoff for that request to
// populate the cache before falling back to the database
func (l *logic) employeeReadCached(ctx context.Context, employeeId int64) (*data.Employee, error) {
	operationFx := func() (*data.Employee, error) {
		employee, err := l.cache.EmployeeRead(ctx, employeeId)
		if err != nil {
			if errors.Is(err, cache.ErrEmployeeReadAlreadySet) {
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}
		return employee, nil
	}
	employee, err := backoff.Retry(ctx, operationFx,
		backoff.WithBackOff(l.cacheBackOff()),
		backoff.WithMaxTries(l.config.cacheMaxRetries))
	if err != nil {
		l.counter.IncrementMiss(counterEmployeeRead)
		utilities.CacheMissesTotal.WithLabelValues(counterEmployeeRead).Inc()
		l.Trace(ctx, "cache miss for employee (%d): %s", employeeId, err)
		employee, err := l.Sql.EmployeeRead(ctx, employeeId)
		if err != nil {
			return nil, err
		}
		if err := l.cache.EmployeesWrite(ctx, data.EmployeeSearch{}, employee); err != nil {
			l.Error(ctx, "error while writing employee (%d) to cache: %s", employeeId, err)
		}
		return employee, nil
	}
	l.counter.IncrementHit(counterEmployeeRead)
	utilities.CacheHitsTotal.WithLabelValues(counterEmployeeRead).Inc()
	return employee, nil
}

func (l *logic) employeeOwned(ctx context.Context, userId, employeeId int64) error {
	employee, err := l.Sql.EmployeeRead(ctx, employeeId)
	if err != nil {
		return err
	}
	if employee.UserId != userId {
		return data.ErrNotFound
	}
	return nil
}

func (l *logic) EmployeeCreate(ctx context.Context, userId int64, employeePartial data.EmployeePartial) (*data.Employee, error) {
	if l.config.mutateDisabled {
		return nil, data.ErrMutateDisabled
	}
	employee, err := l.Sql.EmployeeCreate(ctx, userId, employeePartial)
	if err != nil {
		return nil, err
	}
	if l.config.cacheEnabled {
		//cached searches predate the new record
		if err := l.cache.SearchesClear(ctx); err != nil {
			l.Error(ctx, "error while clearing cached searches: %s", err)
		}
	}
	l.Debug(ctx, "user (%d) created employee (%d)", userId, employee.Id)
	return employee, nil
}

func (l *logic) EmployeeRead(ctx context.Context, userId int64, isStaff bool, employeeId int64) (*data.Employee, error) {
	var employee *data.Employee
	var err error

	switch {
	case l.config.cacheEnabled:
		employee, err = l.employeeReadCached(ctx, employeeId)
	default:
		employee, err = l.Sql.EmployeeRead(ctx, employeeId)
	}
	if err != nil {
		return nil, err
	}
	if !isStaff && employee.UserId != userId {
		//records belonging to someone else are indistinguishable from
		// missing ones
		return nil, data.ErrNotFound
	}
	return employee, nil
}

func (l *logic) EmployeesSearch(ctx context.Context, userId int64, isStaff bool, search data.EmployeeSearch) ([]*data.Employee, error) {
	if !isStaff {
		//searches are always scoped to the caller's own records
		search.UserId = &userId
	}
	if !l.config.cacheEnabled {
		return l.Sql.EmployeesSearch(ctx, search)
	}
	operationFx := func() ([]*data.Employee, error) {
		employees, err := l.cache.EmployeesRead(ctx, search)
		if err != nil {
			if errors.Is(err, cache.ErrEmployeesSearchAlreadySet) {
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}
		return employees, nil
	}
	employees, err := backoff.Retry(ctx, operationFx,
		backoff.WithBackOff(l.cacheBackOff()),
		backoff.WithMaxTries(l.config.cacheMaxRetries))
	if err != nil {
		l.counter.IncrementMiss(counterEmployeesSearch)
		utilities.CacheMissesTotal.WithLabelValues(counterEmployeesSearch).Inc()
		l.Trace(ctx, "cache miss for employee search: %s", err)
		employees, err := l.Sql.EmployeesSearch(ctx, search)
		if err != nil {
			return nil, err
		}
		if err := l.cache.EmployeesWrite(ctx, search, employees...); err != nil {
			l.Error(ctx, "error while writing employees to cache: %s", err)
		}
		return employees, nil
	}
	l.counter.IncrementHit(counterEmployeesSearch)
	utilities.CacheHitsTotal.WithLabelValues(counterEmployeesSearch).Inc()
	return employees, nil
}

func (l *logic) EmployeeUpdate(ctx context.Context, userId, employeeId int64, employeePartial data.EmployeePartial) (*data.Employee, error) {
	if l.config.mutateDisabled {
		return nil, data.ErrMutateDisabled
	}
	if err := l.employeeOwned(ctx, userId, employeeId); err != nil {
		return nil, err
	}
	employee, err := l.Sql.EmployeeUpdate(ctx, employeeId, employeePartial)
	if err != nil {
		return nil, err
	}
	if l.config.cacheEnabled {
		if err := l.cache.EmployeesDelete(ctx, employeeId); err != nil {
			l.Error(ctx, "error while deleting employee (%d) from cache: %s", employeeId, err)
		}
		//the update can change which searches the record matches
		if err := l.cache.SearchesClear(ctx); err != nil {
			l.Error(ctx, "error while clearing cached searches: %s", err)
		}
	}
	l.Debug(ctx, "user (%d) updated employee (%d)", userId, employeeId)
	return employee, nil
}

func (l *logic) EmployeeDelete(ctx context.Context, userId, employeeId int64) error {
	if l.config.mutateDisabled {
		return data.ErrMutateDisabled
	}
	if err := l.employeeOwned(ctx, userId, employeeId); err != nil {
		return err
	}
	if err := l.Sql.EmployeeDelete(ctx, employeeId); err != nil {
		return err
	}
	if l.config.cacheEnabled {
		//searches referencing the record invalidate themselves on the
		// next read
		if err := l.cache.EmployeesDelete(ctx, employeeId); err != nil {
			l.Error(ctx, "error while deleting employee (%d) from cache: %s", employeeId, err)
		}
	}
	l.Debug(ctx, "user (%d) deleted employee (%d)", userId, employeeId)
	return nil
}
