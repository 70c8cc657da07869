package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/antonio-alexander/go-employee-manager/internal"
	"github.com/antonio-alexander/go-employee-manager/internal/data"
	"github.com/antonio-alexander/go-employee-manager/internal/utilities"

	"github.com/antonio-alexander/go-stash"
)

// stashSearch holds the result set of a cached search; the stasher
// serializes values through the binary marshaler
type stashSearch struct {
	EmployeeIds []int64 `json:"employee_ids"`
}

func (s *stashSearch) MarshalBinary() ([]byte, error) {
	return json.Marshal(s)
}

func (s *stashSearch) UnmarshalBinary(bytes []byte) error {
	return json.Unmarshal(bytes, s)
}

type stashCache struct {
	logger utilities.Logger
	stash  interface {
		stash.Configurer
		stash.Parameterizer
		stash.Initializer
		stash.Shutdowner
	}
	stash.Stasher
}

func NewStash(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	internal.Clearer
	Cache
} {
	c := &stashCache{}
	for _, p := range parameters {
		switch p := p.(type) {
		case utilities.Logger:
			c.logger = p
		case interface {
			stash.Configurer
			stash.Parameterizer
			stash.Initializer
			stash.Shutdowner
			stash.Stasher
		}:
			c.stash = p
			c.Stasher = p
		}
	}
	if c.stash != nil {
		c.stash.SetParameters(parameters...)
	}
	return c
}

func (c *stashCache) Error(ctx context.Context, format string, v ...any) {
	if c.logger != nil {
		c.logger.Error(ctx, format, v...)
	}
}

func (c *stashCache) Trace(ctx context.Context, format string, v ...any) {
	if c.logger != nil {
		c.logger.Trace(ctx, format, v...)
	}
}

func (c *stashCache) Configure(envs map[string]string) error {
	if c.stash != nil {
		if err := c.stash.Configure(envs); err != nil {
			return err
		}
	}
	return nil
}

func (c *stashCache) Open(ctx context.Context) error {
	if c.stash != nil {
		return c.stash.Initialize()
	}
	return nil
}

func (c *stashCache) Close(ctx context.Context) error {
	if c.stash != nil {
		return c.stash.Shutdown()
	}
	return nil
}

func (c *stashCache) Clear(ctx context.Context) error {
	return c.Stasher.Clear()
}

func (c *stashCache) SearchesClear(ctx context.Context) error {
	//KIM: the stasher can't enumerate its keys, so the only way to
	// drop every search at once is to drop everything; employees
	// re-cache on the next read
	return c.Stasher.Clear()
}

func (c *stashCache) EmployeeRead(ctx context.Context, employeeId int64) (*data.Employee, error) {
	employee := &data.Employee{}
	if err := c.Stasher.Read(fmt.Sprint(employeeId), employee); err != nil {
		c.Trace(ctx, "cache miss for employee: %d", employeeId)
		return nil, ErrEmployeeNotCached
	}
	c.Trace(ctx, "cache hit for employee: %d", employeeId)
	return employee, nil
}

func (c *stashCache) EmployeesRead(ctx context.Context, search data.EmployeeSearch) ([]*data.Employee, error) {
	searchKey := search.ToKey()
	if searchKey == "" {
		return nil, ErrEmployeeSearchNotCached
	}
	stashSearch := &stashSearch{}
	if err := c.Stasher.Read(searchKey, stashSearch); err != nil {
		c.Trace(ctx, "cache miss for employee search: %s", searchKey)
		return nil, ErrEmployeeSearchNotCached
	}
	employees := make([]*data.Employee, 0, len(stashSearch.EmployeeIds))
	for _, employeeId := range stashSearch.EmployeeIds {
		employee := &data.Employee{}
		if err := c.Stasher.Read(fmt.Sprint(employeeId), employee); err != nil {
			//KIM: we don't want to return half a result set; a single
			// missing member invalidates the whole search
			c.Trace(ctx, "cache miss for employee search: %s", searchKey)
			if err := c.Stasher.Delete(searchKey); err != nil {
				c.Error(ctx, "error while deleting search key (%s): %s",
					searchKey, err)
			}
			return nil, ErrEmployeeSearchNotCached
		}
		employees = append(employees, employee)
	}
	c.Trace(ctx, "cache hit for employee search: %s", searchKey)
	return employees, nil
}

func (c *stashCache) EmployeesWrite(ctx context.Context, search data.EmployeeSearch, employees ...*data.Employee) error {
	searchKey := search.ToKey()
	if searchKey != "" {
		stashSearch := &stashSearch{}
		for _, employee := range employees {
			stashSearch.EmployeeIds = append(stashSearch.EmployeeIds, employee.Id)
		}
		if _, err := c.Stasher.Write(searchKey, stashSearch); err != nil {
			c.Error(ctx, "error while writing search: %s", err)
			return err
		}
		c.Trace(ctx, "cached employees search: %s", searchKey)
	}
	for _, employee := range employees {
		if _, err := c.Stasher.Write(fmt.Sprint(employee.Id), employee); err != nil {
			// we don't care about the error here, but it does make the caching
			// incomplete
			c.Error(ctx, "error while writing employee (%d): %s", employee.Id, err)
		}
		c.Trace(ctx, "cached employee: %d", employee.Id)
	}
	return nil
}

func (c *stashCache) EmployeesDelete(ctx context.Context, employeeIds ...int64) error {
	for _, employeeId := range employeeIds {
		if err := c.Stasher.Delete(fmt.Sprint(employeeId)); err != nil {
			c.Error(ctx, "error while deleting employee")
			continue
		}
		c.Trace(ctx, "evicted cached employee: %d", employeeId)
	}
	//KIM: a search that references a deleted employee invalidates
	// itself the next time it's read
	return nil
}
