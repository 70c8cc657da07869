package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/antonio-alexander/go-employee-manager/internal"
	"github.com/antonio-alexander/go-employee-manager/internal/data"
	"github.com/antonio-alexander/go-employee-manager/internal/utilities"
)

type memoryCache struct {
	sync.RWMutex
	sync.WaitGroup
	employees  map[int64]*data.Employee //map[employee_id]employee
	searches   map[string][]int64       //map[search key]employee ids
	inProgress struct {
		sync.RWMutex
		employeeRead   map[int64]int64  //map[employee_id]unix nano
		employeeSearch map[string]int64 //map[search key]unix nano
	}
	config struct {
		inProgressPruneInterval time.Duration
		inProgressTTL           time.Duration
		inProgressEnabled       bool
	}
	ctx       context.Context
	ctxCancel context.CancelFunc
	utilities.Logger
}

func NewMemory(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	internal.Clearer
	Cache
} {
	c := &memoryCache{}
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case utilities.Logger:
			c.Logger = p
		}
	}
	if c.Logger == nil {
		c.Logger = utilities.NewLogger()
	}
	return c
}

func (c *memoryCache) launchPruneSetRead() {
	started := make(chan struct{})
	c.Add(1)
	go func() {
		defer c.Done()

		pruneEmployeeReadFx := func() {
			c.inProgress.Lock()
			defer c.inProgress.Unlock()

			for key, t := range c.inProgress.employeeRead {
				if time.Since(time.Unix(0, t)) > c.config.inProgressTTL {
					delete(c.inProgress.employeeRead, key)
				}
			}
		}
		pruneEmployeeSearchFx := func() {
			c.inProgress.Lock()
			defer c.inProgress.Unlock()

			for key, t := range c.inProgress.employeeSearch {
				if time.Since(time.Unix(0, t)) > c.config.inProgressTTL {
					delete(c.inProgress.employeeSearch, key)
				}
			}
		}
		tPrune := time.NewTicker(c.config.inProgressPruneInterval)
		defer tPrune.Stop()
		close(started)
		for {
			select {
			case <-c.ctx.Done():
				return
			case <-tPrune.C:
				pruneEmployeeReadFx()
				pruneEmployeeSearchFx()
			}
		}
	}()
	<-started
}

// searchReadSet is the miss path for a search; with in progress enabled
// the first caller is told to populate the cache and everyone else is
// told the read is already set
func (c *memoryCache) searchReadSet(searchKey string) error {
	if !c.config.inProgressEnabled {
		return ErrEmployeeSearchNotCached
	}
	c.inProgress.Lock()
	defer c.inProgress.Unlock()

	if _, ok := c.inProgress.employeeSearch[searchKey]; ok {
		return ErrEmployeesSearchAlreadySet
	}
	c.inProgress.employeeSearch[searchKey] = time.Now().UnixNano()
	return ErrEmployeesSearchSet
}

func (c *memoryCache) Configure(envs map[string]string) error {
	if s, ok := envs["CACHE_PRUNE_INTERVAL"]; ok {
		inProgressPruneInterval, _ := strconv.Atoi(s)
		c.config.inProgressPruneInterval = time.Second * time.Duration(inProgressPruneInterval)
	}
	if c.config.inProgressPruneInterval <= 0 {
		c.config.inProgressPruneInterval = 10 * time.Second
	}
	if s, ok := envs["CACHE_SET_READ_TTL"]; ok {
		inProgressTTL, _ := strconv.Atoi(s)
		c.config.inProgressTTL = time.Second * time.Duration(inProgressTTL)
	}
	if inProgressEnabled, ok := envs["CACHE_ENABLE_IN_PROGRESS"]; ok {
		c.config.inProgressEnabled, _ = strconv.ParseBool(inProgressEnabled)
	}
	return nil
}

func (c *memoryCache) Open(ctx context.Context) error {
	c.Lock()
	defer c.Unlock()

	c.employees = make(map[int64]*data.Employee)
	c.searches = make(map[string][]int64)
	if c.config.inProgressEnabled {
		c.inProgress.employeeRead = make(map[int64]int64)
		c.inProgress.employeeSearch = make(map[string]int64)
		c.ctx, c.ctxCancel = context.WithCancel(context.Background())
		c.launchPruneSetRead()
	}
	return nil
}

func (c *memoryCache) Close(ctx context.Context) error {
	c.Lock()
	defer c.Unlock()

	if c.config.inProgressEnabled {
		c.ctxCancel()
		c.Wait()
	}
	return nil
}

func (c *memoryCache) Clear(ctx context.Context) error {
	c.Lock()
	defer c.Unlock()
	c.inProgress.Lock()
	defer c.inProgress.Unlock()

	//clear cache
	c.employees = make(map[int64]*data.Employee)
	c.searches = make(map[string][]int64)
	c.inProgress.employeeRead = make(map[int64]int64)
	c.inProgress.employeeSearch = make(map[string]int64)
	return nil
}

func (c *memoryCache) SearchesClear(ctx context.Context) error {
	c.Lock()
	defer c.Unlock()
	c.inProgress.Lock()
	defer c.inProgress.Unlock()

	c.searches = make(map[string][]int64)
	c.inProgress.employeeSearch = make(map[string]int64)
	return nil
}

func (c *memoryCache) EmployeeRead(ctx context.Context, employeeId int64) (*data.Employee, error) {
	c.RLock()
	defer c.RUnlock()

	employee, ok := c.employees[employeeId]
	if !ok {
		if !c.config.inProgressEnabled {
			return nil, ErrEmployeeNotCached
		}
		c.inProgress.Lock()
		defer c.inProgress.Unlock()
		if _, ok := c.inProgress.employeeRead[employeeId]; ok {
			return nil, ErrEmployeeReadAlreadySet
		}
		c.inProgress.employeeRead[employeeId] = time.Now().UnixNano()
		return nil, ErrEmployeeReadSet
	}
	return copyEmployee(employee), nil
}

func (c *memoryCache) EmployeesRead(ctx context.Context, search data.EmployeeSearch) ([]*data.Employee, error) {
	c.RLock()
	defer c.RUnlock()

	searchKey := search.ToKey()
	employeeIds, ok := c.searches[searchKey]
	if !ok {
		return nil, c.searchReadSet(searchKey)
	}
	employees := make([]*data.Employee, 0, len(employeeIds))
	for _, employeeId := range employeeIds {
		e, ok := c.employees[employeeId]
		if !ok {
			//a member of the result set was invalidated, so the
			// whole search is stale
			return nil, c.searchReadSet(searchKey)
		}
		employees = append(employees, copyEmployee(e))
	}
	return employees, nil
}

func (c *memoryCache) EmployeesWrite(ctx context.Context, search data.EmployeeSearch, employees ...*data.Employee) error {
	c.Lock()
	defer c.Unlock()

	searchKey := search.ToKey()
	for _, e := range employees {
		employee := copyEmployee(e)
		c.employees[employee.Id] = employee
	}
	//an empty search doesn't identify a result set; only the
	// employees themselves are cached
	if searchKey != "" {
		employeeIds := make([]int64, 0, len(employees))
		for _, e := range employees {
			employeeIds = append(employeeIds, e.Id)
		}
		c.searches[searchKey] = employeeIds
	}
	if c.config.inProgressEnabled {
		c.inProgress.Lock()
		defer c.inProgress.Unlock()

		delete(c.inProgress.employeeSearch, searchKey)
		for _, e := range employees {
			delete(c.inProgress.employeeRead, e.Id)
		}
	}
	return nil
}

func (c *memoryCache) EmployeesDelete(ctx context.Context, employeeIds ...int64) error {
	c.Lock()
	defer c.Unlock()

	for _, employeeId := range employeeIds {
		delete(c.employees, employeeId)
	}
	if c.config.inProgressEnabled {
		c.inProgress.Lock()
		defer c.inProgress.Unlock()

		for _, employeeId := range employeeIds {
			delete(c.inProgress.employeeRead, employeeId)
		}
	}
	return nil
}
