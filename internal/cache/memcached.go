package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/antonio-alexander/go-employee-manager/internal"
	"github.com/antonio-alexander/go-employee-manager/internal/data"
	"github.com/antonio-alexander/go-employee-manager/internal/utilities"

	"github.com/bradfitz/gomemcache/memcache"
)

const (
	memcachedKeyEmployee   string = "employee:"
	memcachedKeySearch     string = "search:"
	memcachedKeyInProgress string = "in_progress:"

	//relative expirations greater than 30 days are interpreted
	// by memcached as unix timestamps
	memcachedMaxExpiration int32 = 30 * 24 * 60 * 60
)

type memcachedCache struct {
	client *memcache.Client
	config struct {
		addresses         []string
		timeout           time.Duration
		maxIdleConns      int
		expiration        int32
		inProgressTTL     int32
		inProgressEnabled bool
	}
	utilities.Logger
}

func NewMemcached(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	internal.Clearer
	Cache
} {
	c := &memcachedCache{}
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

func memcachedExpiration(seconds int32) int32 {
	if seconds < 0 {
		return 0
	}
	if seconds > memcachedMaxExpiration {
		return memcachedMaxExpiration
	}
	return seconds
}

// searchReadSet is the miss path for a search; memcached's atomic add
// stands in for the in progress hash and its expiration stands in for
// the prune goroutine
func (c *memcachedCache) searchReadSet(searchKey string) error {
	if !c.config.inProgressEnabled {
		return ErrEmployeeSearchNotCached
	}
	err := c.client.Add(&memcache.Item{
		Key:        memcachedKeyInProgress + searchKey,
		Value:      []byte(fmt.Sprint(time.Now().UnixNano())),
		Expiration: memcachedExpiration(c.config.inProgressTTL),
	})
	switch {
	default:
		return fmt.Errorf("error while setting employee search in progress: %w", err)
	case errors.Is(err, memcache.ErrNotStored):
		return ErrEmployeesSearchAlreadySet
	case err == nil:
		return ErrEmployeesSearchSet
	}
}

func (c *memcachedCache) Configure(envs map[string]string) error {
	if s, ok := envs["MEMCACHED_ADDRESS"]; ok {
		for _, address := range strings.Split(s, ",") {
			if address = strings.TrimSpace(address); address != "" {
				c.config.addresses = append(c.config.addresses, address)
			}
		}
	}
	if len(c.config.addresses) == 0 {
		c.config.addresses = []string{"localhost:11211"}
	}
	if s, ok := envs["MEMCACHED_TIMEOUT"]; ok {
		i, _ := strconv.ParseInt(s, 10, 64)
		c.config.timeout = time.Duration(i) * time.Second
	}
	if s, ok := envs["MEMCACHED_MAX_IDLE_CONNS"]; ok {
		i, _ := strconv.ParseInt(s, 10, 64)
		c.config.maxIdleConns = int(i)
	}
	if s, ok := envs["MEMCACHED_EXPIRATION"]; ok {
		i, _ := strconv.ParseInt(s, 10, 32)
		c.config.expiration = int32(i)
	}
	if s, ok := envs["CACHE_SET_READ_TTL"]; ok {
		i, _ := strconv.ParseInt(s, 10, 32)
		c.config.inProgressTTL = int32(i)
	}
	if inProgressEnabled, ok := envs["CACHE_ENABLE_IN_PROGRESS"]; ok {
		c.config.inProgressEnabled, _ = strconv.ParseBool(inProgressEnabled)
	}
	return nil
}

func (c *memcachedCache) Open(ctx context.Context) error {
	client := memcache.New(c.config.addresses...)
	if c.config.timeout > 0 {
		client.Timeout = c.config.timeout
	}
	if c.config.maxIdleConns > 0 {
		client.MaxIdleConns = c.config.maxIdleConns
	}
	if err := client.Ping(); err != nil {
		return err
	}
	c.client = client
	return nil
}

func (c *memcachedCache) Close(ctx context.Context) error {
	if err := c.client.Close(); err != nil {
		c.Error(ctx, "error while shutting down memcached client: %s", err)
	}
	return nil
}

func (c *memcachedCache) Clear(ctx context.Context) error {
	return c.client.FlushAll()
}

func (c *memcachedCache) SearchesClear(ctx context.Context) error {
	//KIM: memcached can't enumerate its keys, so the only way to
	// drop every search at once is to flush; employees re-cache on
	// the next read
	return c.client.FlushAll()
}

func (c *memcachedCache) EmployeeRead(ctx context.Context, employeeId int64) (*data.Employee, error) {
	key := fmt.Sprint(employeeId)
	item, err := c.client.Get(memcachedKeyEmployee + key)
	if err != nil {
		switch {
		default:
			return nil, err
		case errors.Is(err, memcache.ErrCacheMiss):
			if !c.config.inProgressEnabled {
				return nil, ErrEmployeeNotCached
			}
			err := c.client.Add(&memcache.Item{
				Key:        memcachedKeyInProgress + key,
				Value:      []byte(fmt.Sprint(time.Now().UnixNano())),
				Expiration: memcachedExpiration(c.config.inProgressTTL),
			})
			switch {
			default:
				return nil, fmt.Errorf("error while setting employee (%s) read in progress: %w", key, err)
			case errors.Is(err, memcache.ErrNotStored):
				return nil, ErrEmployeeReadAlreadySet
			case err == nil:
				return nil, ErrEmployeeReadSet
			}
		}
	}
	employee := &data.Employee{}
	if err := employee.UnmarshalBinary(item.Value); err != nil {
		return nil, err
	}
	return employee, nil
}

func (c *memcachedCache) EmployeesRead(ctx context.Context, search data.EmployeeSearch) ([]*data.Employee, error) {
	searchKey := search.ToKey()
	item, err := c.client.Get(memcachedKeySearch + searchKey)
	if err != nil {
		if errors.Is(err, memcache.ErrCacheMiss) {
			return nil, c.searchReadSet(searchKey)
		}
		return nil, err
	}
	employeeIds := strings.Split(string(item.Value), ",")
	employees := make([]*data.Employee, 0, len(employeeIds))
	for _, employeeId := range employeeIds {
		item, err := c.client.Get(memcachedKeyEmployee + employeeId)
		if err != nil {
			if errors.Is(err, memcache.ErrCacheMiss) {
				//a member of the result set was invalidated, so the
				// whole search is stale
				_ = c.client.Delete(memcachedKeySearch + searchKey)
				return nil, c.searchReadSet(searchKey)
			}
			return nil, err
		}
		employee := &data.Employee{}
		if err := employee.UnmarshalBinary(item.Value); err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	return employees, nil
}

func (c *memcachedCache) EmployeesWrite(ctx context.Context, search data.EmployeeSearch, employees ...*data.Employee) error {
	searchKey := search.ToKey()
	employeeIds := make([]string, 0, len(employees))
	for _, employee := range employees {
		bytes, err := employee.MarshalBinary()
		if err != nil {
			return err
		}
		if err := c.client.Set(&memcache.Item{
			Key:        memcachedKeyEmployee + fmt.Sprint(employee.Id),
			Value:      bytes,
			Expiration: memcachedExpiration(c.config.expiration),
		}); err != nil {
			return err
		}
		employeeIds = append(employeeIds, fmt.Sprint(employee.Id))
	}
	//an empty search doesn't identify a result set; only the
	// employees themselves are cached
	if searchKey != "" {
		if err := c.client.Set(&memcache.Item{
			Key:        memcachedKeySearch + searchKey,
			Value:      []byte(strings.Join(employeeIds, ",")),
			Expiration: memcachedExpiration(c.config.expiration),
		}); err != nil {
			return err
		}
	}
	if c.config.inProgressEnabled {
		for _, employeeId := range employeeIds {
			if err := c.client.Delete(memcachedKeyInProgress + employeeId); err != nil &&
				!errors.Is(err, memcache.ErrCacheMiss) {
				c.Error(ctx, "error while deleting employee read in progress: %s", err)
			}
		}
		if err := c.client.Delete(memcachedKeyInProgress + searchKey); err != nil &&
			!errors.Is(err, memcache.ErrCacheMiss) {
			c.Error(ctx, "error while deleting employee search in progress: %s", err)
		}
	}
	return nil
}

func (c *memcachedCache) EmployeesDelete(ctx context.Context, employeeIds ...int64) error {
	if len(employeeIds) <= 0 {
		return nil
	}
	for _, employeeId := range employeeIds {
		key := fmt.Sprint(employeeId)
		if err := c.client.Delete(memcachedKeyEmployee + key); err != nil &&
			!errors.Is(err, memcache.ErrCacheMiss) {
			return err
		}
		if c.config.inProgressEnabled {
			if err := c.client.Delete(memcachedKeyInProgress + key); err != nil &&
				!errors.Is(err, memcache.ErrCacheMiss) {
				c.Error(ctx, "error while deleting employee read in progress: %s", err)
			}
		}
	}
	return nil
}
