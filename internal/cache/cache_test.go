package cache_test

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/antonio-alexander/go-employee-manager/internal"
	"github.com/antonio-alexander/go-employee-manager/internal/cache"
	"github.com/antonio-alexander/go-employee-manager/internal/data"

	"github.com/antonio-alexander/go-stash/memory"
	"github.com/antonio-alexander/go-stash/redis"
	"github.com/stretchr/testify/assert"
)

var envs = map[string]string{
	"REDIS_ADDRESS":     "localhost",
	"REDIS_PORT":        "6379",
	"REDIS_TIMEOUT":     "10",
	"MEMCACHED_ADDRESS": "localhost:11211",
}

func init() {
	for _, env := range os.Environ() {
		if s := strings.Split(env, "="); len(s) > 1 {
			envs[s[0]] = strings.Join(s[1:], "=")
		}
	}
}

type cacheTest struct {
	employeeCache interface {
		internal.Configurer
		internal.Opener
		internal.Clearer
		cache.Cache
	}
}

func newCacheTest(cacheType string) *cacheTest {
	var employeeCache interface {
		internal.Configurer
		internal.Opener
		internal.Clearer
		cache.Cache
	}

	switch cacheType {
	case "memory":
		employeeCache = cache.NewMemory()
	case "redis":
		employeeCache = cache.NewRedis()
	case "memcached":
		employeeCache = cache.NewMemcached()
	case "stash-memory":
		employeeCache = cache.NewStash(memory.New())
	case "stash-redis":
		employeeCache = cache.NewStash(redis.New())
	}
	return &cacheTest{
		employeeCache: employeeCache,
	}
}

func (c *cacheTest) TestCache(t *testing.T) {
	//create employees
	userId := int64(1)
	employees := make([]*data.Employee, 0, 5)
	for i := int64(1); i <= 5; i++ {
		employees = append(employees, &data.Employee{
			Id:     i,
			UserId: userId,
			Fields: map[string]data.FieldValue{
				"Full Name": {Value: internal.GenerateId(), Type: data.FieldTypeText},
			},
			CreatedAt: time.Now().Unix(),
			UpdatedAt: time.Now().Unix(),
		})
	}
	search := data.EmployeeSearch{UserId: &userId}

	//create context
	ctx := context.TODO()

	//clear cache
	err := c.employeeCache.Clear(ctx)
	assert.Nil(t, err)

	// write employees without a search
	err = c.employeeCache.EmployeesWrite(ctx, data.EmployeeSearch{}, employees...)
	assert.Nil(t, err)

	// read employee[0]
	employeeRead, err := c.employeeCache.EmployeeRead(ctx, employees[0].Id)
	assert.Nil(t, err)
	assert.Equal(t, employees[0], employeeRead)

	// read employee[1]
	employeeRead, err = c.employeeCache.EmployeeRead(ctx, employees[1].Id)
	assert.Nil(t, err)
	assert.Equal(t, employees[1], employeeRead)

	// the search itself isn't cached yet
	_, err = c.employeeCache.EmployeesRead(ctx, search)
	assert.NotNil(t, err)

	// write the search
	err = c.employeeCache.EmployeesWrite(ctx, search, employees...)
	assert.Nil(t, err)

	// read employees
	employeesRead, err := c.employeeCache.EmployeesRead(ctx, search)
	assert.Nil(t, err)
	assert.Equal(t, len(employees), len(employeesRead))
	for _, employee := range employees {
		assert.Contains(t, employeesRead, employee)
	}

	// delete employee[1]
	err = c.employeeCache.EmployeesDelete(ctx, employees[1].Id)
	assert.Nil(t, err)

	// attempt to read employee[1]
	employeeRead, err = c.employeeCache.EmployeeRead(ctx, employees[1].Id)
	assert.NotNil(t, err)
	assert.Nil(t, employeeRead)

	// the search referenced employee[1], so it's stale now
	_, err = c.employeeCache.EmployeesRead(ctx, search)
	assert.NotNil(t, err)

	// re-write the search, then drop every search
	err = c.employeeCache.EmployeesWrite(ctx, search, employees...)
	assert.Nil(t, err)
	err = c.employeeCache.SearchesClear(ctx)
	assert.Nil(t, err)
	_, err = c.employeeCache.EmployeesRead(ctx, search)
	assert.NotNil(t, err)
}

func testCache(t *testing.T, cacheType string) {
	c := newCacheTest(cacheType)

	ctx := context.TODO()
	err := c.employeeCache.Configure(envs)
	if !assert.Nil(t, err) {
		assert.FailNow(t, "unable to configure cache")
	}
	err = c.employeeCache.Open(ctx)
	if !assert.Nil(t, err) {
		assert.FailNow(t, "unable to open cache")
	}
	defer func() {
		if err := c.employeeCache.Close(ctx); err != nil {
			t.Logf("error while closing cache: %s", err)
		}
	}()
	t.Run("Cache", c.TestCache)
}

func TestCacheMemory(t *testing.T) {
	testCache(t, "memory")
}

func TestCacheStashMemory(t *testing.T) {
	testCache(t, "stash-memory")
}

func TestCacheMemoryInProgress(t *testing.T) {
	inProgressEnvs := map[string]string{
		"CACHE_ENABLE_IN_PROGRESS": "true",
		"CACHE_SET_READ_TTL":       "1",
		"CACHE_PRUNE_INTERVAL":     "1",
	}
	employeeCache := cache.NewMemory()

	ctx := context.TODO()
	err := employeeCache.Configure(inProgressEnvs)
	if !assert.Nil(t, err) {
		assert.FailNow(t, "unable to configure cache")
	}
	err = employeeCache.Open(ctx)
	if !assert.Nil(t, err) {
		assert.FailNow(t, "unable to open cache")
	}
	defer func() {
		if err := employeeCache.Close(ctx); err != nil {
			t.Logf("error while closing cache: %s", err)
		}
	}()

	// the first miss sets the read, the second sees it set
	_, err = employeeCache.EmployeeRead(ctx, 1)
	assert.ErrorIs(t, err, cache.ErrEmployeeReadSet)
	_, err = employeeCache.EmployeeRead(ctx, 1)
	assert.ErrorIs(t, err, cache.ErrEmployeeReadAlreadySet)

	// the prune goroutine expires the set read
	time.Sleep(2500 * time.Millisecond)
	_, err = employeeCache.EmployeeRead(ctx, 1)
	assert.ErrorIs(t, err, cache.ErrEmployeeReadSet)

	// writing the employee clears the set read
	userId := int64(1)
	employee := &data.Employee{Id: 1, UserId: userId,
		Fields: map[string]data.FieldValue{
			"Full Name": {Value: "Georgi Facello", Type: data.FieldTypeText},
		}}
	err = employeeCache.EmployeesWrite(ctx, data.EmployeeSearch{}, employee)
	assert.Nil(t, err)
	employeeRead, err := employeeCache.EmployeeRead(ctx, 1)
	assert.Nil(t, err)
	assert.Equal(t, employee, employeeRead)

	// searches follow the same machinery
	search := data.EmployeeSearch{UserId: &userId}
	_, err = employeeCache.EmployeesRead(ctx, search)
	assert.ErrorIs(t, err, cache.ErrEmployeesSearchSet)
	_, err = employeeCache.EmployeesRead(ctx, search)
	assert.ErrorIs(t, err, cache.ErrEmployeesSearchAlreadySet)
	err = employeeCache.EmployeesWrite(ctx, search, employee)
	assert.Nil(t, err)
	employeesRead, err := employeeCache.EmployeesRead(ctx, search)
	assert.Nil(t, err)
	assert.Len(t, employeesRead, 1)
}
