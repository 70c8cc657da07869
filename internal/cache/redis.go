package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/antonio-alexander/go-employee-manager/internal"
	"github.com/antonio-alexander/go-employee-manager/internal/data"
	"github.com/antonio-alexander/go-employee-manager/internal/utilities"

	"github.com/redis/go-redis/v9"
)

const (
	hashKeyEmployees       string = "employees"
	hashKeySearch          string = "search"
	hashKeyInProgress      string = "in_progress_employees"
	hashKeyInProgressMutex string = "in_progress_mutex"
)

type redisCache struct {
	sync.WaitGroup
	redisClient *redis.Client
	config      struct {
		address                 string
		port                    string
		password                string
		database                int
		timeout                 time.Duration
		inProgressPruneInterval time.Duration
		inProgressTTL           time.Duration
		inProgressEnabled       bool
		mutexExpiration         time.Duration
		mutexRetryInterval      time.Duration
	}
	ctx       context.Context
	ctxCancel context.CancelFunc
	utilities.Logger
}

func NewRedis(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	internal.Clearer
	Cache
} {
	c := &redisCache{}
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

func (c *redisCache) launchPruneSetRead() {
	started := make(chan struct{})
	c.Add(1)
	go func() {
		defer c.Done()

		pruneFx := func() {
			token := c.lock()
			defer c.unlock(token)

			var fieldsToDelete []string

			//the iterator alternates between field and value
			hscanIter := c.redisClient.HScan(c.ctx, hashKeyInProgress, 0, "*", 0).Iterator()
			for hscanIter.Next(c.ctx) {
				field := hscanIter.Val()
				if !hscanIter.Next(c.ctx) {
					break
				}
				t, _ := strconv.ParseInt(hscanIter.Val(), 10, 64)
				if time.Since(time.Unix(0, t)) > c.config.inProgressTTL {
					fieldsToDelete = append(fieldsToDelete, field)
				}
			}
			if err := hscanIter.Err(); err != nil {
				return
			}
			if len(fieldsToDelete) > 0 {
				_, _ = c.redisClient.HDel(c.ctx, hashKeyInProgress, fieldsToDelete...).Result()
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
				pruneFx()
			}
		}
	}()
	<-started
}

// lock implements a distributed mutex so multiple instances sharing
// the cache don't race on the in progress hash; the returned token
// identifies this acquisition and is required to unlock
func (r *redisCache) lock() string {
	token := internal.GenerateId()
	lockFx := func() bool {
		result, err := r.redisClient.SetNX(r.ctx, hashKeyInProgressMutex,
			token, r.config.mutexExpiration).Result()
		if err != nil {
			return false
		}
		return result
	}
	if lockFx() {
		return token
	}
	tRetry := time.NewTicker(r.config.mutexRetryInterval)
	defer tRetry.Stop()
	for {
		select {
		case <-tRetry.C:
			if lockFx() {
				return token
			}
		case <-r.ctx.Done():
			return token
		}
	}
}

// unlock releases the mutex; the token comparison ensures an expired
// acquisition can't release a lock now held by someone else
func (r *redisCache) unlock(token string) error {
	script := `
			local key = KEYS[1]
			local expected_value = ARGV[1]

			local current_value = redis.call('GET', key)

			if current_value == expected_value then
			    return redis.call('DEL', key)
			else
		    	return 0 -- Key not deleted (value did not match)
			end
		`
	item, err := r.redisClient.Eval(r.ctx, script,
		[]string{hashKeyInProgressMutex}, token).Result()
	if err != nil {
		return err
	}
	if i, ok := item.(int64); !ok || i != 1 {
		err := errors.New("unlock token didn't match the lock holder")
		r.Error(r.ctx, "error while unlocking mutex: %s", err)
		return err
	}
	return nil
}

func (c *redisCache) searchReadSet(ctx context.Context, searchKey string) error {
	if !c.config.inProgressEnabled {
		return ErrEmployeeSearchNotCached
	}
	token := c.lock()
	defer c.unlock(token)
	tNow := time.Now().UnixNano()
	result, err := c.redisClient.HSetNX(ctx, hashKeyInProgress, searchKey,
		fmt.Sprint(tNow)).Result()
	if err != nil {
		return fmt.Errorf("error while setting employee search in progress: %w", err)
	}
	if !result {
		return ErrEmployeesSearchAlreadySet
	}
	return ErrEmployeesSearchSet
}

func (c *redisCache) Configure(envs map[string]string) error {
	c.config.mutexExpiration = 10 * time.Second
	c.config.mutexRetryInterval = time.Second
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
	if redisAddress, ok := envs["REDIS_ADDRESS"]; ok {
		c.config.address = redisAddress
	}
	if redisPort, ok := envs["REDIS_PORT"]; ok {
		c.config.port = redisPort
	}
	if redisPassword, ok := envs["REDIS_PASSWORD"]; ok {
		c.config.password = redisPassword
	}
	if redisDatabase, ok := envs["REDIS_DATABASE"]; ok {
		i, _ := strconv.ParseInt(redisDatabase, 10, 64)
		c.config.database = int(i)
	}
	if redisTimeout, ok := envs["REDIS_TIMEOUT"]; ok {
		i, _ := strconv.ParseInt(redisTimeout, 10, 64)
		c.config.timeout = time.Duration(i) * time.Second
	}
	if c.config.timeout <= 0 {
		c.config.timeout = 10 * time.Second
	}
	if s, ok := envs["REDIS_MUTEX_EXPIRATION"]; ok {
		mutexExpiration, _ := strconv.Atoi(s)
		c.config.mutexExpiration = time.Second * time.Duration(mutexExpiration)
	}
	if s, ok := envs["REDIS_MUTEX_RETRY_INTERVAL"]; ok {
		mutexRetryInterval, _ := strconv.Atoi(s)
		c.config.mutexRetryInterval = time.Second * time.Duration(mutexRetryInterval)
	}
	return nil
}

func (c *redisCache) Open(ctx context.Context) error {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(c.config.address, c.config.port),
		Password: c.config.password,
		DB:       c.config.database,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return err
	}
	c.redisClient = redisClient
	c.ctx, c.ctxCancel = context.WithCancel(context.Background())
	if c.config.inProgressEnabled {
		c.launchPruneSetRead()
	}
	return nil
}

func (c *redisCache) Close(ctx context.Context) error {
	c.ctxCancel()
	if c.config.inProgressEnabled {
		c.Wait()
	}
	if err := c.redisClient.Close(); err != nil {
		c.Error(ctx, "error while shutting down redis client: %s", err)
	}
	return nil
}

func (c *redisCache) Clear(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.timeout)
	defer cancel()
	if _, err := c.redisClient.Del(ctx, hashKeyEmployees).Result(); err != nil {
		return err
	}
	if _, err := c.redisClient.Del(ctx, hashKeySearch).Result(); err != nil {
		return err
	}
	if _, err := c.redisClient.Del(ctx, hashKeyInProgress).Result(); err != nil {
		return err
	}
	if _, err := c.redisClient.Del(ctx, hashKeyInProgressMutex).Result(); err != nil {
		return err
	}
	return nil
}

func (c *redisCache) SearchesClear(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.timeout)
	defer cancel()
	if _, err := c.redisClient.Del(ctx, hashKeySearch).Result(); err != nil {
		return err
	}
	return nil
}

func (c *redisCache) EmployeeRead(ctx context.Context, employeeId int64) (*data.Employee, error) {
	key := fmt.Sprint(employeeId)
	ctx, cancel := context.WithTimeout(ctx, c.config.timeout)
	defer cancel()
	value, err := c.redisClient.HGet(ctx, hashKeyEmployees, key).Result()
	if err != nil {
		switch {
		default:
			return nil, err
		case errors.Is(err, redis.Nil):
			if !c.config.inProgressEnabled {
				return nil, ErrEmployeeNotCached
			}
			token := c.lock()
			defer c.unlock(token)
			tNow := time.Now().UnixNano()
			result, err := c.redisClient.HSetNX(ctx, hashKeyInProgress, key,
				fmt.Sprint(tNow)).Result()
			if err != nil {
				return nil, fmt.Errorf("error while setting employee (%s) read in progress: %w", key, err)
			}
			if !result {
				return nil, ErrEmployeeReadAlreadySet
			}
			return nil, ErrEmployeeReadSet
		}
	}
	employee := &data.Employee{}
	if err := employee.UnmarshalBinary([]byte(value)); err != nil {
		return nil, err
	}
	return employee, nil
}

func (c *redisCache) EmployeesRead(ctx context.Context, search data.EmployeeSearch) ([]*data.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.timeout)
	defer cancel()
	searchKey := search.ToKey()
	value, err := c.redisClient.HGet(ctx, hashKeySearch, searchKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, c.searchReadSet(ctx, searchKey)
		}
		return nil, err
	}
	employeeIds := strings.Split(value, ",")
	employees := make([]*data.Employee, 0, len(employeeIds))
	for _, employeeId := range employeeIds {
		value, err := c.redisClient.HGet(ctx, hashKeyEmployees, employeeId).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				//a member of the result set was invalidated, so the
				// whole search is stale
				return nil, c.searchReadSet(ctx, searchKey)
			}
			return nil, err
		}
		employee := &data.Employee{}
		if err := employee.UnmarshalBinary([]byte(value)); err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	return employees, nil
}

func (c *redisCache) EmployeesWrite(ctx context.Context, search data.EmployeeSearch, employees ...*data.Employee) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.timeout)
	defer cancel()
	searchKey := search.ToKey()
	employeeIds := make([]string, 0, len(employees))
	for _, employee := range employees {
		bytes, err := employee.MarshalBinary()
		if err != nil {
			return err
		}
		if _, err := c.redisClient.HSet(ctx, hashKeyEmployees,
			fmt.Sprint(employee.Id), string(bytes)).Result(); err != nil {
			return err
		}
		employeeIds = append(employeeIds, fmt.Sprint(employee.Id))
	}
	//an empty search doesn't identify a result set; only the
	// employees themselves are cached
	if searchKey != "" {
		if _, err := c.redisClient.HSet(ctx, hashKeySearch, searchKey,
			strings.Join(employeeIds, ",")).Result(); err != nil {
			return err
		}
	}
	if c.config.inProgressEnabled {
		token := c.lock()
		defer c.unlock(token)

		fieldsToDelete := append(employeeIds, searchKey)
		_, _ = c.redisClient.HDel(ctx, hashKeyInProgress, fieldsToDelete...).Result()
	}
	return nil
}

func (c *redisCache) EmployeesDelete(ctx context.Context, e ...int64) error {
	var employeeIds []string

	if len(e) <= 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, c.config.timeout)
	defer cancel()
	for _, employeeId := range e {
		employeeIds = append(employeeIds, fmt.Sprint(employeeId))
	}
	if _, err := c.redisClient.HDel(ctx, hashKeyEmployees,
		employeeIds...).Result(); err != nil {
		return err
	}
	if c.config.inProgressEnabled {
		token := c.lock()
		defer c.unlock(token)

		_, _ = c.redisClient.HDel(ctx, hashKeyInProgress,
			employeeIds...).Result()
	}
	return nil
}
