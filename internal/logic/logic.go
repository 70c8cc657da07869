package logic

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/antonio-alexander/go-employee-manager/internal"
	"github.com/antonio-alexander/go-employee-manager/internal/auth"
	"github.com/antonio-alexander/go-employee-manager/internal/cache"
	"github.com/antonio-alexander/go-employee-manager/internal/data"
	"github.com/antonio-alexander/go-employee-manager/internal/sql"
	"github.com/antonio-alexander/go-employee-manager/internal/utilities"

	"github.com/pkg/errors"
)

const (
	counterEmployeeRead    string = "employee_read"
	counterEmployeesSearch string = "employees_search"
)

type Logic interface {
	//authentication
	Login(ctx context.Context, email, password string) (*data.TokenPair, error)
	TokenRefresh(ctx context.Context, refreshToken string) (*data.TokenPair, error)
	Register(ctx context.Context, userPartial data.UserPartial, password2 string) (*data.User, *data.TokenPair, error)
	PasswordChange(ctx context.Context, userId int64, oldPassword, newPassword string) error
	ProfileUpdate(ctx context.Context, userId int64, userPartial data.UserPartial) (*data.User, error)

	//form fields
	FormFieldCreate(ctx context.Context, createdBy int64, formFieldPartial data.FormFieldPartial) (*data.FormField, error)
	FormFieldRead(ctx context.Context, userId, fieldId int64) (*data.FormField, error)
	FormFieldsSearch(ctx context.Context, createdBy int64) ([]*data.FormField, error)
	FormFieldUpdate(ctx context.Context, userId, fieldId int64, formFieldPartial data.FormFieldPartial) (*data.FormField, error)
	FormFieldDelete(ctx context.Context, userId, fieldId int64) error
	FormFieldsReorder(ctx context.Context, createdBy int64, fieldIds []int64) error

	//employees
	EmployeeCreate(ctx context.Context, userId int64, employeePartial data.EmployeePartial) (*data.Employee, error)
	EmployeeRead(ctx context.Context, userId int64, isStaff bool, employeeId int64) (*data.Employee, error)
	EmployeesSearch(ctx context.Context, userId int64, isStaff bool, search data.EmployeeSearch) ([]*data.Employee, error)
	EmployeeUpdate(ctx context.Context, userId, employeeId int64, employeePartial data.EmployeePartial) (*data.Employee, error)
	EmployeeDelete(ctx context.Context, userId, employeeId int64) error

	//cache
	CacheClear(ctx context.Context) error
}

type logic struct {
	sync.RWMutex
	sql.Sql
	auth         auth.Auth
	cache        cache.Cache
	cacheClearer internal.Clearer
	counter      utilities.Counter
	utilities.Logger
	config struct {
		cacheEnabled         bool
		mutateDisabled       bool
		cacheRetryInterval   time.Duration
		cacheMaxRetries      uint
		cacheRetryExpBackoff bool
	}
}

func NewLogic(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	Logic
} {
	l := &logic{}
	//KIM: the logger case has to come last, most of the other
	// parameters embed a logger and would match it
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case sql.Sql:
			l.Sql = p
		case cache.Cache:
			l.cache = p
			if clearer, ok := p.(internal.Clearer); ok {
				l.cacheClearer = clearer
			}
		case auth.Auth:
			l.auth = p
		case utilities.Counter:
			l.counter = p
		case utilities.Logger:
			l.Logger = p
		}
	}
	if l.Logger == nil {
		l.Logger = utilities.NewLogger()
	}
	if l.counter == nil {
		l.counter = utilities.NewCounter()
	}
	return l
}

func (l *logic) Configure(envs map[string]string) error {
	l.Lock()
	defer l.Unlock()

	if cacheEnabled, ok := envs["LOGIC_CACHE_ENABLED"]; ok {
		l.config.cacheEnabled, _ = strconv.ParseBool(cacheEnabled)
	}
	if mutateDisabled, ok := envs["LOGIC_MUTATE_DISABLED"]; ok {
		l.config.mutateDisabled, _ = strconv.ParseBool(mutateDisabled)
	}
	if s, ok := envs["CACHE_RETRY_INTERVAL"]; ok {
		seconds, _ := strconv.Atoi(s)
		l.config.cacheRetryInterval = time.Duration(seconds) * time.Second
	}
	if l.config.cacheRetryInterval <= 0 {
		l.config.cacheRetryInterval = time.Second
	}
	if s, ok := envs["CACHE_MAX_RETRIES"]; ok {
		if maxRetries, _ := strconv.Atoi(s); maxRetries > 0 {
			l.config.cacheMaxRetries = uint(maxRetries)
		}
	}
	if l.config.cacheMaxRetries == 0 {
		l.config.cacheMaxRetries = 5
	}
	if s, ok := envs["CACHE_RETRY_EXP_BACKOFF"]; ok {
		l.config.cacheRetryExpBackoff, _ = strconv.ParseBool(s)
	}
	if l.config.cacheEnabled && l.cache == nil {
		return errors.New("cache enabled without a cache")
	}
	return nil
}

func (l *logic) Open(ctx context.Context) error {
	l.Lock()
	defer l.Unlock()

	if l.config.cacheEnabled {
		l.Info(ctx, "employee cache enabled")
	}
	return nil
}

func (l *logic) Close(ctx context.Context) error {
	return nil
}

func (l *logic) CacheClear(ctx context.Context) error {
	if l.cacheClearer == nil {
		return nil
	}
	return l.cacheClearer.Clear(ctx)
}
