package sql

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/antonio-alexander/go-employee-manager/internal"
	"github.com/antonio-alexander/go-employee-manager/internal/data"
	"github.com/antonio-alexander/go-employee-manager/internal/migrations"
	"github.com/antonio-alexander/go-employee-manager/internal/utilities"

	"github.com/cenkalti/backoff/v5"
	_ "github.com/go-sql-driver/mysql" //import for driver support
)

const (
	databaseIsolation = sql.LevelSerializable
	tableUsers        = "users"
	tableFormFields   = "form_fields"
	tableEmployees    = "employees"
)

type Migrator interface {
	Migrate(ctx context.Context) error
}

type Sql interface {
	//users
	UserCreate(ctx context.Context, userPartial data.UserPartial, passwordHash string) (*data.User, error)
	SuperuserCreate(ctx context.Context, userPartial data.UserPartial, passwordHash string) (*data.User, error)
	UserRead(ctx context.Context, userId int64) (*data.User, error)
	UserReadByEmail(ctx context.Context, email string) (*data.User, error)
	UserPasswordRead(ctx context.Context, userId int64) (string, error)
	UserUpdate(ctx context.Context, userId int64, userPartial data.UserPartial) (*data.User, error)
	UserPasswordUpdate(ctx context.Context, userId int64, passwordHash string) error
	UserLastLoginUpdate(ctx context.Context, userId int64) error
	UserDelete(ctx context.Context, userId int64) error

	//form fields
	FormFieldCreate(ctx context.Context, createdBy int64, formFieldPartial data.FormFieldPartial) (*data.FormField, error)
	FormFieldRead(ctx context.Context, fieldId int64) (*data.FormField, error)
	FormFieldsSearch(ctx context.Context, createdBy int64) ([]*data.FormField, error)
	FormFieldUpdate(ctx context.Context, fieldId int64, formFieldPartial data.FormFieldPartial) (*data.FormField, error)
	FormFieldDelete(ctx context.Context, fieldId int64) error
	FormFieldsReorder(ctx context.Context, createdBy int64, fieldIds []int64) error

	//employees
	EmployeeCreate(ctx context.Context, userId int64, employeePartial data.EmployeePartial) (*data.Employee, error)
	EmployeeRead(ctx context.Context, employeeId int64) (*data.Employee, error)
	EmployeesSearch(ctx context.Context, search data.EmployeeSearch) ([]*data.Employee, error)
	EmployeeUpdate(ctx context.Context, employeeId int64, employeePartial data.EmployeePartial) (*data.Employee, error)
	EmployeeDelete(ctx context.Context, employeeId int64) error
}

type mySql struct {
	sync.RWMutex
	config struct {
		Hostname       string        `json:"hostname"`
		Port           string        `json:"port"`
		Username       string        `json:"username"`
		Password       string        `json:"password"`
		Database       string        `json:"database"`
		ConnectRetries int           `json:"connect_retries"`
		QueryTimeout   time.Duration `json:"query_timeout"`
		ParseTime      bool          `json:"parse_time"`
	}
	*sql.DB
	utilities.Logger
	injected bool
	opened   bool
}

func NewMySql(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	internal.Pinger
	Migrator
	Sql
} {
	m := &mySql{}
	for _, parameter := range parameters {
		switch v := parameter.(type) {
		case utilities.Logger:
			m.Logger = v
		case *sql.DB:
			m.DB = v
			m.injected = true
		}
	}
	if m.Logger == nil {
		m.Logger = utilities.NewLogger()
	}
	return m
}

func (s *mySql) Configure(envs map[string]string) error {
	//the scanners read DATETIME columns into time.Time; without
	// parseTime the driver returns []byte and every read fails
	s.config.ParseTime = true
	if databaseHost := envs["DATABASE_HOST"]; databaseHost != "" {
		s.config.Hostname = databaseHost
	}
	if databasePort := envs["DATABASE_PORT"]; databasePort != "" {
		s.config.Port = databasePort
	}
	if database := envs["DATABASE_NAME"]; database != "" {
		s.config.Database = database
	}
	if username := envs["DATABASE_USER"]; username != "" {
		s.config.Username = username
	}
	if password := envs["DATABASE_PASSWORD"]; password != "" {
		s.config.Password = password
	}
	if _, ok := envs["DATABASE_CONNECT_RETRIES"]; ok {
		i, _ := strconv.ParseInt(envs["DATABASE_CONNECT_RETRIES"], 10, 64)
		s.config.ConnectRetries = int(i)
	}
	if _, ok := envs["DATABASE_QUERY_TIMEOUT"]; ok {
		i, _ := strconv.ParseInt(envs["DATABASE_QUERY_TIMEOUT"], 10, 64)
		s.config.QueryTimeout = time.Duration(i) * time.Second
	}
	if _, ok := envs["DATABASE_PARSE_TIME"]; ok {
		s.config.ParseTime, _ = strconv.ParseBool(envs["DATABASE_PARSE_TIME"])
	}
	return nil
}

func (s *mySql) Open(ctx context.Context) error {
	if s.injected {
		s.opened = true
		return nil
	}
	db, err := sql.Open("mysql", s.dataSourceName())
	if err != nil {
		return err
	}
	pingFx := func() (struct{}, error) {
		return struct{}{}, db.PingContext(ctx)
	}
	maxTries := uint(1)
	if s.config.ConnectRetries > 0 {
		maxTries = uint(s.config.ConnectRetries)
	}
	if _, err := backoff.Retry(ctx, pingFx,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(maxTries)); err != nil {
		return err
	}
	s.DB = db
	s.opened = true
	return nil
}

func (s *mySql) Close(ctx context.Context) error {
	if !s.opened {
		return nil
	}
	if !s.injected {
		if err := s.DB.Close(); err != nil {
			s.Error(ctx, "error while closing sql: %s", err)
		}
	}
	s.opened = false
	return nil
}

func (s *mySql) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

// Migrate applies any pending schema migrations.
func (s *mySql) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, s.DB, s.Logger, migrations.All())
}

func (s *mySql) dataSourceName() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=%t",
		s.config.Username, s.config.Password, s.config.Hostname,
		s.config.Port, s.config.Database, s.config.ParseTime)
}

// timeoutContext applies the configured query timeout, if any.
func (s *mySql) timeoutContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.config.QueryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.config.QueryTimeout)
}
