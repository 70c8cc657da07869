package service_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/antonio-alexander/go-employee-manager/internal"
	"github.com/antonio-alexander/go-employee-manager/internal/auth"
	"github.com/antonio-alexander/go-employee-manager/internal/cache"
	"github.com/antonio-alexander/go-employee-manager/internal/data"
	"github.com/antonio-alexander/go-employee-manager/internal/logic"
	"github.com/antonio-alexander/go-employee-manager/internal/service"
	internalSql "github.com/antonio-alexander/go-employee-manager/internal/sql"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var (
	envs = map[string]string{
		//auth
		"AUTH_JWT_SECRET": "cSRbBKn2B3PzW2sQ7wNucGcBUsXi68Cd",
		//logic
		"LOGIC_CACHE_ENABLED": "false",
		//sql
		"DATABASE_QUERY_TIMEOUT": "10",
		//service
		"SERVICE_SHUTDOWN_TIMEOUT": "10",
		"SERVICE_LOGIN_RATE":       "0",
	}
)

func init() {
	for _, env := range os.Environ() {
		if s := strings.Split(env, "="); len(s) > 1 {
			envs[s[0]] = strings.Join(s[1:], "=")
		}
	}
}

var userColumns = []string{"id", "email", "first_name", "last_name", "phone",
	"address", "is_staff", "is_superuser", "is_active", "date_joined", "last_login"}

var formFieldColumns = []string{"id", "label", "field_type", "required",
	"sort_order", "created_by", "created_at"}

var employeeColumns = []string{"id", "user_id", "fields", "created_at", "updated_at"}

type serviceTest struct {
	mock sqlmock.Sqlmock
	sql  interface {
		internal.Configurer
		internal.Opener
		internalSql.Sql
	}
	auth interface {
		internal.Configurer
		auth.Auth
	}
	logic interface {
		internal.Configurer
		internal.Opener
		logic.Logic
	}
	service interface {
		internal.Configurer
		internal.Opener
		http.Handler
	}
	server *httptest.Server
	client *http.Client
}

func newServiceTest(t *testing.T) *serviceTest {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		assert.FailNow(t, "unable to create sql mock")
	}
	sql := internalSql.NewMySql(db)
	a := auth.NewAuth()
	c := cache.NewMemory()
	l := logic.NewLogic(sql, c, a)
	s := service.NewService(l, a, sql)
	return &serviceTest{
		mock:    mock,
		sql:     sql,
		auth:    a,
		logic:   l,
		service: s,
		client:  &http.Client{},
	}
}

func (s *serviceTest) Configure(t *testing.T, envs map[string]string) {
	if err := s.sql.Configure(envs); err != nil {
		assert.FailNow(t, "unable to configure sql: %s", err)
	}
	if err := s.auth.Configure(envs); err != nil {
		assert.FailNow(t, "unable to configure auth: %s", err)
	}
	if err := s.logic.Configure(envs); err != nil {
		assert.FailNow(t, "unable to configure logic: %s", err)
	}
	if err := s.service.Configure(envs); err != nil {
		assert.FailNow(t, "unable to configure service: %s", err)
	}
	s.server = httptest.NewServer(s.service)
	s.client = s.server.Client()
}

func (s *serviceTest) Close() {
	if s.server != nil {
		s.server.Close()
	}
}

// accessToken mints a valid access token without going through the
// login flow
func (s *serviceTest) accessToken(t *testing.T, userId int64, isStaff bool) string {
	tokens, err := s.auth.GeneratePair(&data.User{
		Id:        userId,
		Email:     fmt.Sprintf("user%d@example.com", userId),
		FirstName: "Test",
		LastName:  "User",
		IsStaff:   isStaff,
	})
	if err != nil {
		assert.FailNow(t, "unable to generate token pair: %s", err)
	}
	return tokens.Access
}

func (s *serviceTest) doRequest(t *testing.T, method, route, token string, request *data.Request) (int, *data.Response) {
	body := bytes.NewBuffer(nil)

	if request != nil {
		payload, err := json.Marshal(request)
		if err != nil {
			assert.FailNow(t, "unable to marshal request: %s", err)
		}
		body = bytes.NewBuffer(payload)
	}
	httpRequest, err := http.NewRequest(method, s.server.URL+route, body)
	if err != nil {
		assert.FailNow(t, "unable to create request: %s", err)
	}
	if token != "" {
		httpRequest.Header.Set("Authorization", "Bearer "+token)
	}
	httpResponse, err := s.client.Do(httpRequest)
	if err != nil {
		assert.FailNow(t, "unable to execute request: %s", err)
	}
	defer httpResponse.Body.Close()
	response := &data.Response{}
	_ = json.NewDecoder(httpResponse.Body).Decode(response)
	return httpResponse.StatusCode, response
}

func (s *serviceTest) TestAuthentication(t *testing.T) {
	email, firstName, lastName := "sarah.connor@sky.net", "Sarah", "Connor"
	password := "Str0ng!Passw0rd"
	dateJoined := time.Now()

	// register
	s.mock.ExpectExec("INSERT INTO users").
		WithArgs(email, firstName, lastName, sqlmock.AnyArg(), false, false,
			true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	s.mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\?").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(int64(1), email, firstName, lastName, nil, nil, false, false,
				true, dateJoined, nil))
	statusCode, response := s.doRequest(t, http.MethodPost, data.RouteRegister, "",
		&data.Request{
			UserPartial: &data.UserPartial{
				Email:     &email,
				FirstName: &firstName,
				LastName:  &lastName,
				Password:  &password,
			},
			Password2: password,
		})
	assert.Equal(t, http.StatusCreated, statusCode)
	assert.NotNil(t, response.User)
	assert.NotEmpty(t, response.Access)
	assert.NotEmpty(t, response.Refresh)

	// register with a mismatched confirmation
	statusCode, response = s.doRequest(t, http.MethodPost, data.RouteRegister, "",
		&data.Request{
			UserPartial: &data.UserPartial{
				Email:     &email,
				FirstName: &firstName,
				LastName:  &lastName,
				Password:  &password,
			},
			Password2: "D1fferent!Password",
		})
	assert.Equal(t, http.StatusBadRequest, statusCode)
	assert.NotEmpty(t, response.Error)

	// login
	passwordHash, err := auth.HashAndSaltPassword([]byte(password))
	assert.Nil(t, err)
	s.mock.ExpectQuery("SELECT (.+) FROM users WHERE email = \\?").
		WithArgs(email).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(int64(1), email, firstName, lastName, nil, nil, false, false,
				true, dateJoined, nil))
	s.mock.ExpectQuery("SELECT password FROM users WHERE id = \\?").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"password"}).AddRow(passwordHash))
	s.mock.ExpectExec("UPDATE users SET last_login = \\? WHERE id = \\?").
		WithArgs(sqlmock.AnyArg(), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	statusCode, response = s.doRequest(t, http.MethodPost, data.RouteLogin, "",
		&data.Request{Email: email, Password: password})
	assert.Equal(t, http.StatusOK, statusCode)
	assert.NotEmpty(t, response.Access)
	assert.NotEmpty(t, response.Refresh)

	// login with an unknown email
	s.mock.ExpectQuery("SELECT (.+) FROM users WHERE email = \\?").
		WithArgs("unknown@sky.net").
		WillReturnRows(sqlmock.NewRows(userColumns))
	statusCode, response = s.doRequest(t, http.MethodPost, data.RouteLogin, "",
		&data.Request{Email: "unknown@sky.net", Password: password})
	assert.Equal(t, http.StatusUnauthorized, statusCode)
	assert.NotEmpty(t, response.Error)

	// refresh
	tokens, err := s.auth.GeneratePair(&data.User{Id: 1, Email: email,
		FirstName: firstName, LastName: lastName})
	assert.Nil(t, err)
	s.mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\?").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(int64(1), email, firstName, lastName, nil, nil, false, false,
				true, dateJoined, nil))
	statusCode, response = s.doRequest(t, http.MethodPost, data.RouteRefresh, "",
		&data.Request{Refresh: tokens.Refresh})
	assert.Equal(t, http.StatusOK, statusCode)
	assert.NotEmpty(t, response.Access)

	// refresh with an access token is rejected
	statusCode, _ = s.doRequest(t, http.MethodPost, data.RouteRefresh, "",
		&data.Request{Refresh: tokens.Access})
	assert.Equal(t, http.StatusUnauthorized, statusCode)

	// wrong method
	statusCode, _ = s.doRequest(t, http.MethodGet, data.RouteLogin, "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, statusCode)

	assert.Nil(t, s.mock.ExpectationsWereMet())
}

func (s *serviceTest) TestEmployees(t *testing.T) {
	token := s.accessToken(t, 1, false)
	now := time.Now()
	fieldsJson := []byte(`{"Name":{"value":"John","type":"text"}}`)

	// unauthorized without a token
	statusCode, _ := s.doRequest(t, http.MethodGet, data.RouteEmployees, "", nil)
	assert.Equal(t, http.StatusUnauthorized, statusCode)

	// create employee
	s.mock.ExpectExec("INSERT INTO employees").
		WithArgs(int64(1), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(10, 1))
	s.mock.ExpectQuery("SELECT (.+) FROM employees WHERE id = \\?").
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows(employeeColumns).
			AddRow(int64(10), int64(1), fieldsJson, now, now))
	statusCode, response := s.doRequest(t, http.MethodPost, data.RouteEmployees, token,
		&data.Request{
			EmployeePartial: &data.EmployeePartial{
				Fields: &map[string]data.FieldValue{
					"Name": {Value: "John", Type: data.FieldTypeText},
				},
			},
		})
	assert.Equal(t, http.StatusCreated, statusCode)
	assert.NotNil(t, response.Employee)
	assert.Equal(t, int64(10), response.Employee.Id)

	// read employee
	s.mock.ExpectQuery("SELECT (.+) FROM employees WHERE id = \\?").
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows(employeeColumns).
			AddRow(int64(10), int64(1), fieldsJson, now, now))
	statusCode, response = s.doRequest(t, http.MethodGet,
		fmt.Sprintf(data.RouteEmployeesEmployeeIdf, 10), token, nil)
	assert.Equal(t, http.StatusOK, statusCode)
	assert.NotNil(t, response.Employee)
	assert.Equal(t, "John", response.Employee.Fields["Name"].Value)

	// read an employee owned by someone else
	s.mock.ExpectQuery("SELECT (.+) FROM employees WHERE id = \\?").
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows(employeeColumns).
			AddRow(int64(11), int64(99), fieldsJson, now, now))
	statusCode, _ = s.doRequest(t, http.MethodGet,
		fmt.Sprintf(data.RouteEmployeesEmployeeIdf, 11), token, nil)
	assert.Equal(t, http.StatusNotFound, statusCode)

	// search employees (scoped to the caller)
	s.mock.ExpectQuery("SELECT (.+) FROM employees WHERE user_id = \\?").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(employeeColumns).
			AddRow(int64(10), int64(1), fieldsJson, now, now))
	statusCode, response = s.doRequest(t, http.MethodGet, data.RouteEmployees, token, nil)
	assert.Equal(t, http.StatusOK, statusCode)
	assert.Len(t, response.Employees, 1)

	// update employee
	s.mock.ExpectQuery("SELECT (.+) FROM employees WHERE id = \\?").
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows(employeeColumns).
			AddRow(int64(10), int64(1), fieldsJson, now, now))
	s.mock.ExpectExec("UPDATE employees SET fields = \\?, updated_at = \\? WHERE id = \\?").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectQuery("SELECT (.+) FROM employees WHERE id = \\?").
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows(employeeColumns).
			AddRow(int64(10), int64(1), fieldsJson, now, now))
	statusCode, response = s.doRequest(t, http.MethodPut,
		fmt.Sprintf(data.RouteEmployeesEmployeeIdf, 10), token,
		&data.Request{
			EmployeePartial: &data.EmployeePartial{
				Fields: &map[string]data.FieldValue{
					"Name": {Value: "Jane", Type: data.FieldTypeText},
				},
			},
		})
	assert.Equal(t, http.StatusOK, statusCode)
	assert.NotNil(t, response.Employee)

	// delete employee
	s.mock.ExpectQuery("SELECT (.+) FROM employees WHERE id = \\?").
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows(employeeColumns).
			AddRow(int64(10), int64(1), fieldsJson, now, now))
	s.mock.ExpectExec("DELETE FROM employees WHERE id = \\?").
		WithArgs(int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	statusCode, _ = s.doRequest(t, http.MethodDelete,
		fmt.Sprintf(data.RouteEmployeesEmployeeIdf, 10), token, nil)
	assert.Equal(t, http.StatusNoContent, statusCode)

	assert.Nil(t, s.mock.ExpectationsWereMet())
}

func (s *serviceTest) TestFormFields(t *testing.T) {
	token := s.accessToken(t, 1, false)
	now := time.Now()
	label, fieldType := "Name", data.FieldTypeText

	// create form field
	s.mock.ExpectExec("INSERT INTO form_fields").
		WithArgs(label, fieldType, int64(1), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(5, 1))
	s.mock.ExpectQuery("SELECT (.+) FROM form_fields WHERE id = \\?").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(formFieldColumns).
			AddRow(int64(5), label, fieldType, true, int64(0), int64(1), now))
	statusCode, response := s.doRequest(t, http.MethodPost, data.RouteFormFields, token,
		&data.Request{
			FormFieldPartial: &data.FormFieldPartial{
				Label:     &label,
				FieldType: &fieldType,
			},
		})
	assert.Equal(t, http.StatusCreated, statusCode)
	assert.NotNil(t, response.FormField)
	assert.Equal(t, int64(5), response.FormField.Id)

	// create with an unsupported field type
	badFieldType := "hologram"
	statusCode, _ = s.doRequest(t, http.MethodPost, data.RouteFormFields, token,
		&data.Request{
			FormFieldPartial: &data.FormFieldPartial{
				Label:     &label,
				FieldType: &badFieldType,
			},
		})
	assert.Equal(t, http.StatusBadRequest, statusCode)

	// list form fields
	s.mock.ExpectQuery("SELECT (.+) FROM form_fields WHERE created_by = \\?").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(formFieldColumns).
			AddRow(int64(5), label, fieldType, true, int64(0), int64(1), now))
	statusCode, response = s.doRequest(t, http.MethodGet, data.RouteFormFields, token, nil)
	assert.Equal(t, http.StatusOK, statusCode)
	assert.Len(t, response.FormFields, 1)

	// reorder
	s.mock.ExpectBegin()
	s.mock.ExpectExec("UPDATE form_fields SET sort_order = \\?").
		WithArgs(0, int64(6), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectExec("UPDATE form_fields SET sort_order = \\?").
		WithArgs(1, int64(5), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()
	statusCode, response = s.doRequest(t, http.MethodPost, data.RouteFormFieldsOrder, token,
		&data.Request{Order: []int64{6, 5}})
	assert.Equal(t, http.StatusOK, statusCode)
	assert.Equal(t, data.StatusSuccess, response.Status)

	// wrong method on the reorder endpoint
	statusCode, _ = s.doRequest(t, http.MethodGet, data.RouteFormFieldsOrder, token, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, statusCode)

	assert.Nil(t, s.mock.ExpectationsWereMet())
}

func (s *serviceTest) TestOperationalEndpoints(t *testing.T) {
	// health
	s.mock.ExpectPing()
	response := &data.Response{}
	uriHealth := s.server.URL + data.RouteHealth
	_, err := internal.DoRequest(s.client, uriHealth, http.MethodGet, nil, response)
	assert.Nil(t, err)
	assert.Equal(t, data.StatusSuccess, response.Status)

	// version banner
	response = &data.Response{}
	uriVersion := s.server.URL + data.RouteDefault
	_, err = internal.DoRequest(s.client, uriVersion, http.MethodGet, nil, response)
	assert.Nil(t, err)
	assert.NotEmpty(t, response.Version)

	// the login page is html
	httpResponse, err := s.client.Get(s.server.URL + data.RouteLoginPage)
	assert.Nil(t, err)
	defer httpResponse.Body.Close()
	assert.Equal(t, http.StatusOK, httpResponse.StatusCode)
	assert.Contains(t, httpResponse.Header.Get("Content-Type"), "text/html")

	// metrics
	httpResponse, err = s.client.Get(s.server.URL + data.RouteMetrics)
	assert.Nil(t, err)
	defer httpResponse.Body.Close()
	assert.Equal(t, http.StatusOK, httpResponse.StatusCode)

	// cache counters are staff only
	token := s.accessToken(t, 1, false)
	statusCode, _ := s.doRequest(t, http.MethodGet, data.RouteCacheCounters, token, nil)
	assert.Equal(t, http.StatusForbidden, statusCode)
	staffToken := s.accessToken(t, 2, true)
	statusCode, _ = s.doRequest(t, http.MethodGet, data.RouteCacheCounters, staffToken, nil)
	assert.Equal(t, http.StatusOK, statusCode)

	// timers are staff only
	statusCode, _ = s.doRequest(t, http.MethodGet, data.RouteTimers, token, nil)
	assert.Equal(t, http.StatusForbidden, statusCode)
	statusCode, _ = s.doRequest(t, http.MethodGet, data.RouteTimers, staffToken, nil)
	assert.Equal(t, http.StatusOK, statusCode)
}

func TestService(t *testing.T) {
	s := newServiceTest(t)
	defer s.Close()
	s.Configure(t, envs)
	t.Run("Authentication", s.TestAuthentication)
	t.Run("Employees", s.TestEmployees)
	t.Run("FormFields", s.TestFormFields)
	t.Run("OperationalEndpoints", s.TestOperationalEndpoints)
}

func TestServiceLoginThrottle(t *testing.T) {
	s := newServiceTest(t)
	defer s.Close()
	throttleEnvs := make(map[string]string)
	for k, v := range envs {
		throttleEnvs[k] = v
	}
	throttleEnvs["SERVICE_LOGIN_RATE"] = "0.001"
	throttleEnvs["SERVICE_LOGIN_BURST"] = "1"
	s.Configure(t, throttleEnvs)

	// the first attempt consumes the burst, the second is throttled
	s.mock.ExpectQuery("SELECT (.+) FROM users WHERE email = \\?").
		WithArgs("throttle@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns))
	statusCode, _ := s.doRequest(t, http.MethodPost, data.RouteLogin, "",
		&data.Request{Email: "throttle@example.com", Password: "Password!1"})
	assert.Equal(t, http.StatusUnauthorized, statusCode)
	statusCode, response := s.doRequest(t, http.MethodPost, data.RouteLogin, "",
		&data.Request{Email: "throttle@example.com", Password: "Password!1"})
	assert.Equal(t, http.StatusTooManyRequests, statusCode)
	assert.NotEmpty(t, response.Error)

	assert.Nil(t, s.mock.ExpectationsWereMet())
}
