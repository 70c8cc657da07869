package sql_test

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/antonio-alexander/go-employee-manager/internal"
	"github.com/antonio-alexander/go-employee-manager/internal/data"
	internalSql "github.com/antonio-alexander/go-employee-manager/internal/sql"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

var (
	envs = map[string]string{
		"DATABASE_HOST":          "localhost",
		"DATABASE_PORT":          "3306",
		"DATABASE_NAME":          "employee_manager",
		"DATABASE_USER":          "mysql",
		"DATABASE_PASSWORD":      "mysql",
		"DATABASE_QUERY_TIMEOUT": "10",
		"DATABASE_PARSE_TIME":    "true",
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

type sqlTest struct {
	mock sqlmock.Sqlmock
	sql  interface {
		internal.Configurer
		internal.Opener
		internalSql.Sql
	}
}

func newSqlTest(t *testing.T) *sqlTest {
	db, mock, err := sqlmock.New()
	if err != nil {
		assert.FailNow(t, "unable to create sql mock")
	}
	sql := internalSql.NewMySql(db)
	return &sqlTest{
		mock: mock,
		sql:  sql,
	}
}

func (s *sqlTest) TestUsers(t *testing.T) {
	ctx := context.TODO()
	dateJoined := time.Now()

	// create user
	email, firstName, lastName := "john.connor@sky.net", "John", "Connor"
	s.mock.ExpectExec("INSERT INTO users").
		WithArgs(email, firstName, lastName, sqlmock.AnyArg(), false, false,
			true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	s.mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\?").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(int64(1), email, firstName, lastName, nil, nil, false, false,
				true, dateJoined, nil))
	userCreated, err := s.sql.UserCreate(ctx, data.UserPartial{
		Email:     &email,
		FirstName: &firstName,
		LastName:  &lastName,
	}, "hashed-password")
	assert.Nil(t, err)
	assert.NotNil(t, userCreated)
	assert.Equal(t, int64(1), userCreated.Id)
	assert.Equal(t, email, userCreated.Email)
	assert.Equal(t, firstName, userCreated.FirstName)
	assert.Equal(t, lastName, userCreated.LastName)
	assert.False(t, userCreated.IsStaff)
	assert.False(t, userCreated.IsSuperuser)
	assert.True(t, userCreated.IsActive)

	// create user with an email that already exists
	s.mock.ExpectExec("INSERT INTO users").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "duplicate entry"})
	userDuplicated, err := s.sql.UserCreate(ctx, data.UserPartial{
		Email:     &email,
		FirstName: &firstName,
		LastName:  &lastName,
	}, "hashed-password")
	assert.ErrorIs(t, err, data.ErrEmailExists)
	assert.Nil(t, userDuplicated)

	// read user by email
	s.mock.ExpectQuery("SELECT (.+) FROM users WHERE email = \\?").
		WithArgs(email).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(int64(1), email, firstName, lastName, nil, nil, false, false,
				true, dateJoined, nil))
	userRead, err := s.sql.UserReadByEmail(ctx, email)
	assert.Nil(t, err)
	assert.Equal(t, userCreated, userRead)

	// read password hash
	s.mock.ExpectQuery("SELECT password FROM users WHERE id = \\?").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"password"}).AddRow("hashed-password"))
	passwordHash, err := s.sql.UserPasswordRead(ctx, int64(1))
	assert.Nil(t, err)
	assert.Equal(t, "hashed-password", passwordHash)

	// update user profile
	updatedPhone := "15555555555"
	s.mock.ExpectExec("UPDATE users SET phone = \\? WHERE id = \\?").
		WithArgs(updatedPhone, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\?").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(int64(1), email, firstName, lastName, updatedPhone, nil, false,
				false, true, dateJoined, nil))
	userUpdated, err := s.sql.UserUpdate(ctx, int64(1), data.UserPartial{
		Phone: &updatedPhone,
	})
	assert.Nil(t, err)
	assert.NotNil(t, userUpdated.Phone)
	assert.Equal(t, updatedPhone, *userUpdated.Phone)

	// update password
	s.mock.ExpectExec("UPDATE users SET password = \\? WHERE id = \\?").
		WithArgs("new-hashed-password", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	err = s.sql.UserPasswordUpdate(ctx, int64(1), "new-hashed-password")
	assert.Nil(t, err)

	// update last login
	s.mock.ExpectExec("UPDATE users SET last_login = \\? WHERE id = \\?").
		WithArgs(sqlmock.AnyArg(), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	err = s.sql.UserLastLoginUpdate(ctx, int64(1))
	assert.Nil(t, err)

	// delete user
	s.mock.ExpectExec("DELETE FROM users WHERE id = \\?").
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	err = s.sql.UserDelete(ctx, int64(1))
	assert.Nil(t, err)

	// delete user again
	s.mock.ExpectExec("DELETE FROM users WHERE id = \\?").
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err = s.sql.UserDelete(ctx, int64(1))
	assert.ErrorIs(t, err, data.ErrNotFound)

	// read user that doesn't exist
	s.mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\?").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(userColumns))
	userRead, err = s.sql.UserRead(ctx, int64(1))
	assert.ErrorIs(t, err, data.ErrNotFound)
	assert.Nil(t, userRead)

	assert.Nil(t, s.mock.ExpectationsWereMet())
}

func (s *sqlTest) TestFormFields(t *testing.T) {
	ctx := context.TODO()
	createdAt := time.Now()
	createdBy := int64(1)

	// create form field
	label, fieldType := "Full Name", data.FieldTypeText
	s.mock.ExpectExec("INSERT INTO form_fields").
		WithArgs(label, fieldType, createdBy, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(10, 1))
	s.mock.ExpectQuery("SELECT (.+) FROM form_fields WHERE id = \\?").
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows(formFieldColumns).
			AddRow(int64(10), label, fieldType, true, int64(0), createdBy, createdAt))
	formFieldCreated, err := s.sql.FormFieldCreate(ctx, createdBy, data.FormFieldPartial{
		Label:     &label,
		FieldType: &fieldType,
	})
	assert.Nil(t, err)
	assert.NotNil(t, formFieldCreated)
	assert.Equal(t, int64(10), formFieldCreated.Id)
	assert.Equal(t, label, formFieldCreated.Label)
	assert.Equal(t, fieldType, formFieldCreated.FieldType)
	assert.True(t, formFieldCreated.Required)
	assert.Equal(t, createdBy, formFieldCreated.CreatedBy)

	// search form fields, ordered
	s.mock.ExpectQuery("SELECT (.+) FROM form_fields WHERE created_by = \\? ORDER BY sort_order, id").
		WithArgs(createdBy).
		WillReturnRows(sqlmock.NewRows(formFieldColumns).
			AddRow(int64(10), label, fieldType, true, int64(0), createdBy, createdAt).
			AddRow(int64(11), "Start Date", data.FieldTypeDate, true, int64(1), createdBy, createdAt))
	formFields, err := s.sql.FormFieldsSearch(ctx, createdBy)
	assert.Nil(t, err)
	assert.Len(t, formFields, 2)
	assert.Equal(t, int64(10), formFields[0].Id)
	assert.Equal(t, int64(11), formFields[1].Id)

	// update form field
	updatedLabel := "Legal Name"
	s.mock.ExpectExec("UPDATE form_fields SET label = \\? WHERE id = \\?").
		WithArgs(updatedLabel, int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectQuery("SELECT (.+) FROM form_fields WHERE id = \\?").
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows(formFieldColumns).
			AddRow(int64(10), updatedLabel, fieldType, true, int64(0), createdBy, createdAt))
	formFieldUpdated, err := s.sql.FormFieldUpdate(ctx, int64(10), data.FormFieldPartial{
		Label: &updatedLabel,
	})
	assert.Nil(t, err)
	assert.Equal(t, updatedLabel, formFieldUpdated.Label)

	// reorder form fields
	s.mock.ExpectBegin()
	s.mock.ExpectExec("UPDATE form_fields SET sort_order = \\? WHERE id = \\? AND created_by = \\?").
		WithArgs(0, int64(11), createdBy).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectExec("UPDATE form_fields SET sort_order = \\? WHERE id = \\? AND created_by = \\?").
		WithArgs(1, int64(10), createdBy).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()
	err = s.sql.FormFieldsReorder(ctx, createdBy, []int64{11, 10})
	assert.Nil(t, err)

	// delete form field
	s.mock.ExpectExec("DELETE FROM form_fields WHERE id = \\?").
		WithArgs(int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	err = s.sql.FormFieldDelete(ctx, int64(10))
	assert.Nil(t, err)

	// delete form field again
	s.mock.ExpectExec("DELETE FROM form_fields WHERE id = \\?").
		WithArgs(int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err = s.sql.FormFieldDelete(ctx, int64(10))
	assert.ErrorIs(t, err, data.ErrNotFound)

	assert.Nil(t, s.mock.ExpectationsWereMet())
}

func (s *sqlTest) TestEmployees(t *testing.T) {
	ctx := context.TODO()
	createdAt := time.Now()
	userId := int64(1)

	// create employee
	fields := map[string]data.FieldValue{
		"Full Name": {Value: "Sarah Connor", Type: data.FieldTypeText},
	}
	fieldsJson := []byte(`{"Full Name":{"value":"Sarah Connor","type":"text"}}`)
	s.mock.ExpectExec("INSERT INTO employees").
		WithArgs(userId, fieldsJson, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(100, 1))
	s.mock.ExpectQuery("SELECT (.+) FROM employees WHERE id = \\?").
		WithArgs(int64(100)).
		WillReturnRows(sqlmock.NewRows(employeeColumns).
			AddRow(int64(100), userId, fieldsJson, createdAt, createdAt))
	employeeCreated, err := s.sql.EmployeeCreate(ctx, userId, data.EmployeePartial{
		Fields: &fields,
	})
	assert.Nil(t, err)
	assert.NotNil(t, employeeCreated)
	assert.Equal(t, int64(100), employeeCreated.Id)
	assert.Equal(t, userId, employeeCreated.UserId)
	assert.Equal(t, fields, employeeCreated.Fields)

	// search employees with a substring
	search := "sarah"
	s.mock.ExpectQuery("SELECT (.+) FROM employees WHERE user_id = \\? AND UPPER\\(CAST\\(fields AS CHAR\\)\\) LIKE \\? ORDER BY id").
		WithArgs(userId, "%SARAH%").
		WillReturnRows(sqlmock.NewRows(employeeColumns).
			AddRow(int64(100), userId, fieldsJson, createdAt, createdAt))
	employees, err := s.sql.EmployeesSearch(ctx, data.EmployeeSearch{
		UserId: &userId,
		Search: &search,
	})
	assert.Nil(t, err)
	assert.Len(t, employees, 1)
	assert.Equal(t, employeeCreated, employees[0])

	// update employee fields
	updatedFields := map[string]data.FieldValue{
		"Full Name": {Value: "Sarah Connor", Type: data.FieldTypeText},
		"Badge":     {Value: float64(42), Type: data.FieldTypeNumber},
	}
	updatedFieldsJson := []byte(`{"Badge":{"value":42,"type":"number"},"Full Name":{"value":"Sarah Connor","type":"text"}}`)
	s.mock.ExpectExec("UPDATE employees SET fields = \\?, updated_at = \\? WHERE id = \\?").
		WithArgs(updatedFieldsJson, sqlmock.AnyArg(), int64(100)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectQuery("SELECT (.+) FROM employees WHERE id = \\?").
		WithArgs(int64(100)).
		WillReturnRows(sqlmock.NewRows(employeeColumns).
			AddRow(int64(100), userId, updatedFieldsJson, createdAt, time.Now()))
	employeeUpdated, err := s.sql.EmployeeUpdate(ctx, int64(100), data.EmployeePartial{
		Fields: &updatedFields,
	})
	assert.Nil(t, err)
	assert.Equal(t, updatedFields, employeeUpdated.Fields)

	// delete employee
	s.mock.ExpectExec("DELETE FROM employees WHERE id = \\?").
		WithArgs(int64(100)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	err = s.sql.EmployeeDelete(ctx, int64(100))
	assert.Nil(t, err)

	// read employee that doesn't exist
	s.mock.ExpectQuery("SELECT (.+) FROM employees WHERE id = \\?").
		WithArgs(int64(100)).
		WillReturnRows(sqlmock.NewRows(employeeColumns))
	employeeRead, err := s.sql.EmployeeRead(ctx, int64(100))
	assert.ErrorIs(t, err, data.ErrNotFound)
	assert.Nil(t, employeeRead)

	assert.Nil(t, s.mock.ExpectationsWereMet())
}

func testSql(t *testing.T) {
	ctx := context.TODO()

	s := newSqlTest(t)
	err := s.sql.Configure(envs)
	if !assert.Nil(t, err) {
		assert.FailNow(t, "unable to configure sqlTest")
	}
	err = s.sql.Open(ctx)
	if !assert.Nil(t, err) {
		assert.FailNow(t, "unable to open sqlTest")
	}
	defer func() {
		_ = s.sql.Close(ctx)
	}()
	t.Run("Users", s.TestUsers)
	t.Run("Form Fields", s.TestFormFields)
	t.Run("Employees", s.TestEmployees)
}

func TestSql(t *testing.T) {
	testSql(t)
}
