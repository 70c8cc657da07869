package sql

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/antonio-alexander/go-employee-manager/internal/data"

	"github.com/go-sql-driver/mysql"
)

const mysqlErrDuplicateEntry uint16 = 1062

func isDuplicateEntry(err error) bool {
	if mysqlErr, ok := err.(*mysql.MySQLError); ok {
		return mysqlErr.Number == mysqlErrDuplicateEntry
	}
	return false
}

func employeeCriteria(search data.EmployeeSearch) (string, []interface{}) {
	var args []interface{}
	var criteria []string

	if ids := search.Ids; len(ids) > 0 {
		var parameters []string

		for _, id := range ids {
			args = append(args, id)
			parameters = append(parameters, "?")
		}
		criteria = append(criteria, fmt.Sprintf("id IN(%s)", strings.Join(parameters, ",")))
	}
	if search.UserId != nil {
		args = append(args, *search.UserId)
		criteria = append(criteria, "user_id = ?")
	}
	if search.Search != nil && *search.Search != "" {
		args = append(args, "%"+strings.ToUpper(*search.Search)+"%")
		criteria = append(criteria, "UPPER(CAST(fields AS CHAR)) LIKE ?")
	}
	if len(criteria) <= 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(criteria, " AND "), args
}

func userScan(scanFx func(...interface{}) error) (*data.User, error) {
	var phone, address sql.NullString
	var lastLogin sql.NullTime
	var dateJoined time.Time

	user := new(data.User)
	if err := scanFx(
		&user.Id,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&phone,
		&address,
		&user.IsStaff,
		&user.IsSuperuser,
		&user.IsActive,
		&dateJoined,
		&lastLogin,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, data.ErrNotFound
		}
		return nil, err
	}
	user.DateJoined = dateJoined.Unix()
	if phone.Valid {
		user.Phone = &phone.String
	}
	if address.Valid {
		user.Address = &address.String
	}
	if lastLogin.Valid {
		lastLoginUnix := lastLogin.Time.Unix()
		user.LastLogin = &lastLoginUnix
	}
	return user, nil
}

func formFieldScan(scanFx func(...interface{}) error) (*data.FormField, error) {
	var createdAt time.Time

	formField := new(data.FormField)
	if err := scanFx(
		&formField.Id,
		&formField.Label,
		&formField.FieldType,
		&formField.Required,
		&formField.Order,
		&formField.CreatedBy,
		&createdAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, data.ErrNotFound
		}
		return nil, err
	}
	formField.CreatedAt = createdAt.Unix()
	return formField, nil
}

func employeeScan(scanFx func(...interface{}) error) (*data.Employee, error) {
	var createdAt, updatedAt time.Time
	var fieldsJson []byte

	employee := new(data.Employee)
	if err := scanFx(
		&employee.Id,
		&employee.UserId,
		&fieldsJson,
		&createdAt,
		&updatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, data.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(fieldsJson, &employee.Fields); err != nil {
		return nil, err
	}
	employee.CreatedAt = createdAt.Unix()
	employee.UpdatedAt = updatedAt.Unix()
	return employee, nil
}
