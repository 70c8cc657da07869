package swagger

import "github.com/antonio-alexander/go-employee-manager/internal/data"

// swagger:route PUT /api/employees/{employee_id} Employee UpdateEmployee
// Updates an employee record using its id.
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// responses:
//   200: EmployeePutResponseOk

// swagger:response EmployeePutResponseOk
type EmployeePutResponseOk struct {
	// in:body
	Employee data.Employee `json:"employee"`
}

// swagger:parameters UpdateEmployee
type EmployeePutParams struct {
	// in:path
	EmployeeId string `json:"employee_id"`

	// in:body
	EmployeePartial data.EmployeePartial `json:"employee_partial"`

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
