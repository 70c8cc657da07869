package swagger

import "github.com/antonio-alexander/go-employee-manager/internal/data"

// swagger:route GET /api/employees/{employee_id} Employee ReadEmployee
// Reads an employee record using its id.
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// responses:
//   200: EmployeeGetResponseOk

// swagger:response EmployeeGetResponseOk
type EmployeeGetResponseOk struct {
	// in:body
	Employee data.Employee `json:"employee"`
}

// swagger:parameters ReadEmployee
type EmployeeGetParams struct {
	// in:path
	EmployeeId string `json:"employee_id"`

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
