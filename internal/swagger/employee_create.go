package swagger

import "github.com/antonio-alexander/go-employee-manager/internal/data"

// swagger:route POST /api/employees Employee CreateEmployee
// Creates an employee record owned by the authenticated user.
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// responses:
//   201: EmployeePostResponseCreated

// swagger:response EmployeePostResponseCreated
type EmployeePostResponseCreated struct {
	// in:body
	Employee data.Employee `json:"employee"`
}

// swagger:parameters CreateEmployee
type EmployeePostParams struct {
	// in:body
	EmployeePartial data.EmployeePartial `json:"employee_partial"`

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
