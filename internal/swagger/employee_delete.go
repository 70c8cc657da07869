package swagger

// swagger:route DELETE /api/employees/{employee_id} Employee DeleteEmployee
// Deletes an employee record using its id.
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// responses:
//   204: EmployeeDeleteResponseNoContent

// swagger:response EmployeeDeleteResponseNoContent
type EmployeeDeleteResponseNoContent struct {
	//
}

// swagger:parameters DeleteEmployee
type EmployeeDeleteParams struct {
	// in:path
	EmployeeId string `json:"employee_id"`
}
