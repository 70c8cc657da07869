package swagger

import "github.com/antonio-alexander/go-employee-manager/internal/data"

// swagger:route PUT /api/change-password Authentication ChangePassword
// Changes the authenticated user's password.
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// responses:
//   200: ChangePasswordPutResponseOk

// swagger:response ChangePasswordPutResponseOk
type ChangePasswordPutResponseOk struct {
	// in:body
	Response data.Response `json:"response"`
}

// swagger:parameters ChangePassword
type ChangePasswordPutParams struct {
	// in:body
	Request data.Request `json:"request"`

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
