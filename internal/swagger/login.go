package swagger

import "github.com/antonio-alexander/go-employee-manager/internal/data"

// swagger:route POST /api/login Authentication Login
// Authenticates a user and returns an access and refresh token pair.
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// responses:
//   200: LoginPostResponseOk

// swagger:response LoginPostResponseOk
type LoginPostResponseOk struct {
	// in:body
	Response data.Response `json:"response"`
}

// swagger:parameters Login
type LoginPostParams struct {
	// in:body
	Request data.Request `json:"request"`

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
