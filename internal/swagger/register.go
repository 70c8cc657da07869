package swagger

import "github.com/antonio-alexander/go-employee-manager/internal/data"

// swagger:route POST /api/register Authentication Register
// Registers a new user and returns the user with a token pair.
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// responses:
//   201: RegisterPostResponseCreated

// swagger:response RegisterPostResponseCreated
type RegisterPostResponseCreated struct {
	// in:body
	Response data.Response `json:"response"`
}

// swagger:parameters Register
type RegisterPostParams struct {
	// in:body
	Request data.Request `json:"request"`

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
