package swagger

import "github.com/antonio-alexander/go-employee-manager/internal/data"

// swagger:route POST /api/refresh Authentication Refresh
// Exchanges a refresh token for a new token pair.
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// responses:
//   200: RefreshPostResponseOk

// swagger:response RefreshPostResponseOk
type RefreshPostResponseOk struct {
	// in:body
	Response data.Response `json:"response"`
}

// swagger:parameters Refresh
type RefreshPostParams struct {
	// in:body
	Request data.Request `json:"request"`

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
