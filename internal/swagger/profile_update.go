package swagger

import "github.com/antonio-alexander/go-employee-manager/internal/data"

// swagger:route PUT /api/update-profile Authentication UpdateProfile
// Updates the authenticated user's profile.
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// responses:
//   200: UpdateProfilePutResponseOk

// swagger:response UpdateProfilePutResponseOk
type UpdateProfilePutResponseOk struct {
	// in:body
	User data.User `json:"user"`
}

// swagger:parameters UpdateProfile
type UpdateProfilePutParams struct {
	// in:body
	Request data.Request `json:"request"`

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
