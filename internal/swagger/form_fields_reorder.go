package swagger

import "github.com/antonio-alexander/go-employee-manager/internal/data"

// swagger:route POST /api/form-fields/order FormField ReorderFormFields
// Reorders the authenticated user's form fields.
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// responses:
//   200: FormFieldsOrderPostResponseOk

// swagger:response FormFieldsOrderPostResponseOk
type FormFieldsOrderPostResponseOk struct {
	// in:body
	Response data.Response `json:"response"`
}

// swagger:parameters ReorderFormFields
type FormFieldsOrderPostParams struct {
	// in:body
	Request data.Request `json:"request"`

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
