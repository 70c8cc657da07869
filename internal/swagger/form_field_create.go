package swagger

import "github.com/antonio-alexander/go-employee-manager/internal/data"

// swagger:route POST /api/form-fields FormField CreateFormField
// Creates a form field owned by the authenticated user.
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// responses:
//   201: FormFieldPostResponseCreated

// swagger:response FormFieldPostResponseCreated
type FormFieldPostResponseCreated struct {
	// in:body
	FormField data.FormField `json:"form_field"`
}

// swagger:parameters CreateFormField
type FormFieldPostParams struct {
	// in:body
	FormFieldPartial data.FormFieldPartial `json:"form_field_partial"`

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
