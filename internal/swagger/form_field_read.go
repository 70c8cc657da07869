package swagger

import "github.com/antonio-alexander/go-employee-manager/internal/data"

// swagger:route GET /api/form-fields/{field_id} FormField ReadFormField
// Reads a form field using its id.
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// responses:
//   200: FormFieldGetResponseOk

// swagger:response FormFieldGetResponseOk
type FormFieldGetResponseOk struct {
	// in:body
	FormField data.FormField `json:"form_field"`
}

// swagger:parameters ReadFormField
type FormFieldGetParams struct {
	// in:path
	FieldId string `json:"field_id"`

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
