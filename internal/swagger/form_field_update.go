package swagger

import "github.com/antonio-alexander/go-employee-manager/internal/data"

// swagger:route PUT /api/form-fields/{field_id} FormField UpdateFormField
// Updates a form field using its id.
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// responses:
//   200: FormFieldPutResponseOk

// swagger:response FormFieldPutResponseOk
type FormFieldPutResponseOk struct {
	// in:body
	FormField data.FormField `json:"form_field"`
}

// swagger:parameters UpdateFormField
type FormFieldPutParams struct {
	// in:path
	FieldId string `json:"field_id"`

	// in:body
	FormFieldPartial data.FormFieldPartial `json:"form_field_partial"`

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
