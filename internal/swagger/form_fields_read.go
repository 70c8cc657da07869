package swagger

import "github.com/antonio-alexander/go-employee-manager/internal/data"

// swagger:route GET /api/form-fields FormField ReadFormFields
// Reads the authenticated user's form fields in display order.
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// responses:
//   200: FormFieldsGetResponseOk

// swagger:response FormFieldsGetResponseOk
type FormFieldsGetResponseOk struct {
	// in:body
	FormFields []data.FormField `json:"form_fields"`
}

// swagger:parameters ReadFormFields
type FormFieldsGetParams struct {
	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
