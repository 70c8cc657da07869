package swagger

// swagger:route DELETE /api/form-fields/{field_id} FormField DeleteFormField
// Deletes a form field using its id.
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// responses:
//   204: FormFieldDeleteResponseNoContent

// swagger:response FormFieldDeleteResponseNoContent
type FormFieldDeleteResponseNoContent struct {
	//
}

// swagger:parameters DeleteFormField
type FormFieldDeleteParams struct {
	// in:path
	FieldId string `json:"field_id"`
}
