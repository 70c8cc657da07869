package data

import "encoding/json"

const (
	FieldTypeText     string = "text"
	FieldTypeNumber   string = "number"
	FieldTypeDate     string = "date"
	FieldTypeEmail    string = "email"
	FieldTypePassword string = "password"
	FieldTypeTextarea string = "textarea"
	FieldTypeCheckbox string = "checkbox"
	FieldTypeSelect   string = "select"
)

const FieldTypeDefault string = FieldTypeText

const LabelLengthMax int = 100

func ValidateFieldType(fieldType string) error {
	switch fieldType {
	default:
		return ErrInvalidFieldType
	case FieldTypeText, FieldTypeNumber, FieldTypeDate, FieldTypeEmail,
		FieldTypePassword, FieldTypeTextarea, FieldTypeCheckbox, FieldTypeSelect:
		return nil
	}
}

type FormField struct {
	Id        int64  `json:"id"`
	Label     string `json:"label"`
	FieldType string `json:"field_type"`
	Required  bool   `json:"required"`
	Order     int64  `json:"order"`
	CreatedBy int64  `json:"created_by"`
	CreatedAt int64  `json:"created_at"`
}

func (f *FormField) MarshalBinary() ([]byte, error) {
	return json.Marshal(f)
}

func (f *FormField) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, f)
}
