package data

import "encoding/json"

type FormFieldPartial struct {
	Label     *string `json:"label,omitempty"`
	FieldType *string `json:"field_type,omitempty"`
	Required  *bool   `json:"required,omitempty"`
	Order     *int64  `json:"order,omitempty"`
}

func (f *FormFieldPartial) MarshalBinary() ([]byte, error) {
	return json.Marshal(f)
}

func (f *FormFieldPartial) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, f)
}
