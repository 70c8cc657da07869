package data

import "encoding/json"

// FieldValue is a single dynamic field on an employee record; Type mirrors
// the form field the value was captured against.
type FieldValue struct {
	Value any    `json:"value"`
	Type  string `json:"type"`
}

// Employee is a record whose schema is defined at runtime by the owning
// user's form fields; Fields is keyed by form field label.
type Employee struct {
	Id        int64                 `json:"id"`
	UserId    int64                 `json:"user_id"`
	Fields    map[string]FieldValue `json:"fields"`
	CreatedAt int64                 `json:"created_at"`
	UpdatedAt int64                 `json:"updated_at"`
}

func (e *Employee) MarshalBinary() ([]byte, error) {
	return json.Marshal(e)
}

func (e *Employee) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, e)
}
