package data

import "encoding/json"

type EmployeePartial struct {
	Fields *map[string]FieldValue `json:"fields,omitempty"`
}

func (e *EmployeePartial) MarshalBinary() ([]byte, error) {
	return json.Marshal(e)
}

func (e *EmployeePartial) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, e)
}
