package data

import "encoding/json"

type UserPartial struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
	Password  *string `json:"password,omitempty"`
}

func (u *UserPartial) MarshalBinary() ([]byte, error) {
	return json.Marshal(u)
}

func (u *UserPartial) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, u)
}
