package data

import "encoding/json"

const (
	FirstNameLengthMax int = 30
	LastNameLengthMax  int = 30
	PhoneLengthMax     int = 15
)

type User struct {
	Id          int64   `json:"id"`
	Email       string  `json:"email"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Phone       *string `json:"phone,omitempty"`
	Address     *string `json:"address,omitempty"`
	IsStaff     bool    `json:"is_staff"`
	IsSuperuser bool    `json:"is_superuser"`
	IsActive    bool    `json:"is_active"`
	DateJoined  int64   `json:"date_joined"`
	LastLogin   *int64  `json:"last_login,omitempty"`
}

func (u *User) MarshalBinary() ([]byte, error) {
	return json.Marshal(u)
}

func (u *User) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, u)
}
