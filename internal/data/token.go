package data

import "encoding/json"

const (
	TokenTypeAccess  string = "access"
	TokenTypeRefresh string = "refresh"
)

type TokenPair struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
}

func (t *TokenPair) MarshalBinary() ([]byte, error) {
	return json.Marshal(t)
}

func (t *TokenPair) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, t)
}
