package data

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

type EmployeeSearch struct {
	Ids    []int64 `json:"employee_ids,omitempty"`
	UserId *int64  `json:"user_id,omitempty"`
	Search *string `json:"search,omitempty"`
}

func (e *EmployeeSearch) ToParams() url.Values {
	params := make(map[string][]string)
	if len(e.Ids) > 0 {
		var ids []string
		for _, id := range e.Ids {
			ids = append(ids, fmt.Sprint(id))
		}
		params[ParameterEmployeeIds] = append(params[ParameterEmployeeIds], strings.Join(ids, ","))
	}
	if e.UserId != nil {
		params[ParameterUserId] = append(params[ParameterUserId], fmt.Sprint(*e.UserId))
	}
	if e.Search != nil && *e.Search != "" {
		params[ParameterSearch] = append(params[ParameterSearch], *e.Search)
	}
	return params
}

func (e *EmployeeSearch) FromParams(params url.Values) {
	for key, value := range params {
		switch strings.ToLower(key) {
		case ParameterEmployeeIds:
			for _, value := range value {
				for _, v := range strings.Split(value, ",") {
					id, _ := strconv.ParseInt(v, 10, 64)
					e.Ids = append(e.Ids, id)
				}
			}
		case ParameterUserId:
			for _, value := range value {
				userId, _ := strconv.ParseInt(value, 10, 64)
				e.UserId = &userId
			}
		case ParameterSearch:
			for _, value := range value {
				search := value
				e.Search = &search
			}
		}
	}
}

// ToKey generates a stable key for caching search results; the user id is
// part of the key so results never leak across owners.
func (e *EmployeeSearch) ToKey() string {
	return e.ToParams().Encode()
}
