package data

const (
	RouteDefault        string = "/"
	RouteLoginPage      string = "/login"
	RouteHealth         string = "/health"
	RouteMetrics        string = "/metrics"
	RouteLogin          string = "/api/login"
	RouteRefresh        string = "/api/refresh"
	RouteRegister       string = "/api/register"
	RouteChangePassword string = "/api/change-password"
	RouteUpdateProfile  string = "/api/update-profile"
)

const (
	RouteFormFields        string = "/api/form-fields"
	RouteFormFieldsOrder   string = RouteFormFields + "/order"
	RouteFormFieldsFieldId string = RouteFormFields + "/{" + PathFieldId + "}"
	RouteFormFieldsFieldIdf string = RouteFormFields + "/%d"
)

const (
	RouteEmployees           string = "/api/employees"
	RouteEmployeesSearch     string = RouteEmployees + "/search"
	RouteEmployeesEmployeeId string = RouteEmployees + "/{" + PathEmployeeId + "}"
	RouteEmployeesEmployeeIdf string = RouteEmployees + "/%d"
)

const (
	RouteCache         string = "/cache"
	RouteCacheCounters string = RouteCache + "/counters"
	RouteTimers        string = "/timers"
)

const (
	PathFieldId    string = "field_id"
	PathEmployeeId string = "employee_id"
)

const (
	ParameterEmployeeIds string = "employee_ids"
	ParameterUserId      string = "user_id"
	ParameterSearch      string = "search"
)

type Request struct {
	Email            string            `json:"email,omitempty"`
	Password         string            `json:"password,omitempty"`
	Password2        string            `json:"password2,omitempty"`
	OldPassword      string            `json:"old_password,omitempty"`
	NewPassword      string            `json:"new_password,omitempty"`
	Refresh          string            `json:"refresh,omitempty"`
	Order            []int64           `json:"order,omitempty"`
	UserPartial      *UserPartial      `json:"user_partial,omitempty"`
	FormFieldPartial *FormFieldPartial `json:"form_field_partial,omitempty"`
	EmployeePartial  *EmployeePartial  `json:"employee_partial,omitempty"`
}

type Response struct {
	Status        string         `json:"status,omitempty"`
	Error         string         `json:"error,omitempty"`
	Refresh       string         `json:"refresh,omitempty"`
	Access        string         `json:"access,omitempty"`
	User          *User          `json:"user,omitempty"`
	FormField     *FormField     `json:"form_field,omitempty"`
	FormFields    []*FormField   `json:"form_fields,omitempty"`
	Employee      *Employee      `json:"employee,omitempty"`
	Employees     []*Employee    `json:"employees,omitempty"`
	CacheCounters *CacheCounters `json:"cache_counters,omitempty"`
	Timers        *Timers        `json:"timers,omitempty"`
	Version       string         `json:"version,omitempty"`
	GitCommit     string         `json:"git_commit,omitempty"`
	GitBranch     string         `json:"git_branch,omitempty"`
}

const StatusSuccess string = "success"
