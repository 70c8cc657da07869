package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/antonio-alexander/go-employee-manager/internal"
	"github.com/antonio-alexander/go-employee-manager/internal/cache"
	"github.com/antonio-alexander/go-employee-manager/internal/data"
	"github.com/antonio-alexander/go-employee-manager/internal/utilities"

	"github.com/pkg/errors"
)

type Client interface {
	//authentication
	Login(ctx context.Context, email, password string) (*data.TokenPair, error)
	TokenRefresh(ctx context.Context) (*data.TokenPair, error)
	Register(ctx context.Context, userPartial data.UserPartial, password2 string) (*data.User, *data.TokenPair, error)
	PasswordChange(ctx context.Context, oldPassword, newPassword string) error
	ProfileUpdate(ctx context.Context, userPartial data.UserPartial) (*data.User, error)

	//form fields
	FormFieldCreate(ctx context.Context, formFieldPartial data.FormFieldPartial) (*data.FormField, error)
	FormFieldRead(ctx context.Context, fieldId int64) (*data.FormField, error)
	FormFieldsRead(ctx context.Context) ([]*data.FormField, error)
	FormFieldUpdate(ctx context.Context, fieldId int64, formFieldPartial data.FormFieldPartial) (*data.FormField, error)
	FormFieldDelete(ctx context.Context, fieldId int64) error
	FormFieldsReorder(ctx context.Context, fieldIds []int64) error

	//employees
	EmployeeCreate(ctx context.Context, employeePartial data.EmployeePartial) (*data.Employee, error)
	EmployeeRead(ctx context.Context, employeeId int64) (*data.Employee, error)
	EmployeesSearch(ctx context.Context, search data.EmployeeSearch) ([]*data.Employee, error)
	EmployeeUpdate(ctx context.Context, employeeId int64, employeePartial data.EmployeePartial) (*data.Employee, error)
	EmployeeDelete(ctx context.Context, employeeId int64) error

	//operational
	CacheClear(ctx context.Context) error
	CacheCountersRead(ctx context.Context) (*data.CacheCounters, error)
	CacheCountersClear(ctx context.Context) error
	TimersRead(ctx context.Context) (*data.Timers, error)
	TimersClear(ctx context.Context) error
}

type client struct {
	sync.RWMutex
	config struct {
		protocol      string
		address       string
		port          string
		timeout       int64
		sslCaFile     string
		sslCrtFile    string
		sslKeyFile    string
		cacheDisabled bool
	}
	address string
	tokens  *data.TokenPair
	cache   cache.Cache
	utilities.Logger
	*http.Client
}

func NewClient(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	Client
} {
	c := &client{Client: &http.Client{}}
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case cache.Cache:
			c.cache = p
		case utilities.Logger:
			c.Logger = p
		}
	}
	if c.Logger == nil {
		c.Logger = utilities.NewLogger()
	}
	return c
}

func (c *client) accessToken() string {
	c.RLock()
	defer c.RUnlock()
	if c.tokens == nil {
		return ""
	}
	return c.tokens.Access
}

func (c *client) refreshToken() string {
	c.RLock()
	defer c.RUnlock()
	if c.tokens == nil {
		return ""
	}
	return c.tokens.Refresh
}

func (c *client) storeTokens(tokens *data.TokenPair) {
	c.Lock()
	defer c.Unlock()
	c.tokens = tokens
}

func (c *client) doRequest(ctx context.Context, uri, method string, item any) ([]byte, error) {
	bytes, statusCode, err := c.executeRequest(ctx, uri, method, item)
	if err != nil {
		return nil, err
	}
	//a stale access token is refreshed once and the request replayed
	if statusCode == http.StatusUnauthorized && c.refreshToken() != "" {
		if _, err := c.TokenRefresh(ctx); err == nil {
			bytes, statusCode, err = c.executeRequest(ctx, uri, method, item)
			if err != nil {
				return nil, err
			}
		}
	}
	switch statusCode {
	default:
		response := &data.Response{}
		if err := json.Unmarshal(bytes, response); err != nil || response.Error == "" {
			return nil, errors.Errorf("status code: %d; %s", statusCode,
				string(bytes))
		}
		return nil, errors.New(response.Error)
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return bytes, nil
	}
}

func (c *client) unmarshalResponse(ctx context.Context, uri, method string, item any) (*data.Response, error) {
	bytes, err := c.doRequest(ctx, uri, method, item)
	if err != nil {
		return nil, err
	}
	response := &data.Response{}
	if len(bytes) > 0 {
		if err := json.Unmarshal(bytes, response); err != nil {
			return nil, err
		}
	}
	return response, nil
}

func (c *client) Configure(envs map[string]string) error {
	if address, ok := envs["CLIENT_ADDRESS"]; ok {
		c.config.address = address
	}
	if port, ok := envs["CLIENT_PORT"]; ok {
		c.config.port = port
	}
	if protocol, ok := envs["CLIENT_PROTOCOL"]; ok {
		c.config.protocol = protocol
	}
	if timeout, ok := envs["CLIENT_TIMEOUT"]; ok {
		i, err := strconv.ParseInt(timeout, 10, 64)
		if err != nil {
			return err
		}
		c.config.timeout = i
	}
	if sslCaFile, ok := envs["SSL_CA_FILE"]; ok {
		c.config.sslCaFile = sslCaFile
	}
	if sslKeyFile, ok := envs["SSL_KEY_FILE"]; ok {
		c.config.sslKeyFile = sslKeyFile
	}
	if sslCrtFile, ok := envs["SSL_CRT_FILE"]; ok {
		c.config.sslCrtFile = sslCrtFile
	}
	if cacheDisabled, ok := envs["CACHE_DISABLED"]; ok {
		c.config.cacheDisabled, _ = strconv.ParseBool(cacheDisabled)
	}
	if c.cache == nil {
		c.config.cacheDisabled = true
	}
	return nil
}

func (c *client) Open(ctx context.Context) error {
	c.Lock()
	defer c.Unlock()

	switch c.config.protocol {
	default:
		return errors.Errorf("unsupported protocol: %s", c.config.protocol)
	case "http", "https":
		c.address = fmt.Sprintf("%s://%s", c.config.protocol,
			net.JoinHostPort(c.config.address, c.config.port))
	}
	if c.config.cacheDisabled {
		c.Info(ctx, "client: cache disabled")
	}
	c.Client.Timeout = time.Duration(c.config.timeout) * time.Second
	transport, err := getTransport(c.config.sslCaFile, c.config.sslCrtFile,
		c.config.sslKeyFile)
	if err != nil {
		return err
	}
	c.Client.Transport = transport
	return nil
}

func (c *client) Close(ctx context.Context) error {
	c.Lock()
	defer c.Unlock()

	c.tokens = nil
	return nil
}

func (c *client) Login(ctx context.Context, email, password string) (*data.TokenPair, error) {
	bytes, err := json.Marshal(&data.Request{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	uri := c.address + data.RouteLogin
	response, err := c.unmarshalResponse(ctx, uri, http.MethodPost, bytes)
	if err != nil {
		return nil, err
	}
	tokens := &data.TokenPair{Refresh: response.Refresh, Access: response.Access}
	c.storeTokens(tokens)
	return tokens, nil
}

func (c *client) TokenRefresh(ctx context.Context) (*data.TokenPair, error) {
	refreshToken := c.refreshToken()
	if refreshToken == "" {
		return nil, errors.New("no refresh token; login first")
	}
	bytes, err := json.Marshal(&data.Request{Refresh: refreshToken})
	if err != nil {
		return nil, err
	}
	uri := c.address + data.RouteRefresh
	//KIM: executeRequest is used directly so a failed refresh can't
	// recurse back into doRequest
	bytes, statusCode, err := c.executeRequest(ctx, uri, http.MethodPost, bytes)
	if err != nil {
		return nil, err
	}
	if statusCode != http.StatusOK {
		return nil, errors.Errorf("status code: %d; %s", statusCode, string(bytes))
	}
	response := &data.Response{}
	if err := json.Unmarshal(bytes, response); err != nil {
		return nil, err
	}
	tokens := &data.TokenPair{Refresh: response.Refresh, Access: response.Access}
	c.storeTokens(tokens)
	return tokens, nil
}

func (c *client) Register(ctx context.Context, userPartial data.UserPartial, password2 string) (*data.User, *data.TokenPair, error) {
	bytes, err := json.Marshal(&data.Request{
		UserPartial: &userPartial,
		Password2:   password2,
	})
	if err != nil {
		return nil, nil, err
	}
	uri := c.address + data.RouteRegister
	response, err := c.unmarshalResponse(ctx, uri, http.MethodPost, bytes)
	if err != nil {
		return nil, nil, err
	}
	tokens := &data.TokenPair{Refresh: response.Refresh, Access: response.Access}
	c.storeTokens(tokens)
	return response.User, tokens, nil
}

func (c *client) PasswordChange(ctx context.Context, oldPassword, newPassword string) error {
	bytes, err := json.Marshal(&data.Request{
		OldPassword: oldPassword,
		NewPassword: newPassword,
	})
	if err != nil {
		return err
	}
	uri := c.address + data.RouteChangePassword
	if _, err := c.doRequest(ctx, uri, http.MethodPut, bytes); err != nil {
		return err
	}
	return nil
}

func (c *client) ProfileUpdate(ctx context.Context, userPartial data.UserPartial) (*data.User, error) {
	bytes, err := json.Marshal(&data.Request{UserPartial: &userPartial})
	if err != nil {
		return nil, err
	}
	uri := c.address + data.RouteUpdateProfile
	response, err := c.unmarshalResponse(ctx, uri, http.MethodPut, bytes)
	if err != nil {
		return nil, err
	}
	return response.User, nil
}

func (c *client) FormFieldCreate(ctx context.Context, formFieldPartial data.FormFieldPartial) (*data.FormField, error) {
	bytes, err := json.Marshal(&data.Request{FormFieldPartial: &formFieldPartial})
	if err != nil {
		return nil, err
	}
	uri := c.address + data.RouteFormFields
	response, err := c.unmarshalResponse(ctx, uri, http.MethodPost, bytes)
	if err != nil {
		return nil, err
	}
	return response.FormField, nil
}

func (c *client) FormFieldRead(ctx context.Context, fieldId int64) (*data.FormField, error) {
	uri := fmt.Sprintf(c.address+data.RouteFormFieldsFieldIdf, fieldId)
	response, err := c.unmarshalResponse(ctx, uri, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	return response.FormField, nil
}

func (c *client) FormFieldsRead(ctx context.Context) ([]*data.FormField, error) {
	uri := c.address + data.RouteFormFields
	response, err := c.unmarshalResponse(ctx, uri, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	return response.FormFields, nil
}

func (c *client) FormFieldUpdate(ctx context.Context, fieldId int64, formFieldPartial data.FormFieldPartial) (*data.FormField, error) {
	bytes, err := json.Marshal(&data.Request{FormFieldPartial: &formFieldPartial})
	if err != nil {
		return nil, err
	}
	uri := fmt.Sprintf(c.address+data.RouteFormFieldsFieldIdf, fieldId)
	response, err := c.unmarshalResponse(ctx, uri, http.MethodPut, bytes)
	if err != nil {
		return nil, err
	}
	return response.FormField, nil
}

func (c *client) FormFieldDelete(ctx context.Context, fieldId int64) error {
	uri := fmt.Sprintf(c.address+data.RouteFormFieldsFieldIdf, fieldId)
	if _, err := c.doRequest(ctx, uri, http.MethodDelete, nil); err != nil {
		return err
	}
	return nil
}

func (c *client) FormFieldsReorder(ctx context.Context, fieldIds []int64) error {
	bytes, err := json.Marshal(&data.Request{Order: fieldIds})
	if err != nil {
		return err
	}
	uri := c.address + data.RouteFormFieldsOrder
	if _, err := c.doRequest(ctx, uri, http.MethodPost, bytes); err != nil {
		return err
	}
	return nil
}

func (c *client) EmployeeCreate(ctx context.Context, employeePartial data.EmployeePartial) (*data.Employee, error) {
	bytes, err := json.Marshal(&data.Request{EmployeePartial: &employeePartial})
	if err != nil {
		return nil, err
	}
	uri := c.address + data.RouteEmployees
	response, err := c.unmarshalResponse(ctx, uri, http.MethodPost, bytes)
	if err != nil {
		return nil, err
	}
	return response.Employee, nil
}

func (c *client) EmployeeRead(ctx context.Context, employeeId int64) (*data.Employee, error) {
	if !c.config.cacheDisabled {
		employee, err := c.cache.EmployeeRead(ctx, employeeId)
		if err == nil {
			return employee, nil
		}
		c.Debug(ctx, "error while reading employee (%d) from cache: %s",
			employeeId, err)
	}
	uri := fmt.Sprintf(c.address+data.RouteEmployeesEmployeeIdf, employeeId)
	response, err := c.unmarshalResponse(ctx, uri, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	if !c.config.cacheDisabled {
		if err := c.cache.EmployeesWrite(ctx, data.EmployeeSearch{},
			response.Employee); err != nil {
			c.Error(ctx, "error while writing employee (%d) to cache: %s",
				employeeId, err)
		}
	}
	return response.Employee, nil
}

func (c *client) EmployeesSearch(ctx context.Context, search data.EmployeeSearch) ([]*data.Employee, error) {
	if !c.config.cacheDisabled {
		employees, err := c.cache.EmployeesRead(ctx, search)
		if err == nil {
			return employees, nil
		}
		c.Debug(ctx, "error while reading employees from cache: %s", err)
	}
	uri := c.address + data.RouteEmployeesSearch
	if params := search.ToParams().Encode(); params != "" {
		uri += "?" + params
	}
	response, err := c.unmarshalResponse(ctx, uri, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	if !c.config.cacheDisabled {
		if err := c.cache.EmployeesWrite(ctx, search, response.Employees...); err != nil {
			c.Error(ctx, "error while writing employees to cache: %s", err)
		}
	}
	return response.Employees, nil
}

func (c *client) EmployeeUpdate(ctx context.Context, employeeId int64, employeePartial data.EmployeePartial) (*data.Employee, error) {
	bytes, err := json.Marshal(&data.Request{EmployeePartial: &employeePartial})
	if err != nil {
		return nil, err
	}
	uri := fmt.Sprintf(c.address+data.RouteEmployeesEmployeeIdf, employeeId)
	response, err := c.unmarshalResponse(ctx, uri, http.MethodPut, bytes)
	if err != nil {
		return nil, err
	}
	if !c.config.cacheDisabled {
		if err := c.cache.EmployeesDelete(ctx, employeeId); err != nil {
			c.Error(ctx, "error while deleting employee (%d) from cache: %s",
				employeeId, err)
		}
	}
	return response.Employee, nil
}

func (c *client) EmployeeDelete(ctx context.Context, employeeId int64) error {
	uri := fmt.Sprintf(c.address+data.RouteEmployeesEmployeeIdf, employeeId)
	if _, err := c.doRequest(ctx, uri, http.MethodDelete, nil); err != nil {
		return err
	}
	if !c.config.cacheDisabled {
		if err := c.cache.EmployeesDelete(ctx, employeeId); err != nil {
			c.Error(ctx, "error while deleting employee (%d) from cache: %s",
				employeeId, err)
		}
	}
	return nil
}

func (c *client) CacheClear(ctx context.Context) error {
	uri := c.address + data.RouteCache
	if _, err := c.doRequest(ctx, uri, http.MethodDelete, nil); err != nil {
		return err
	}
	return nil
}

func (c *client) CacheCountersRead(ctx context.Context) (*data.CacheCounters, error) {
	uri := c.address + data.RouteCacheCounters
	bytes, err := c.doRequest(ctx, uri, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	cacheCounters := &data.CacheCounters{}
	if err := json.Unmarshal(bytes, cacheCounters); err != nil {
		return nil, err
	}
	return cacheCounters, nil
}

func (c *client) CacheCountersClear(ctx context.Context) error {
	uri := c.address + data.RouteCacheCounters
	if _, err := c.doRequest(ctx, uri, http.MethodDelete, nil); err != nil {
		return err
	}
	return nil
}

func (c *client) TimersRead(ctx context.Context) (*data.Timers, error) {
	uri := c.address + data.RouteTimers
	bytes, err := c.doRequest(ctx, uri, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	timers := &data.Timers{}
	if err := json.Unmarshal(bytes, timers); err != nil {
		return nil, err
	}
	return timers, nil
}

func (c *client) TimersClear(ctx context.Context) error {
	uri := c.address + data.RouteTimers
	if _, err := c.doRequest(ctx, uri, http.MethodDelete, nil); err != nil {
		return err
	}
	return nil
}
