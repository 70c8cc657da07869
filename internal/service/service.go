package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/antonio-alexander/go-employee-manager/internal"
	"github.com/antonio-alexander/go-employee-manager/internal/auth"
	"github.com/antonio-alexander/go-employee-manager/internal/data"
	"github.com/antonio-alexander/go-employee-manager/internal/logic"
	"github.com/antonio-alexander/go-employee-manager/internal/utilities"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"golang.org/x/time/rate"
)

var (
	Version   string
	GitCommit string
	GitBranch string
)

func init() {
	if Version = data.Version; Version == "" {
		Version = "<no_version_provided>"
	}
	if GitCommit = data.GitCommit; GitCommit == "" {
		GitCommit = "<no_git_commit>"
	}
	if GitBranch = data.GitBranch; GitBranch == "" {
		GitBranch = "<no_git_branch>"
	}
}

type service struct {
	sync.RWMutex
	sync.WaitGroup
	config struct {
		address          string
		port             string
		shutdownTimeout  time.Duration
		allowedOrigins   []string
		allowedMethods   []string
		allowedHeaders   []string
		allowCredentials bool
		corsDisabled     bool
		corsDebug        bool
		timersEnabled    bool
		loginRate        float64
		loginBurst       int
	}
	ctx           context.Context
	cancel        context.CancelFunc
	loginLimiters map[string]*rate.Limiter
	*mux.Router
	*http.Server
	auth   auth.Auth
	pinger internal.Pinger
	utilities.Logger
	utilities.Counter
	utilities.Timers
	logic.Logic
}

func NewService(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	http.Handler
} {
	router := mux.NewRouter()
	s := &service{
		Router: router,
		Server: &http.Server{
			Handler: router,
		},
		loginLimiters: make(map[string]*rate.Limiter),
	}
	//KIM: the logger case has to come last, the sql and logic
	// composites embed a logger and would match it
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case logic.Logic:
			s.Logic = p
		case auth.Auth:
			s.auth = p
		case internal.Pinger:
			s.pinger = p
		case utilities.Counter:
			s.Counter = p
		case utilities.Timers:
			s.Timers = p
		case utilities.Logger:
			s.Logger = p
		}
	}
	if s.Logger == nil {
		s.Logger = utilities.NewLogger()
	}
	if s.Counter == nil {
		s.Counter = utilities.NewCounter()
	}
	if s.Timers == nil {
		s.Timers = utilities.NewTimers()
	}
	s.buildRoutes()
	return s
}

func (s *service) launchServer() error {
	started := make(chan struct{})
	chErr := make(chan error, 1)
	s.Add(1)
	go func() {
		defer s.WaitGroup.Done()
		defer close(chErr)

		if !s.config.corsDisabled {
			s.Server.Handler = cors.New(cors.Options{
				AllowedOrigins:   s.config.allowedOrigins,
				AllowCredentials: s.config.allowCredentials,
				AllowedMethods:   s.config.allowedMethods,
				AllowedHeaders:   s.config.allowedHeaders,
				Debug:            s.config.corsDebug,
			}).Handler(s.Router)
		}
		close(started)
		if err := s.Server.ListenAndServe(); err != nil {
			chErr <- err
		}
	}()
	<-started
	select {
	case err := <-chErr:
		//KIM: here we're accounting for a situation where the server closes unexexpectedly
		// but quickly (within a second of starting); this allows us to respond to errors such as
		// the port being already used
		return err
	case <-time.After(time.Second):
		address := net.JoinHostPort(s.config.address, s.config.port)
		s.Info(s.ctx, "started server: %s", address)
		return nil
	}
}

// correlationMiddleware reads or generates a correlation id, echoes it
// back and makes it available to handlers and the logger through the
// request context
func (s *service) correlationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		correlationId := request.Header.Get("Correlation-Id")
		if correlationId == "" {
			correlationId = internal.GenerateId()
		}
		writer.Header().Set("Correlation-Id", correlationId)
		ctx := internal.CtxWithCorrelationId(request.Context(), correlationId)
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

func (s *service) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		tNow := time.Now()
		utilities.HTTPRequestsInFlight.Inc()
		defer utilities.HTTPRequestsInFlight.Dec()
		recorder := &statusRecorder{ResponseWriter: writer, statusCode: http.StatusOK}
		next.ServeHTTP(recorder, request)
		route := request.URL.Path
		if current := mux.CurrentRoute(request); current != nil {
			if template, err := current.GetPathTemplate(); err == nil {
				route = template
			}
		}
		utilities.HTTPRequestsTotal.WithLabelValues(request.Method, route,
			statusCodeString(recorder.statusCode)).Inc()
		utilities.HTTPRequestDuration.WithLabelValues(request.Method, route).
			Observe(time.Since(tNow).Seconds())
	})
}

// authorized wraps an endpoint with bearer token validation; the
// validated claims are injected into the request context
func (s *service) authorized(staffOnly bool, handlerFx func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		token, err := bearerToken(request)
		if err != nil {
			handleResponse(writer, err)
			return
		}
		claims, err := s.auth.ValidateToken(token, data.TokenTypeAccess)
		if err != nil {
			handleResponse(writer, err)
			return
		}
		if staffOnly && !claims.IsStaff {
			handleResponse(writer, data.ErrForbidden)
			return
		}
		ctx := auth.CtxWithClaims(request.Context(), claims)
		handlerFx(writer, request.WithContext(ctx))
	}
}

// loginAllowed applies a per-address token bucket to the login endpoint
// so credentials can't be brute forced
func (s *service) loginAllowed(remoteAddr string) bool {
	if s.config.loginRate <= 0 {
		return true
	}
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	s.Lock()
	defer s.Unlock()
	limiter, found := s.loginLimiters[host]
	if !found {
		limiter = rate.NewLimiter(rate.Limit(s.config.loginRate),
			s.config.loginBurst)
		s.loginLimiters[host] = limiter
	}
	return limiter.Allow()
}

func (s *service) readRequest(writer http.ResponseWriter, request *http.Request) (*data.Request, bool) {
	serviceRequest := &data.Request{}
	bytes, err := io.ReadAll(request.Body)
	defer request.Body.Close()
	if err != nil {
		handleResponse(writer, err)
		return nil, false
	}
	if err := json.Unmarshal(bytes, serviceRequest); err != nil {
		handleResponse(writer, fmt.Errorf("%w: %s", data.ErrInvalidInput, err))
		return nil, false
	}
	return serviceRequest, true
}

func (s *service) endpointDefault(writer http.ResponseWriter, _ *http.Request) {
	handleResponse(writer, nil, &data.Response{
		Version:   Version,
		GitCommit: GitCommit,
		GitBranch: GitBranch,
	})
}

func (s *service) endpointLoginPage(writer http.ResponseWriter, _ *http.Request) {
	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(writer, loginPage)
}

func (s *service) endpointHealth(writer http.ResponseWriter, request *http.Request) {
	if s.pinger != nil {
		if err := s.pinger.Ping(request.Context()); err != nil {
			handleResponse(writer, err)
			return
		}
	}
	handleResponse(writer, nil, &data.Response{Status: data.StatusSuccess})
}

func (s *service) endpointLogin(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	if s.config.timersEnabled {
		timerIndex := s.Start("login")
		defer func() {
			elapsedtime := s.Stop("login", timerIndex)
			s.Trace(ctx, "login took %v",
				time.Duration(elapsedtime)*time.Nanosecond)
		}()
	}
	if !s.loginAllowed(request.RemoteAddr) {
		utilities.LoginThrottledTotal.Inc()
		s.Debug(ctx, "throttled login attempt from %s", request.RemoteAddr)
		writer.Header().Set("Content-Type", "application/json; charset=utf-8")
		writer.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(writer).Encode(&data.Response{
			Error: "too many login attempts"})
		return
	}
	serviceRequest, ok := s.readRequest(writer, request)
	if !ok {
		return
	}
	tokens, err := s.Login(ctx, serviceRequest.Email, serviceRequest.Password)
	if err != nil {
		handleResponse(writer, err)
		return
	}
	handleResponse(writer, nil, &data.Response{
		Refresh: tokens.Refresh,
		Access:  tokens.Access,
	})
	s.Trace(ctx, "executed login: %s", serviceRequest.Email)
}

func (s *service) endpointTokenRefresh(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	serviceRequest, ok := s.readRequest(writer, request)
	if !ok {
		return
	}
	tokens, err := s.TokenRefresh(ctx, serviceRequest.Refresh)
	if err != nil {
		handleResponse(writer, err)
		return
	}
	handleResponse(writer, nil, &data.Response{
		Refresh: tokens.Refresh,
		Access:  tokens.Access,
	})
	s.Trace(ctx, "executed token_refresh")
}

func (s *service) endpointRegister(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	if s.config.timersEnabled {
		timerIndex := s.Start("register")
		defer func() {
			elapsedtime := s.Stop("register", timerIndex)
			s.Trace(ctx, "register took %v",
				time.Duration(elapsedtime)*time.Nanosecond)
		}()
	}
	serviceRequest, ok := s.readRequest(writer, request)
	if !ok {
		return
	}
	if serviceRequest.UserPartial == nil {
		handleResponse(writer, fmt.Errorf("%w: no user provided",
			data.ErrInvalidInput))
		return
	}
	user, tokens, err := s.Register(ctx, *serviceRequest.UserPartial,
		serviceRequest.Password2)
	if err != nil {
		handleResponse(writer, err)
		return
	}
	handleResponseStatus(writer, http.StatusCreated, &data.Response{
		User:    user,
		Refresh: tokens.Refresh,
		Access:  tokens.Access,
	})
	s.Trace(ctx, "executed register: %d", user.Id)
}

func (s *service) endpointPasswordChange(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	claims := auth.ClaimsFromCtx(ctx)
	serviceRequest, ok := s.readRequest(writer, request)
	if !ok {
		return
	}
	if err := s.PasswordChange(ctx, claims.UserId,
		serviceRequest.OldPassword, serviceRequest.NewPassword); err != nil {
		handleResponse(writer, err)
		return
	}
	handleResponse(writer, nil, &data.Response{Status: data.StatusSuccess})
	s.Trace(ctx, "executed password_change: %d", claims.UserId)
}

func (s *service) endpointProfileUpdate(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	claims := auth.ClaimsFromCtx(ctx)
	serviceRequest, ok := s.readRequest(writer, request)
	if !ok {
		return
	}
	if serviceRequest.UserPartial == nil {
		handleResponse(writer, fmt.Errorf("%w: no user provided",
			data.ErrInvalidInput))
		return
	}
	user, err := s.ProfileUpdate(ctx, claims.UserId, *serviceRequest.UserPartial)
	if err != nil {
		handleResponse(writer, err)
		return
	}
	handleResponse(writer, nil, &data.Response{User: user})
	s.Trace(ctx, "executed profile_update: %d", claims.UserId)
}

func (s *service) endpointFormFieldCreate(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	claims := auth.ClaimsFromCtx(ctx)
	serviceRequest, ok := s.readRequest(writer, request)
	if !ok {
		return
	}
	if serviceRequest.FormFieldPartial == nil {
		handleResponse(writer, fmt.Errorf("%w: no form field provided",
			data.ErrInvalidInput))
		return
	}
	formField, err := s.FormFieldCreate(ctx, claims.UserId,
		*serviceRequest.FormFieldPartial)
	if err != nil {
		handleResponse(writer, err)
		return
	}
	handleResponseStatus(writer, http.StatusCreated, &data.Response{
		FormField: formField,
	})
	s.Trace(ctx, "executed form_field_create: %d", formField.Id)
}

func (s *service) endpointFormFieldsRead(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	claims := auth.ClaimsFromCtx(ctx)
	formFields, err := s.FormFieldsSearch(ctx, claims.UserId)
	if err != nil {
		handleResponse(writer, err)
		return
	}
	handleResponse(writer, nil, &data.Response{FormFields: formFields})
	s.Trace(ctx, "executed form_fields_read")
}

func (s *service) endpointFormFieldRead(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	claims := auth.ClaimsFromCtx(ctx)
	fieldId, err := fieldIdFromPath(mux.Vars(request))
	if err != nil {
		handleResponse(writer, err)
		return
	}
	formField, err := s.FormFieldRead(ctx, claims.UserId, fieldId)
	if err != nil {
		handleResponse(writer, err)
		return
	}
	handleResponse(writer, nil, &data.Response{FormField: formField})
	s.Trace(ctx, "executed form_field_read: %d", fieldId)
}

func (s *service) endpointFormFieldUpdate(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	claims := auth.ClaimsFromCtx(ctx)
	fieldId, err := fieldIdFromPath(mux.Vars(request))
	if err != nil {
		handleResponse(writer, err)
		return
	}
	serviceRequest, ok := s.readRequest(writer, request)
	if !ok {
		return
	}
	if serviceRequest.FormFieldPartial == nil {
		handleResponse(writer, fmt.Errorf("%w: no form field provided",
			data.ErrInvalidInput))
		return
	}
	formField, err := s.FormFieldUpdate(ctx, claims.UserId, fieldId,
		*serviceRequest.FormFieldPartial)
	if err != nil {
		handleResponse(writer, err)
		return
	}
	handleResponse(writer, nil, &data.Response{FormField: formField})
	s.Trace(ctx, "executed form_field_update: %d", fieldId)
}

func (s *service) endpointFormFieldDelete(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	claims := auth.ClaimsFromCtx(ctx)
	fieldId, err := fieldIdFromPath(mux.Vars(request))
	if err != nil {
		handleResponse(writer, err)
		return
	}
	if err := s.FormFieldDelete(ctx, claims.UserId, fieldId); err != nil {
		handleResponse(writer, err)
		return
	}
	handleResponse(writer, nil)
	s.Trace(ctx, "executed form_field_delete: %d", fieldId)
}

func (s *service) endpointFormFieldsReorder(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	claims := auth.ClaimsFromCtx(ctx)
	serviceRequest, ok := s.readRequest(writer, request)
	if !ok {
		return
	}
	if err := s.FormFieldsReorder(ctx, claims.UserId,
		serviceRequest.Order); err != nil {
		handleResponse(writer, err)
		return
	}
	handleResponse(writer, nil, &data.Response{Status: data.StatusSuccess})
	s.Trace(ctx, "executed form_fields_reorder: %d fields",
		len(serviceRequest.Order))
}

func (s *service) endpointEmployeeCreate(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	claims := auth.ClaimsFromCtx(ctx)
	if s.config.timersEnabled {
		timerIndex := s.Start("employee_create")
		defer func() {
			elapsedtime := s.Stop("employee_create", timerIndex)
			s.Trace(ctx, "employee_create took %v",
				time.Duration(elapsedtime)*time.Nanosecond)
		}()
	}
	serviceRequest, ok := s.readRequest(writer, request)
	if !ok {
		return
	}
	if serviceRequest.EmployeePartial == nil {
		handleResponse(writer, fmt.Errorf("%w: no employee provided",
			data.ErrInvalidInput))
		return
	}
	employee, err := s.EmployeeCreate(ctx, claims.UserId,
		*serviceRequest.EmployeePartial)
	if err != nil {
		handleResponse(writer, err)
		return
	}
	handleResponseStatus(writer, http.StatusCreated, &data.Response{
		Employee: employee,
	})
	s.Trace(ctx, "executed employee_create: %d", employee.Id)
}

func (s *service) endpointEmployeeRead(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	claims := auth.ClaimsFromCtx(ctx)
	if s.config.timersEnabled {
		timerIndex := s.Start("employee_read")
		defer func() {
			elapsedtime := s.Stop("employee_read", timerIndex)
			s.Trace(ctx, "employee_read took %v",
				time.Duration(elapsedtime)*time.Nanosecond)
		}()
	}
	employeeId, err := employeeIdFromPath(mux.Vars(request))
	if err != nil {
		handleResponse(writer, err)
		return
	}
	employee, err := s.EmployeeRead(ctx, claims.UserId, claims.IsStaff,
		employeeId)
	if err != nil {
		handleResponse(writer, err)
		return
	}
	handleResponse(writer, nil, &data.Response{Employee: employee})
	s.Trace(ctx, "executed employee_read: %d", employee.Id)
}

func (s *service) endpointEmployeesSearch(writer http.ResponseWriter, request *http.Request) {
	var search data.EmployeeSearch

	ctx := request.Context()
	claims := auth.ClaimsFromCtx(ctx)
	if s.config.timersEnabled {
		timerIndex := s.Start("employees_search")
		defer func() {
			elapsedtime := s.Stop("employees_search", timerIndex)
			s.Trace(ctx, "employees_search took %v",
				time.Duration(elapsedtime)*time.Nanosecond)
		}()
	}
	if err := request.ParseForm(); err != nil {
		handleResponse(writer, err)
		return
	}
	search.FromParams(request.Form)
	employees, err := s.EmployeesSearch(ctx, claims.UserId, claims.IsStaff, search)
	if err != nil {
		handleResponse(writer, err)
		return
	}
	handleResponse(writer, nil, &data.Response{Employees: employees})
	s.Trace(ctx, "executed employees_search")
}

func (s *service) endpointEmployeeUpdate(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	claims := auth.ClaimsFromCtx(ctx)
	if s.config.timersEnabled {
		timerIndex := s.Start("employee_update")
		defer func() {
			elapsedtime := s.Stop("employee_update", timerIndex)
			s.Trace(ctx, "employee_update took %v",
				time.Duration(elapsedtime)*time.Nanosecond)
		}()
	}
	employeeId, err := employeeIdFromPath(mux.Vars(request))
	if err != nil {
		handleResponse(writer, err)
		return
	}
	serviceRequest, ok := s.readRequest(writer, request)
	if !ok {
		return
	}
	if serviceRequest.EmployeePartial == nil {
		handleResponse(writer, fmt.Errorf("%w: no employee provided",
			data.ErrInvalidInput))
		return
	}
	employee, err := s.EmployeeUpdate(ctx, claims.UserId, employeeId,
		*serviceRequest.EmployeePartial)
	if err != nil {
		handleResponse(writer, err)
		return
	}
	handleResponse(writer, nil, &data.Response{Employee: employee})
	s.Trace(ctx, "executed employee_update: %d", employee.Id)
}

func (s *service) endpointEmployeeDelete(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	claims := auth.ClaimsFromCtx(ctx)
	if s.config.timersEnabled {
		timerIndex := s.Start("employee_delete")
		defer func() {
			elapsedtime := s.Stop("employee_delete", timerIndex)
			s.Trace(ctx, "employee_delete took %v",
				time.Duration(elapsedtime)*time.Nanosecond)
		}()
	}
	employeeId, err := employeeIdFromPath(mux.Vars(request))
	if err != nil {
		handleResponse(writer, err)
		return
	}
	if err := s.EmployeeDelete(ctx, claims.UserId, employeeId); err != nil {
		handleResponse(writer, err)
		return
	}
	handleResponse(writer, nil)
	s.Trace(ctx, "executed employee_delete: %d", employeeId)
}

func (s *service) endpointCacheClear(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	if err := s.CacheClear(ctx); err != nil {
		handleResponse(writer, err)
		return
	}
	handleResponse(writer, nil)
	s.Trace(ctx, "executed cache_clear")
}

func (s *service) endpointCacheCountersRead(writer http.ResponseWriter, _ *http.Request) {
	handleResponse(writer, nil, s.Counter.ReadAll())
}

func (s *service) endpointCacheCountersClear(writer http.ResponseWriter, request *http.Request) {
	s.Counter.Reset()
	handleResponse(writer, nil)
	s.Trace(request.Context(), "executed cache_counters_clear")
}

func (s *service) endpointTimersRead(writer http.ResponseWriter, _ *http.Request) {
	handleResponse(writer, nil, s.Timers.ReadAll())
}

func (s *service) endpointTimersClear(writer http.ResponseWriter, request *http.Request) {
	s.Timers.Clear()
	handleResponse(writer, nil)
	s.Trace(request.Context(), "executed timers_clear")
}

func (s *service) buildRoutes() {
	s.Router.Use(s.correlationMiddleware, s.metricsMiddleware)
	s.Router.HandleFunc(data.RouteDefault, s.endpointDefault)
	s.Router.HandleFunc(data.RouteLoginPage, s.endpointLoginPage)
	s.Router.HandleFunc(data.RouteHealth, s.endpointHealth)
	s.Router.Handle(data.RouteMetrics, utilities.MetricsHandler())
	s.Router.HandleFunc(data.RouteLogin, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		case http.MethodPost:
			s.endpointLogin(w, r)
		}
	})
	s.Router.HandleFunc(data.RouteRefresh, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		case http.MethodPost:
			s.endpointTokenRefresh(w, r)
		}
	})
	s.Router.HandleFunc(data.RouteRegister, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		case http.MethodPost:
			s.endpointRegister(w, r)
		}
	})
	s.Router.HandleFunc(data.RouteChangePassword, s.authorized(false,
		func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			default:
				w.WriteHeader(http.StatusMethodNotAllowed)
			case http.MethodPut, http.MethodPatch:
				s.endpointPasswordChange(w, r)
			}
		}))
	s.Router.HandleFunc(data.RouteUpdateProfile, s.authorized(false,
		func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			default:
				w.WriteHeader(http.StatusMethodNotAllowed)
			case http.MethodPut, http.MethodPatch:
				s.endpointProfileUpdate(w, r)
			}
		}))
	s.Router.HandleFunc(data.RouteFormFieldsOrder, s.authorized(false,
		func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			default:
				w.WriteHeader(http.StatusMethodNotAllowed)
			case http.MethodPost:
				s.endpointFormFieldsReorder(w, r)
			}
		}))
	s.Router.HandleFunc(data.RouteFormFields, s.authorized(false,
		func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			default:
				w.WriteHeader(http.StatusMethodNotAllowed)
			case http.MethodGet:
				s.endpointFormFieldsRead(w, r)
			case http.MethodPost:
				s.endpointFormFieldCreate(w, r)
			}
		}))
	s.Router.HandleFunc(data.RouteFormFieldsFieldId, s.authorized(false,
		func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			default:
				w.WriteHeader(http.StatusMethodNotAllowed)
			case http.MethodGet:
				s.endpointFormFieldRead(w, r)
			case http.MethodPut, http.MethodPatch:
				s.endpointFormFieldUpdate(w, r)
			case http.MethodDelete:
				s.endpointFormFieldDelete(w, r)
			}
		}))
	s.Router.HandleFunc(data.RouteEmployeesSearch, s.authorized(false,
		func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			default:
				w.WriteHeader(http.StatusMethodNotAllowed)
			case http.MethodGet:
				s.endpointEmployeesSearch(w, r)
			}
		}))
	s.Router.HandleFunc(data.RouteEmployees, s.authorized(false,
		func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			default:
				w.WriteHeader(http.StatusMethodNotAllowed)
			case http.MethodGet:
				s.endpointEmployeesSearch(w, r)
			case http.MethodPost:
				s.endpointEmployeeCreate(w, r)
			}
		}))
	s.Router.HandleFunc(data.RouteEmployeesEmployeeId, s.authorized(false,
		func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			default:
				w.WriteHeader(http.StatusMethodNotAllowed)
			case http.MethodGet:
				s.endpointEmployeeRead(w, r)
			case http.MethodPut, http.MethodPatch:
				s.endpointEmployeeUpdate(w, r)
			case http.MethodDelete:
				s.endpointEmployeeDelete(w, r)
			}
		}))
	s.Router.HandleFunc(data.RouteCache, s.authorized(true,
		func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			default:
				w.WriteHeader(http.StatusMethodNotAllowed)
			case http.MethodDelete:
				s.endpointCacheClear(w, r)
			}
		}))
	s.Router.HandleFunc(data.RouteCacheCounters, s.authorized(true,
		func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			default:
				w.WriteHeader(http.StatusMethodNotAllowed)
			case http.MethodGet:
				s.endpointCacheCountersRead(w, r)
			case http.MethodDelete:
				s.endpointCacheCountersClear(w, r)
			}
		}))
	s.Router.HandleFunc(data.RouteTimers, s.authorized(true,
		func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			default:
				w.WriteHeader(http.StatusMethodNotAllowed)
			case http.MethodGet:
				s.endpointTimersRead(w, r)
			case http.MethodDelete:
				s.endpointTimersClear(w, r)
			}
		}))
}

func (s *service) Start(group string) int {
	if s.Timers == nil {
		return -1
	}
	return s.Timers.Start(group)
}

func (s *service) Stop(group string, index int) int64 {
	if s.Timers == nil {
		return -1
	}
	return s.Timers.Stop(group, index)
}

func (s *service) Configure(envs map[string]string) error {
	if address, ok := envs["SERVICE_ADDRESS"]; ok {
		s.config.address = address
	}
	if port, ok := envs["SERVICE_PORT"]; ok && port != "" {
		s.config.port = port
	}
	if s.config.port == "" {
		s.config.port = "8080"
	}
	if shutdownTimeoutString, ok := envs["SERVICE_SHUTDOWN_TIMEOUT"]; ok {
		if shutdownTimeoutInt, err := strconv.Atoi(shutdownTimeoutString); err == nil {
			if timeout := time.Duration(shutdownTimeoutInt) * time.Second; timeout > 0 {
				s.config.shutdownTimeout = timeout
			}
		}
	}
	if s.config.shutdownTimeout <= 0 {
		s.config.shutdownTimeout = 10 * time.Second
	}
	if allowCredentialsString, ok := envs["SERVICE_CORS_ALLOW_CREDENTIALS"]; ok {
		if allowCredentials, err := strconv.ParseBool(allowCredentialsString); err == nil {
			s.config.allowCredentials = allowCredentials
		}
	}
	if allowedOrigins, ok := envs["SERVICE_CORS_ALLOWED_ORIGINS"]; ok {
		s.config.allowedOrigins = strings.Split(allowedOrigins, ",")
	}
	if allowedMethods, ok := envs["SERVICE_CORS_ALLOWED_METHODS"]; ok {
		s.config.allowedMethods = strings.Split(allowedMethods, ",")
	}
	if allowedHeaders, ok := envs["SERVICE_CORS_ALLOWED_HEADERS"]; ok {
		s.config.allowedHeaders = strings.Split(allowedHeaders, ",")
	}
	if corsDisabledString, ok := envs["SERVICE_CORS_DISABLED"]; ok {
		if corsDisabled, err := strconv.ParseBool(corsDisabledString); err == nil {
			s.config.corsDisabled = corsDisabled
		}
	}
	if corsDebug, ok := envs["SERVICE_CORS_DEBUG"]; ok {
		if corsDebug, err := strconv.ParseBool(corsDebug); err == nil {
			s.config.corsDebug = corsDebug
		}
	}
	if timersEnabled := envs["SERVICE_TIMERS_ENABLED"]; timersEnabled != "" {
		s.config.timersEnabled, _ = strconv.ParseBool(timersEnabled)
	}
	s.config.loginRate, s.config.loginBurst = 1, 5
	if loginRate, ok := envs["SERVICE_LOGIN_RATE"]; ok && loginRate != "" {
		f, err := strconv.ParseFloat(loginRate, 64)
		if err != nil {
			return err
		}
		s.config.loginRate = f
	}
	if loginBurst, ok := envs["SERVICE_LOGIN_BURST"]; ok && loginBurst != "" {
		i, err := strconv.Atoi(loginBurst)
		if err != nil {
			return err
		}
		if i > 0 {
			s.config.loginBurst = i
		}
	}
	if s.auth == nil {
		return fmt.Errorf("no auth provided")
	}
	if s.Logic == nil {
		return fmt.Errorf("no logic provided")
	}
	return nil
}

func (s *service) Open(ctx context.Context) error {
	s.Lock()
	defer s.Unlock()

	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.Server.Addr = net.JoinHostPort(s.config.address, s.config.port)
	if err := s.launchServer(); err != nil {
		return err
	}
	return nil
}

func (s *service) Close(ctx context.Context) error {
	s.Lock()
	defer s.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.config.shutdownTimeout)
	defer cancel()
	if err := s.Server.Shutdown(ctx); err != nil {
		s.Error(ctx, "error while shutting down the server: %s", err)
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.Wait()
	return nil
}
