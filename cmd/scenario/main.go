package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/antonio-alexander/go-employee-manager/internal"
	"github.com/antonio-alexander/go-employee-manager/internal/cache"
	"github.com/antonio-alexander/go-employee-manager/internal/client"
	"github.com/antonio-alexander/go-employee-manager/internal/data"
	"github.com/antonio-alexander/go-employee-manager/internal/utilities"

	"github.com/antonio-alexander/go-stash/memory"
	"github.com/antonio-alexander/go-stash/redis"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
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

func main() {
	pwd, _ := os.Getwd()
	args := os.Args[1:]
	envs := make(map[string]string)
	for _, env := range os.Environ() {
		if s := strings.Split(env, "="); len(s) > 1 {
			envs[s[0]] = strings.Join(s[1:], "=")
		}
	}
	osSignal := make(chan os.Signal, 1)
	signal.Notify(osSignal, syscall.SIGINT, syscall.SIGTERM)
	if err := Main(pwd, args, envs, osSignal); err != nil {
		os.Stderr.WriteString(err.Error())
		os.Exit(1)
	}
}

// loadEnvs merges dotenv files into the provided environment; values
// already present (the real environment) always win
func loadEnvs(pwd string, envs map[string]string) {
	files := []string{".env"}
	if appEnv, ok := envs["APP_ENV"]; ok && appEnv != "" {
		files = append(files, "."+appEnv+".env")
	}
	for _, file := range files {
		fileEnvs, err := godotenv.Read(filepath.Join(pwd, file))
		if err != nil {
			continue
		}
		for key, value := range fileEnvs {
			if _, ok := envs[key]; !ok {
				envs[key] = value
			}
		}
	}
}

func createCache(envs map[string]string, parameters ...any) interface {
	internal.Configurer
	internal.Opener
	internal.Clearer
	cache.Cache
} {
	switch envs["CACHE_TYPE"] {
	default:
		return nil
	case "memory":
		return cache.NewMemory(parameters...)
	case "redis":
		return cache.NewRedis(parameters...)
	case "memcached":
		return cache.NewMemcached(parameters...)
	case "stash-memory":
		stash := memory.New()
		_ = stash.Configure(envs)
		parameters = append(parameters, stash)
		return cache.NewStash(parameters...)
	case "stash-redis":
		stash := redis.New()
		_ = stash.Configure(envs)
		parameters = append(parameters, stash)
		return cache.NewStash(parameters...)
	}
}

// determine hit/miss ratio with concurrent reads when
// invalidating the cache, possibly overall benchmark too
func scenarioStampedingHerd(ctx context.Context, envs map[string]string, logger utilities.Logger,
	clients ...client.Client) error {
	const correlationId string = "scenario_stampeding_herd"
	const minClients int = 2

	var readInterval time.Duration = time.Second
	var updateInterval time.Duration = 2 * time.Second
	var scenarioDuration time.Duration = 10 * time.Second
	var wg sync.WaitGroup

	if s := envs["SCENARIO_READ_INTERVAL"]; s != "" {
		i, _ := strconv.Atoi(s)
		readInterval = time.Duration(i) * time.Second
	}
	if s := envs["SCENARIO_UPDATE_INTERVAL"]; s != "" {
		i, _ := strconv.Atoi(s)
		updateInterval = time.Duration(i) * time.Second
	}
	if s := envs["SCENARIO_DURATION"]; s != "" {
		i, _ := strconv.Atoi(s)
		scenarioDuration = time.Duration(i) * time.Second
	}
	if len(clients) < minClients {
		return errors.New("not enough clients provided")
	}

	//generate context
	ctx = internal.CtxWithCorrelationId(ctx, correlationId)

	// create employee using the first client
	employeeCreated, err := clients[0].EmployeeCreate(ctx, data.EmployeePartial{
		Fields: &map[string]data.FieldValue{
			"Name": {Value: internal.GenerateId()[:14], Type: data.FieldTypeText},
		},
	})
	if err != nil {
		return err
	}
	employeeId := employeeCreated.Id
	defer func(employeeId int64) {
		_ = clients[0].EmployeeDelete(ctx, employeeId)
		logger.Info(ctx, "deleted employee: %d", employeeId)
	}(employeeId)
	logger.Info(ctx, "created employee: %d", employeeId)

	//generate start/stop channels
	start, stop := make(chan struct{}), make(chan struct{})

	//create writer go routine
	wg.Add(1)
	go func(ctx context.Context, client client.Client) {
		defer wg.Done()
		ctx = internal.CtxWithCorrelationId(ctx, correlationId)
		updateEmployeeFx := func(ctx context.Context) error {
			if _, err := client.EmployeeUpdate(ctx, employeeId,
				data.EmployeePartial{
					Fields: &map[string]data.FieldValue{
						"Name": {Value: internal.GenerateId()[:14], Type: data.FieldTypeText},
					},
				}); err != nil {
				return err
			}
			return nil
		}
		tUpdate := time.NewTicker(updateInterval)
		defer tUpdate.Stop()
		<-start
		for {
			select {
			case <-stop:
				return
			case <-tUpdate.C:
				if err := updateEmployeeFx(ctx); err != nil {
					logger.Error(ctx, "error while updating employee: %s", err)
				}
			}
		}
	}(ctx, clients[0])

	//create reader go routines
	for i := 1; i < len(clients); i++ {
		wg.Add(1)
		go func(ctx context.Context, clientNumber int, client client.Client) {
			defer wg.Done()

			correlationId := fmt.Sprintf("scenario_stampeding_herd_%d", clientNumber)
			ctx = internal.CtxWithCorrelationId(ctx, correlationId)
			readEmployeeFx := func(ctx context.Context) error {
				if _, err := client.EmployeeRead(ctx, employeeId); err != nil {
					return err
				}
				return nil
			}
			tRead := time.NewTicker(readInterval)
			defer tRead.Stop()
			<-start
			for {
				select {
				case <-stop:
					return
				case <-tRead.C:
					if err := readEmployeeFx(ctx); err != nil {
						logger.Error(ctx, "error while reading employee: %s", err)
					}
				}
			}
		}(ctx, i, clients[i])
	}

	//clear cache counters and start the go routines
	if err := clients[0].CacheClear(ctx); err != nil {
		return err
	}
	if err := clients[0].CacheCountersClear(ctx); err != nil {
		return err
	}
	close(start)

	//allow go routines to run
	<-time.After(scenarioDuration)

	//stop go routines
	close(stop)
	wg.Wait()

	//use initial client to get hit/miss ratios from server
	cacheCounters, err := clients[0].CacheCountersRead(ctx)
	if err != nil {
		return err
	}
	hit := cacheCounters.CounterHits["employee_read"]
	miss := cacheCounters.CounterMisses["employee_read"]
	total := hit + miss
	logger.Info(ctx, "cache hit miss ratio (%d/%d): %0.2f%%",
		hit, total, float64(hit)/float64(total)*100)

	return nil
}

// churn the form field definitions: one client keeps reordering the
// field set while the remaining clients keep listing it
func scenarioFormFieldChurn(ctx context.Context, envs map[string]string, logger utilities.Logger,
	clients ...client.Client) error {
	const correlationId string = "scenario_form_field_churn"
	const minClients int = 2
	const nFields int = 5

	var readInterval time.Duration = time.Second
	var reorderInterval time.Duration = 2 * time.Second
	var scenarioDuration time.Duration = 10 * time.Second
	var reads, reorders int64
	var wg sync.WaitGroup

	if s := envs["SCENARIO_READ_INTERVAL"]; s != "" {
		i, _ := strconv.Atoi(s)
		readInterval = time.Duration(i) * time.Second
	}
	if s := envs["SCENARIO_UPDATE_INTERVAL"]; s != "" {
		i, _ := strconv.Atoi(s)
		reorderInterval = time.Duration(i) * time.Second
	}
	if s := envs["SCENARIO_DURATION"]; s != "" {
		i, _ := strconv.Atoi(s)
		scenarioDuration = time.Duration(i) * time.Second
	}
	if len(clients) < minClients {
		return errors.New("not enough clients provided")
	}

	//generate context
	ctx = internal.CtxWithCorrelationId(ctx, correlationId)

	// create form fields using the first client
	var fieldIds []int64
	for i := 0; i < nFields; i++ {
		label := fmt.Sprintf("Field %s", internal.GenerateId()[:8])
		fieldType := data.FieldTypeText
		formField, err := clients[0].FormFieldCreate(ctx, data.FormFieldPartial{
			Label:     &label,
			FieldType: &fieldType,
		})
		if err != nil {
			return err
		}
		fieldIds = append(fieldIds, formField.Id)
	}
	defer func() {
		for _, fieldId := range fieldIds {
			_ = clients[0].FormFieldDelete(ctx, fieldId)
		}
		logger.Info(ctx, "deleted %d form fields", len(fieldIds))
	}()
	logger.Info(ctx, "created %d form fields", len(fieldIds))

	//generate start/stop channels
	start, stop := make(chan struct{}), make(chan struct{})

	//create reorder go routine; rotates the field order each tick
	wg.Add(1)
	go func(ctx context.Context, client client.Client) {
		defer wg.Done()
		ctx = internal.CtxWithCorrelationId(ctx, correlationId)
		tReorder := time.NewTicker(reorderInterval)
		defer tReorder.Stop()
		<-start
		for {
			select {
			case <-stop:
				return
			case <-tReorder.C:
				fieldIds = append(fieldIds[1:], fieldIds[0])
				if err := client.FormFieldsReorder(ctx, fieldIds); err != nil {
					logger.Error(ctx, "error while reordering form fields: %s", err)
					continue
				}
				atomic.AddInt64(&reorders, 1)
			}
		}
	}(ctx, clients[0])

	//create reader go routines
	for i := 1; i < len(clients); i++ {
		wg.Add(1)
		go func(ctx context.Context, clientNumber int, client client.Client) {
			defer wg.Done()

			correlationId := fmt.Sprintf("scenario_form_field_churn_%d", clientNumber)
			ctx = internal.CtxWithCorrelationId(ctx, correlationId)
			tRead := time.NewTicker(readInterval)
			defer tRead.Stop()
			<-start
			for {
				select {
				case <-stop:
					return
				case <-tRead.C:
					if _, err := client.FormFieldsRead(ctx); err != nil {
						logger.Error(ctx, "error while reading form fields: %s", err)
						continue
					}
					atomic.AddInt64(&reads, 1)
				}
			}
		}(ctx, i, clients[i])
	}

	//start the go routines and allow them to run
	close(start)
	<-time.After(scenarioDuration)

	//stop go routines
	close(stop)
	wg.Wait()

	logger.Info(ctx, "form field churn: %d reorders, %d reads over %v",
		atomic.LoadInt64(&reorders), atomic.LoadInt64(&reads), scenarioDuration)

	return nil
}

func Main(pwd string, args []string, envs map[string]string, osSignal chan (os.Signal)) error {
	var clients []client.Client
	var wg sync.WaitGroup

	//create context
	ctx, cancel := internal.LaunchContext(&wg, osSignal)
	defer cancel()

	//merge dotenv files
	loadEnvs(pwd, envs)

	// create logger
	logger := utilities.NewLogger()
	_ = logger.Configure(envs)

	//print version info
	logger.Info(ctx, "scenarios: go-employee-manager v%s (%s) built from: %s",
		Version, GitCommit, GitBranch)

	//KIM: the cache and timers endpoints are staff only and employee
	// reads are owner scoped, so every client logs in with the same
	// staff credentials (create them with employee-admin createsuperuser)
	email, password := envs["SCENARIO_EMAIL"], envs["SCENARIO_PASSWORD"]
	if email == "" || password == "" {
		return errors.New("scenario email and password are required")
	}

	nClients, _ := strconv.Atoi(envs["N_CLIENTS"])
	for range nClients {
		//create cache
		cache := createCache(envs, logger)
		if cache != nil {
			if err := cache.Configure(envs); err != nil {
				return err
			}
			if err := cache.Open(ctx); err != nil {
				return err
			}
			defer func() {
				if err := cache.Close(context.Background()); err != nil {
					logger.Error(ctx, "error while closing cache: %s", err)
				}
			}()
		}

		//create client
		client := client.NewClient(cache, logger)
		if err := client.Configure(envs); err != nil {
			return err
		}
		if err := client.Open(ctx); err != nil {
			return err
		}
		defer func() {
			if err := client.Close(context.Background()); err != nil {
				logger.Error(ctx, "error while closing client: %s", err)
			}
		}()
		if _, err := client.Login(ctx, email, password); err != nil {
			return err
		}
		clients = append(clients, client)
	}

	// execute scenario
	switch scenario := envs["SCENARIO"]; scenario {
	default:
		return errors.Errorf("unsupported scenario: %s", scenario)
	case "stampeding_herd":
		logger.Info(ctx, "executing %s scenario", scenario)
		if err := scenarioStampedingHerd(ctx, envs, logger, clients...); err != nil {
			logger.Error(ctx, "error while executing %s scenario: %s", scenario, err)
		}
	case "form_field_churn":
		logger.Info(ctx, "executing %s scenario", scenario)
		if err := scenarioFormFieldChurn(ctx, envs, logger, clients...); err != nil {
			logger.Error(ctx, "error while executing %s scenario: %s", scenario, err)
		}
	}
	cancel()
	wg.Wait()
	return nil
}
