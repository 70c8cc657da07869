package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/antonio-alexander/go-employee-manager/internal/cache"
	"github.com/antonio-alexander/go-employee-manager/internal/client"
	"github.com/antonio-alexander/go-employee-manager/internal/data"

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
	args := os.Args[1:]
	envs := make(map[string]string)
	for _, env := range os.Environ() {
		if s := strings.Split(env, "="); len(s) > 1 {
			envs[s[0]] = strings.Join(s[1:], "=")
		}
	}
	osSignal := make(chan os.Signal, 1)
	signal.Notify(osSignal, syscall.SIGINT, syscall.SIGTERM)
	if err := Main(args, envs, osSignal); err != nil {
		os.Stderr.WriteString(err.Error())
		os.Exit(1)
	}
}

func printJson(item any) error {
	bytes, err := json.MarshalIndent(item, "", " ")
	if err != nil {
		return err
	}
	fmt.Println(string(bytes))
	return nil
}

// login authenticates with the configured credentials when they're
// present; commands against public endpoints don't require them
func login(ctx context.Context, client client.Client, envs map[string]string) error {
	email, password := envs["CLIENT_EMAIL"], envs["CLIENT_PASSWORD"]
	if email == "" || password == "" {
		return nil
	}
	if _, err := client.Login(ctx, email, password); err != nil {
		return err
	}
	return nil
}

func Main(args []string, envs map[string]string, osSignal chan (os.Signal)) error {
	fmt.Printf("client: go-employee-manager v%s (%s) built from: %s\n",
		Version, GitCommit, GitBranch)

	//create cache
	cache := cache.NewMemory()
	if err := cache.Configure(envs); err != nil {
		return err
	}
	ctx := context.Background()
	if err := cache.Open(ctx); err != nil {
		return err
	}
	defer func() {
		if err := cache.Close(ctx); err != nil {
			fmt.Printf("error while closing cache: %s\n", err)
		}
	}()

	//create client
	client := client.NewClient(cache)
	if err := client.Configure(envs); err != nil {
		return err
	}
	if err := client.Open(ctx); err != nil {
		return err
	}
	defer func() {
		if err := client.Close(ctx); err != nil {
			fmt.Printf("error while closing client: %s\n", err)
		}
	}()
	if err := login(ctx, client, envs); err != nil {
		return err
	}

	// execute command
	command := envs["COMMAND"]
	employeeId, _ := strconv.ParseInt(envs["EMPLOYEE_ID"], 10, 64)
	fieldId, _ := strconv.ParseInt(envs["FIELD_ID"], 10, 64)
	switch command {
	default:
		return errors.Errorf("unsupported command: %s", command)
	case "login":
		tokens, err := client.Login(ctx, envs["CLIENT_EMAIL"], envs["CLIENT_PASSWORD"])
		if err != nil {
			return err
		}
		return printJson(tokens)
	case "register":
		email, password := envs["CLIENT_EMAIL"], envs["CLIENT_PASSWORD"]
		firstName, lastName := envs["CLIENT_FIRST_NAME"], envs["CLIENT_LAST_NAME"]
		user, _, err := client.Register(ctx, data.UserPartial{
			Email:     &email,
			FirstName: &firstName,
			LastName:  &lastName,
			Password:  &password,
		}, password)
		if err != nil {
			return err
		}
		return printJson(user)
	case "employee_create":
		fields := map[string]data.FieldValue{}
		if s := envs["EMPLOYEE_FIELDS"]; s != "" {
			if err := json.Unmarshal([]byte(s), &fields); err != nil {
				return err
			}
		}
		employee, err := client.EmployeeCreate(ctx, data.EmployeePartial{
			Fields: &fields,
		})
		if err != nil {
			return err
		}
		return printJson(employee)
	case "employee_read":
		employee, err := client.EmployeeRead(ctx, employeeId)
		if err != nil {
			return err
		}
		return printJson(employee)
	case "employees_search":
		search := data.EmployeeSearch{}
		if s := envs["EMPLOYEE_SEARCH"]; s != "" {
			search.Search = &s
		}
		employees, err := client.EmployeesSearch(ctx, search)
		if err != nil {
			return err
		}
		return printJson(employees)
	case "employee_update":
		fields := map[string]data.FieldValue{}
		if s := envs["EMPLOYEE_FIELDS"]; s != "" {
			if err := json.Unmarshal([]byte(s), &fields); err != nil {
				return err
			}
		}
		employee, err := client.EmployeeUpdate(ctx, employeeId, data.EmployeePartial{
			Fields: &fields,
		})
		if err != nil {
			return err
		}
		return printJson(employee)
	case "employee_delete":
		if err := client.EmployeeDelete(ctx, employeeId); err != nil {
			return err
		}
		fmt.Printf("deleted employee (%d)\n", employeeId)
	case "form_field_create":
		label, fieldType := envs["FIELD_LABEL"], envs["FIELD_TYPE"]
		formField, err := client.FormFieldCreate(ctx, data.FormFieldPartial{
			Label:     &label,
			FieldType: &fieldType,
		})
		if err != nil {
			return err
		}
		return printJson(formField)
	case "form_fields_read":
		formFields, err := client.FormFieldsRead(ctx)
		if err != nil {
			return err
		}
		return printJson(formFields)
	case "form_field_update":
		label, fieldType := envs["FIELD_LABEL"], envs["FIELD_TYPE"]
		formField, err := client.FormFieldUpdate(ctx, fieldId, data.FormFieldPartial{
			Label:     &label,
			FieldType: &fieldType,
		})
		if err != nil {
			return err
		}
		return printJson(formField)
	case "form_field_delete":
		if err := client.FormFieldDelete(ctx, fieldId); err != nil {
			return err
		}
		fmt.Printf("deleted form field (%d)\n", fieldId)
	case "cache_clear":
		if err := client.CacheClear(ctx); err != nil {
			return err
		}
		fmt.Println("cache cleared")
	case "cache_counters_read":
		cacheCounters, err := client.CacheCountersRead(ctx)
		if err != nil {
			return err
		}
		return printJson(cacheCounters)
	case "timers_read":
		timers, err := client.TimersRead(ctx)
		if err != nil {
			return err
		}
		return printJson(timers)
	}
	return nil
}
