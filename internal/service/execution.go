package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/antonio-alexander/go-employee-manager/internal/data"
)

func fieldIdFromPath(pathVariables map[string]string) (int64, error) {
	fieldId, err := strconv.ParseInt(pathVariables[data.PathFieldId], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: field id must be numeric", data.ErrInvalidInput)
	}
	return fieldId, nil
}

func employeeIdFromPath(pathVariables map[string]string) (int64, error) {
	employeeId, err := strconv.ParseInt(pathVariables[data.PathEmployeeId], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: employee id must be numeric", data.ErrInvalidInput)
	}
	return employeeId, nil
}

func bearerToken(request *http.Request) (string, error) {
	authorization := request.Header.Get("Authorization")
	if authorization == "" {
		return "", fmt.Errorf("%w: no authorization header",
			data.ErrTokenInvalid)
	}
	token, found := strings.CutPrefix(authorization, "Bearer ")
	if !found || token == "" {
		return "", fmt.Errorf("%w: authorization header isn't a bearer token",
			data.ErrTokenInvalid)
	}
	return token, nil
}

// statusFromError maps the sentinel errors onto status codes; anything
// unmapped is a server fault
func statusFromError(err error) int {
	switch {
	default:
		return http.StatusInternalServerError
	case errors.Is(err, data.ErrInvalidInput),
		errors.Is(err, data.ErrWeakPassword),
		errors.Is(err, data.ErrInvalidFieldType),
		errors.Is(err, data.ErrPasswordMismatch),
		errors.Is(err, data.ErrOldPasswordWrong):
		return http.StatusBadRequest
	case errors.Is(err, data.ErrInvalidCredentials),
		errors.Is(err, data.ErrTokenInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, data.ErrForbidden),
		errors.Is(err, data.ErrMutateDisabled):
		return http.StatusForbidden
	case errors.Is(err, data.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, data.ErrEmailExists):
		return http.StatusConflict
	}
}

func handleResponse(writer http.ResponseWriter, err error, items ...any) {
	handleResponseError(writer, http.StatusOK, err, items...)
}

func handleResponseStatus(writer http.ResponseWriter, statusCode int, items ...any) {
	handleResponseError(writer, statusCode, nil, items...)
}

func handleResponseError(writer http.ResponseWriter, statusCode int, err error, items ...any) {
	var bytes []byte

	if err == nil {
		switch {
		default:
			bytes, err = json.Marshal(items[0])
		case len(items) <= 0:
			writer.WriteHeader(http.StatusNoContent)
			return
		}
	}
	if err != nil {
		errBytes, marshalErr := json.Marshal(&data.Response{Error: err.Error()})
		if marshalErr != nil {
			fmt.Printf("error handling response: %s\n", marshalErr)
			return
		}
		writer.Header().Set("Content-Type", "application/json; charset=utf-8")
		writer.WriteHeader(statusFromError(err))
		if _, err := writer.Write(errBytes); err != nil {
			fmt.Printf("error handling response: %s\n", err)
		}
		return
	}
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	if statusCode != http.StatusOK {
		writer.WriteHeader(statusCode)
	}
	if _, err := writer.Write(bytes); err != nil {
		fmt.Printf("error handling response: %s\n", err)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

func statusCodeString(code int) string {
	return fmt.Sprintf("%dxx", code/100)
}

// loginPage is the html behind /login; it posts the form to the json
// login endpoint and stores the token pair for the caller
const loginPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Employee Manager - Login</title>
</head>
<body>
<h1>Login</h1>
<form id="login-form">
<label>Email <input type="email" name="email" required></label><br>
<label>Password <input type="password" name="password" required></label><br>
<button type="submit">Login</button>
</form>
<p id="login-error"></p>
<script>
document.getElementById("login-form").addEventListener("submit", async (e) => {
	e.preventDefault();
	const form = new FormData(e.target);
	const response = await fetch("/api/login", {
		method: "POST",
		headers: {"Content-Type": "application/json"},
		body: JSON.stringify({email: form.get("email"), password: form.get("password")}),
	});
	const body = await response.json();
	if (!response.ok) {
		document.getElementById("login-error").textContent = body.error || response.statusText;
		return;
	}
	sessionStorage.setItem("access", body.access);
	sessionStorage.setItem("refresh", body.refresh);
	document.getElementById("login-error").textContent = "logged in";
});
</script>
</body>
</html>
`
