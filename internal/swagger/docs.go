// Package Swagger go-employee-manager
//
// An API to allow you to interact with a go-employee-manager.
//
//   Schemes: http, https
//   Version: 1.0
//   Host: localhost:8080
//   BasePath:/
//
//   Consumes:
//   - application/json
//
//   Produces:
//   - application/json
//
//   Security:
//   - bearer
//
//  SecurityDefinitions:
//  bearer:
//    type: apiKey
//    name: Authorization
//    in: header
//
// swagger:meta
package swagger
