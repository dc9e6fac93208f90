// Package swagger registers the OpenAPI document served at /swagger/*any.
// Regenerate with `swag init -g cmd/api/main.go -o api/swagger` after
// changing handler annotations.
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {"get": {"tags": ["system"], "summary": "Liveness", "responses": {"200": {"description": "OK"}}}},
        "/register": {"post": {"tags": ["auth"], "summary": "Register user", "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/service.RegisterRequest"}}], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Username already exists"}}}},
        "/login": {"post": {"tags": ["auth"], "summary": "Login user", "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/service.LoginRequest"}}], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}}},
        "/logout": {"post": {"tags": ["auth"], "summary": "Logout", "responses": {"200": {"description": "OK"}}}},
        "/me": {"get": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Get current user", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/portal/login": {"post": {"tags": ["portal"], "summary": "Portal login", "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/service.LoginRequest"}}], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}}},
        "/portal/contract": {"get": {"security": [{"BearerAuth": []}], "tags": ["portal"], "summary": "Portal contract", "responses": {"200": {"description": "OK"}}}},
        "/api/portal-accounts": {"post": {"security": [{"BearerAuth": []}], "tags": ["portal"], "summary": "Create portal account", "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/service.PortalAccountRequest"}}], "responses": {"201": {"description": "Created"}, "404": {"description": "No sale for the id-number"}, "409": {"description": "Conflict"}}}},
        "/api/figurines": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["catalog"], "summary": "List figurines", "parameters": [{"type": "integer", "in": "query", "name": "page"}, {"type": "integer", "in": "query", "name": "limit"}, {"type": "string", "in": "query", "name": "search"}], "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["catalog"], "summary": "Create figurine", "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/service.CreateFigurineRequest"}}], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/api/figurines/{id}": {"delete": {"security": [{"BearerAuth": []}], "tags": ["catalog"], "summary": "Delete figurine with its sales and payments", "parameters": [{"type": "string", "in": "path", "name": "id", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/api/figurines/{id}/sales": {"post": {"security": [{"BearerAuth": []}], "tags": ["sales"], "summary": "Create sale", "parameters": [{"type": "string", "in": "path", "name": "id", "required": true}, {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/service.CreateSaleRequest"}}], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}, "409": {"description": "Out of stock or duplicate contract number"}}}},
        "/api/sales": {"get": {"security": [{"BearerAuth": []}], "tags": ["sales"], "summary": "List sales", "parameters": [{"type": "integer", "in": "query", "name": "page"}, {"type": "integer", "in": "query", "name": "limit"}, {"type": "string", "in": "query", "name": "status"}], "responses": {"200": {"description": "OK"}}}},
        "/api/sales/export": {"get": {"security": [{"BearerAuth": []}], "tags": ["sales"], "summary": "Export sales", "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"], "responses": {"200": {"description": "OK", "schema": {"type": "file"}}}}},
        "/api/sales/{id}": {"get": {"security": [{"BearerAuth": []}], "tags": ["sales"], "summary": "Get sale", "parameters": [{"type": "string", "in": "path", "name": "id", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/api/sales/{id}/payments": {"post": {"security": [{"BearerAuth": []}], "tags": ["sales"], "summary": "Record payment", "parameters": [{"type": "string", "in": "path", "name": "id", "required": true}, {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/service.RecordPaymentRequest"}}], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}},
        "/api/dashboard": {"get": {"security": [{"BearerAuth": []}], "tags": ["dashboard"], "summary": "Get dashboard", "responses": {"200": {"description": "OK"}}}},
        "/api/audit-logs": {"get": {"security": [{"BearerAuth": []}], "tags": ["audit"], "summary": "Get audit logs", "parameters": [{"type": "integer", "in": "query", "name": "page"}, {"type": "integer", "in": "query", "name": "limit"}, {"type": "string", "in": "query", "name": "action"}], "responses": {"200": {"description": "OK"}}}},
        "/api/roles": {"get": {"security": [{"BearerAuth": []}], "tags": ["roles"], "summary": "List roles", "responses": {"200": {"description": "OK"}}}},
        "/ws": {"get": {"tags": ["system"], "summary": "Live events websocket", "parameters": [{"type": "string", "in": "query", "name": "token"}], "responses": {"101": {"description": "Switching Protocols"}, "401": {"description": "Unauthorized"}}}}
    },
    "definitions": {
        "service.RegisterRequest": {"type": "object", "required": ["username", "password"], "properties": {"username": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string", "minLength": 6}}},
        "service.LoginRequest": {"type": "object", "required": ["username", "password"], "properties": {"username": {"type": "string"}, "password": {"type": "string"}}},
        "service.PortalAccountRequest": {"type": "object", "required": ["id_number", "password"], "properties": {"id_number": {"type": "string"}, "password": {"type": "string", "minLength": 6}}},
        "service.CreateFigurineRequest": {"type": "object", "required": ["name", "price"], "properties": {"name": {"type": "string"}, "size": {"type": "string"}, "material": {"type": "string", "enum": ["RESIN", "GLASS_FIBER"]}, "price": {"type": "string"}, "stock": {"type": "integer"}, "description": {"type": "string"}, "image_ref": {"type": "string"}}},
        "service.CreateSaleRequest": {"type": "object", "required": ["customer_name", "due_date"], "properties": {"customer_name": {"type": "string"}, "id_number": {"type": "string"}, "phone": {"type": "string"}, "address": {"type": "string"}, "reference": {"type": "string"}, "contract_number": {"type": "string"}, "payment_modality": {"type": "string", "enum": ["IN_PERSON", "TRANSFER", "CASH"]}, "contract_file_ref": {"type": "string"}, "due_date": {"type": "string", "format": "date"}}},
        "service.RecordPaymentRequest": {"type": "object", "required": ["amount"], "properties": {"amount": {"type": "string"}, "proof_ref": {"type": "string"}, "notes": {"type": "string"}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Sacra Installment Sales API",
	Description:      "Figurine catalog, installment sales, payments and the customer portal.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
