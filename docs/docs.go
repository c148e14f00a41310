// Package docs registers the portal's OpenAPI description with swag.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/health": {
            "get": {
                "tags": ["health"],
                "summary": "Liveness probe",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.HealthStatus"}}}
            }
        },
        "/api/session": {
            "get": {
                "tags": ["session"],
                "summary": "Current session",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SessionState"}}}
            }
        },
        "/api/session/login": {
            "post": {
                "tags": ["session"],
                "summary": "Log in",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/validation.LoginForm"}}],
                "responses": {
                    "200": {"description": "data: user and token"},
                    "400": {"description": "Bad Request"},
                    "401": {"description": "Unauthorized"},
                    "422": {"description": "error, fields"},
                    "502": {"description": "Bad Gateway"}
                }
            }
        },
        "/api/session/register": {
            "post": {
                "tags": ["session"],
                "summary": "Register",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/validation.RegisterForm"}}],
                "responses": {
                    "201": {"description": "data: user and token"},
                    "400": {"description": "Bad Request"},
                    "409": {"description": "Conflict"},
                    "422": {"description": "error, fields"},
                    "502": {"description": "Bad Gateway"}
                }
            }
        },
        "/api/session/logout": {
            "post": {"tags": ["session"], "summary": "Log out", "responses": {"200": {"description": "OK"}}}
        },
        "/api/session/restore": {
            "post": {
                "tags": ["session"],
                "summary": "Restore session",
                "responses": {"200": {"description": "data: user"}, "401": {"description": "Unauthorized"}, "502": {"description": "Bad Gateway"}}
            }
        },
        "/api/session/refresh": {
            "post": {
                "tags": ["session"],
                "summary": "Refresh token",
                "responses": {"200": {"description": "data: token"}, "401": {"description": "Unauthorized"}, "502": {"description": "Bad Gateway"}}
            }
        },
        "/api/session/events": {
            "get": {
                "tags": ["session"],
                "summary": "Session activity",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "from", "in": "query"},
                    {"type": "string", "name": "to", "in": "query"},
                    {"type": "string", "name": "type", "in": "query"}
                ],
                "responses": {"200": {"description": "count, events"}, "400": {"description": "Bad Request"}, "500": {"description": "Internal Server Error"}}
            }
        },
        "/api/session/ws": {
            "get": {"tags": ["session"], "summary": "Session change stream", "responses": {"101": {"description": "Switching Protocols"}}}
        }
    },
    "definitions": {
        "models.HealthStatus": {
            "type": "object",
            "properties": {"service": {"type": "string"}, "status": {"type": "string"}, "timestamp": {"type": "string"}}
        },
        "models.User": {
            "type": "object",
            "properties": {"created_at": {"type": "string"}, "email": {"type": "string"}, "id": {"type": "string"}, "username": {"type": "string"}}
        },
        "models.SessionState": {
            "type": "object",
            "properties": {"loading": {"type": "boolean"}, "token": {"type": "string"}, "user": {"$ref": "#/definitions/models.User"}}
        },
        "validation.LoginForm": {
            "type": "object",
            "properties": {"password": {"type": "string"}, "username": {"type": "string"}}
        },
        "validation.RegisterForm": {
            "type": "object",
            "properties": {"confirmPassword": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}, "username": {"type": "string"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Web Portal API",
	Description:      "Session backend-for-frontend in front of the auth service.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
