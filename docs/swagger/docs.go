// Package swagger holds the OpenAPI document served under /docs.
// Regenerate with: swag init -g main.go -o docs/swagger
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
        "/health": {"get": {"tags": ["health"], "summary": "Health check", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "503": {"description": "Database unhealthy"}}}},
        "/version": {"get": {"tags": ["health"], "summary": "API version", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
        "/api/v1/auth/signup": {"post": {"tags": ["auth"], "summary": "Create an account", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"201": {"description": "Created"}, "400": {"description": "Missing field"}, "409": {"description": "Email already exists"}}}},
        "/api/v1/auth/login": {"post": {"tags": ["auth"], "summary": "Sign in", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid credentials"}}}},
        "/api/v1/auth/logout": {"post": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Sign out", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/me": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Get current user", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Update profile", "consumes": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/categories": {"get": {"tags": ["categories"], "summary": "List categories", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/clips": {
            "get": {"tags": ["clips"], "summary": "List clips", "parameters": [{"type": "string", "name": "q", "in": "query"}, {"type": "string", "default": "All", "name": "tab", "in": "query"}], "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["clips"], "summary": "Upload a clip", "consumes": ["audio/webm", "multipart/form-data"], "parameters": [{"type": "number", "name": "duration", "in": "query"}], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad request"}, "413": {"description": "Too large"}}}
        },
        "/api/v1/clips/{id}": {
            "get": {"tags": ["clips"], "summary": "Get clip", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["clips"], "summary": "Edit clip", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Not the owner"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["clips"], "summary": "Delete clip", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"type": "boolean", "name": "confirm", "in": "query"}], "responses": {"200": {"description": "OK"}, "428": {"description": "Confirmation required"}}}
        },
        "/api/v1/clips/{id}/audio": {"get": {"tags": ["clips"], "summary": "Download clip audio", "produces": ["audio/webm"], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "422": {"description": "Remote audio"}}}},
        "/api/v1/clips/{id}/waveform": {"get": {"tags": ["clips"], "summary": "Get clip waveform", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/api/v1/clips/{id}/analyze": {"post": {"security": [{"BearerAuth": []}], "tags": ["clips"], "summary": "Analyze clip", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"202": {"description": "Accepted"}, "422": {"description": "Remote audio cannot be analyzed"}}}},
        "/api/v1/clips/{id}/comments": {"post": {"security": [{"BearerAuth": []}], "tags": ["comments"], "summary": "Comment on a clip", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}, "400": {"description": "Blank text"}}}},
        "/api/v1/clips/{id}/comments/{commentId}": {"delete": {"security": [{"BearerAuth": []}], "tags": ["comments"], "summary": "Delete comment", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"type": "string", "name": "commentId", "in": "path", "required": true}, {"type": "boolean", "name": "confirm", "in": "query"}], "responses": {"200": {"description": "OK"}, "428": {"description": "Confirmation required"}}}},
        "/api/v1/recorder": {"get": {"security": [{"BearerAuth": []}], "tags": ["recorder"], "summary": "Recorder status", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/recorder/start": {"post": {"security": [{"BearerAuth": []}], "tags": ["recorder"], "summary": "Start recording", "responses": {"200": {"description": "OK"}, "403": {"description": "Microphone permission denied"}, "409": {"description": "Already recording"}, "503": {"description": "No input device"}}}},
        "/api/v1/recorder/stop": {"post": {"security": [{"BearerAuth": []}], "tags": ["recorder"], "summary": "Stop recording", "responses": {"201": {"description": "Created"}, "409": {"description": "Not recording"}}}},
        "/api/v1/recorder/cancel": {"post": {"security": [{"BearerAuth": []}], "tags": ["recorder"], "summary": "Cancel recording", "responses": {"200": {"description": "OK"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "JamBoard API",
	Description:      "Record, share and tag short audio ideas.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
