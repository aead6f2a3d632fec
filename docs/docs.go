// Package docs registers the swagger spec. Regenerate with `swag init -g cmd/api/main.go`.
package docs

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
        "/users": {
            "post": {
                "tags": ["users"],
                "summary": "Register a user (idempotent)",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/tasks": {
            "post": {
                "tags": ["tasks"],
                "summary": "Create a task",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/tasks/{owner_id}": {
            "get": {
                "tags": ["tasks"],
                "summary": "List an owner's tasks in creation order",
                "parameters": [{"type": "integer", "name": "owner_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/tasks/{owner_id}/count": {
            "get": {
                "tags": ["tasks"],
                "summary": "Count an owner's tasks",
                "parameters": [{"type": "integer", "name": "owner_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/tasks/{owner_id}/summary": {
            "get": {
                "tags": ["tasks"],
                "summary": "Total/done/incomplete counts for an owner",
                "parameters": [{"type": "integer", "name": "owner_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/tasks/{owner_id}/delete": {
            "post": {
                "tags": ["tasks"],
                "summary": "Delete the tasks at the given ordinals",
                "parameters": [{"type": "integer", "name": "owner_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/tasks/{owner_id}/complete/{ordinal}": {
            "post": {
                "tags": ["tasks"],
                "summary": "Mark the task at the given ordinal as done",
                "parameters": [
                    {"type": "integer", "name": "owner_id", "in": "path", "required": true},
                    {"type": "integer", "name": "ordinal", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/tasks/{owner_id}/advice/{ordinal}": {
            "post": {
                "tags": ["quota"],
                "summary": "Get AI advice for the task at the given ordinal",
                "parameters": [
                    {"type": "integer", "name": "owner_id", "in": "path", "required": true},
                    {"type": "integer", "name": "ordinal", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "429": {"description": "Too Many Requests"},
                    "502": {"description": "Bad Gateway"}
                }
            }
        },
        "/quota/{user_id}": {
            "get": {
                "tags": ["quota"],
                "summary": "Check the user's daily advice quota",
                "parameters": [{"type": "integer", "name": "user_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/quota/{user_id}/consume": {
            "post": {
                "tags": ["quota"],
                "summary": "Count one advice request against the user's quota",
                "parameters": [{"type": "integer", "name": "user_id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/quota/{user_id}/unlimited": {
            "post": {
                "tags": ["quota"],
                "summary": "Permanently lift the daily limit for a user",
                "parameters": [{"type": "integer", "name": "user_id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "ToDo bot API",
	Description:      "Backend for a Telegram task planner bot: ordinal task addressing, deadline reminders, daily AI-advice quota.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
