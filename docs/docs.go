// Package docs registers the swagger description of the bookshelf api.
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
        "/v1/books": {
            "get": {
                "produces": ["application/json"],
                "summary": "List every book in insertion order",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Submit the book form",
                "parameters": [
                    {"in": "body", "name": "book", "required": true, "schema": {"$ref": "#/definitions/BookInput"}}
                ],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "500": {"description": "Internal Server Error"}}
            }
        },
        "/v1/books/{id}": {
            "get": {
                "produces": ["application/json"],
                "summary": "Find a book by id",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}
            },
            "delete": {
                "produces": ["application/json"],
                "summary": "Delete a book",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/v1/books/{id}/toggle": {
            "put": {
                "produces": ["application/json"],
                "summary": "Flip the reading status of a book",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/v1/books/{id}/edit": {
            "post": {
                "produces": ["application/json"],
                "summary": "Remove a book and move its values into the form draft",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/v1/draft": {
            "get": {
                "produces": ["application/json"],
                "summary": "Values waiting in the book form",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/search": {
            "get": {
                "produces": ["application/json"],
                "summary": "Render and return books whose title contains the term",
                "parameters": [{"type": "string", "name": "title", "in": "query"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/shelf": {
            "get": {
                "produces": ["application/json"],
                "summary": "Last rendered incomplete and complete lists",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "BookInput": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "author": {"type": "string"},
                "year": {"type": "string"},
                "isComplete": {"type": "boolean"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Bookshelf API",
	Description:      "Add, edit, delete, mark-complete and search books of a personal bookshelf.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
