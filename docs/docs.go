// Package docs contiene el documento OpenAPI servido en /swagger/*.
// Generado a partir de las anotaciones de los handlers (swag init -g cmd/api/main.go).
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
        "/api/animal": {
            "post": {
                "description": "Busca el animal por rfid_code. Si existe lo devuelve, notifica a los chats configurados y emite ` + "`" + `rfid-scanned` + "`" + ` al live feed. Si no existe responde 404 y notifica que el tag no está registrado.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["animal"],
                "summary": "Buscar animal por RFID",
                "parameters": [
                    {
                        "description": "Tag leído",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/scans.scanRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/animals.Response"}},
                    "400": {"description": "UID required", "schema": {"$ref": "#/definitions/scans.errorResponse"}},
                    "404": {"description": "not found", "schema": {"$ref": "#/definitions/scans.errorResponse"}},
                    "500": {"description": "internal error", "schema": {"$ref": "#/definitions/scans.errorResponse"}}
                }
            }
        },
        "/hewan": {
            "get": {
                "description": "Lista paginada de animales con búsqueda (nama o jenis, sin distinguir mayúsculas) y orden por columna permitida.",
                "produces": ["application/json"],
                "tags": ["hewan"],
                "summary": "Listar animales",
                "parameters": [
                    {"type": "integer", "description": "Página (1-based). Por defecto 1", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Filas por página (1-100). Por defecto 10", "name": "limit", "in": "query"},
                    {"type": "string", "description": "Substring a buscar en nama o jenis", "name": "search", "in": "query"},
                    {
                        "enum": ["id", "rfid_code", "nama", "jenis", "usia", "status_kesehatan"],
                        "type": "string",
                        "description": "Columna de orden",
                        "name": "sortBy",
                        "in": "query"
                    },
                    {"type": "string", "description": "ASC o DESC; cualquier otro valor => ASC", "name": "order", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/animals.listResponse"}},
                    "400": {"description": "sortBy inválido", "schema": {"$ref": "#/definitions/animals.messageResponse"}},
                    "500": {"description": "internal error", "schema": {"$ref": "#/definitions/animals.messageResponse"}}
                }
            }
        }
    },
    "definitions": {
        "animals.Response": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "rfid_code": {"type": "string"},
                "nama": {"type": "string"},
                "jenis": {"type": "string"},
                "usia": {"type": "integer"},
                "status_kesehatan": {"type": "string"}
            }
        },
        "animals.listResponse": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
                "page": {"type": "integer"},
                "limit": {"type": "integer"},
                "totalPages": {"type": "integer"},
                "data": {"type": "array", "items": {"$ref": "#/definitions/animals.Response"}}
            }
        },
        "animals.messageResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "scans.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "scans.scanRequest": {
            "type": "object",
            "properties": {"uid": {"type": "string"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Animal RFID Relay API",
	Description:      "Lookup de animales por tag RFID con notificaciones (Telegram, Discord, webhooks) y live feed por WebSocket.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
