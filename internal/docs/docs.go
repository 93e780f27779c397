// Package docs holds the Swagger 2.0 description of the HTTP API and
// registers it with swag, so it is served from the binary without reading
// files at run time.
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
        "/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Start a session",
                "description": "Checks the document id and password and issues an access and a refresh token. The role is derived from the stored role code.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/session"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/error"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/error"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/rateLimited"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/error"}}
                }
            }
        },
        "/registro": {
            "post": {
                "tags": ["auth"],
                "summary": "Register a user",
                "description": "Stores a new user with a bcrypt digest of the password and queues a confirmation email. Passwords longer than 72 bytes are rejected.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/registerRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/message"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/error"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/error"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/rateLimited"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/error"}}
                }
            }
        },
        "/refresh": {
            "post": {
                "tags": ["auth"],
                "summary": "Rotate a refresh token",
                "description": "Revokes the presented refresh token and issues a new pair. A token can be rotated once.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/refreshRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/session"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/error"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/error"}}
                }
            }
        },
        "/logout": {
            "post": {
                "tags": ["auth"],
                "summary": "End a session",
                "description": "Revokes the refresh token in the body, or every refresh token of the bearer when only an Authorization header is sent.",
                "consumes": ["application/json"],
                "parameters": [
                    {"in": "header", "name": "Authorization", "type": "string", "required": false},
                    {"in": "body", "name": "body", "required": false, "schema": {"$ref": "#/definitions/refreshRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/error"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/error"}}
                }
            }
        },
        "/perfil/{iddocumento}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["profile"],
                "summary": "Read a profile",
                "description": "Returns the caller's own profile, projected by role. Cyclists also get their squad and specialty names.",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "iddocumento", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/profile"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/error"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/error"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/error"}}
                }
            }
        },
        "/escuadras": {
            "get": {
                "tags": ["catalog"],
                "summary": "List squads",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/squad"}}}
                }
            }
        },
        "/especialidades": {
            "get": {
                "tags": ["catalog"],
                "summary": "List specialties",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/specialty"}}}
                }
            }
        },
        "/healthz": {
            "get": {
                "tags": ["ops"],
                "summary": "Liveness",
                "produces": ["text/plain"],
                "responses": {"200": {"description": "ok"}}
            }
        },
        "/ping": {
            "get": {
                "tags": ["ops"],
                "summary": "Database round trip",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK"},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/error"}}
                }
            }
        },
        "/metrics": {
            "get": {
                "tags": ["ops"],
                "summary": "Prometheus metrics",
                "produces": ["text/plain"],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "error": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "rateLimited": {
            "type": "object",
            "properties": {"error": {"type": "string"}, "retry_after": {"type": "integer"}}
        },
        "message": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "loginRequest": {
            "type": "object",
            "required": ["usuario", "password"],
            "properties": {"usuario": {"type": "string"}, "password": {"type": "string"}}
        },
        "refreshRequest": {
            "type": "object",
            "properties": {"refresh_token": {"type": "string"}}
        },
        "tokenPart": {
            "type": "object",
            "properties": {"token": {"type": "string"}, "expires": {"type": "string", "format": "date-time"}}
        },
        "session": {
            "type": "object",
            "properties": {
                "role": {"type": "string", "enum": ["Administrador", "Director", "Masajista", "Ciclista"]},
                "iddocumento": {"type": "string"},
                "access": {"$ref": "#/definitions/tokenPart"},
                "refresh": {"$ref": "#/definitions/tokenPart"}
            }
        },
        "registerRequest": {
            "type": "object",
            "required": ["iddocumento", "contrasenausuario", "nombreusuario", "correousuario"],
            "properties": {
                "iddocumento": {"type": "string", "maxLength": 50},
                "contrasenausuario": {"type": "string"},
                "nombreusuario": {"type": "string"},
                "correousuario": {"type": "string", "format": "email"},
                "idtipousuario": {"type": "integer"},
                "idtipocontextura": {"type": "integer"},
                "idpais": {"type": "integer"},
                "idespecialidad": {"type": "integer"},
                "idescuadra": {"type": "integer"},
                "tipodocumentousuario": {"type": "string"},
                "apellidousuario": {"type": "string"},
                "generousuario": {"type": "string"},
                "telefonousuario": {"type": "string"},
                "direccionusuario": {"type": "string"},
                "pesousuario": {"type": "number", "minimum": 0},
                "potenciausuario": {"type": "number", "minimum": 0},
                "acelaracionusuario": {"type": "number"},
                "velocidadpromediousuario": {"type": "number", "minimum": 0},
                "velocidadmaximausuario": {"type": "number", "minimum": 0},
                "tiempociclista": {"type": "number", "minimum": 0},
                "anosexperiencia": {"type": "integer", "minimum": 0},
                "gradorampa": {"type": "number"}
            }
        },
        "profile": {
            "type": "object",
            "properties": {
                "idtipousuario": {"type": "integer"},
                "tipousuario": {"type": "string"},
                "nombreusuario": {"type": "string"},
                "apellidousuario": {"type": "string"},
                "iddocumento": {"type": "string"},
                "tipodocumentousuario": {"type": "string"},
                "correousuario": {"type": "string"},
                "telefonousuario": {"type": "string"},
                "direccionusuario": {"type": "string"},
                "idpais": {"type": "integer"},
                "idescuadra": {"type": "integer"},
                "idtipocontextura": {"type": "integer"},
                "idespecialidad": {"type": "integer"},
                "generousuario": {"type": "string"},
                "pesousuario": {"type": "number"},
                "potenciausuario": {"type": "number"},
                "acelaracionusuario": {"type": "number"},
                "velocidadpromediousuario": {"type": "number"},
                "velocidadmaximausuario": {"type": "number"},
                "tiempociclista": {"type": "number"},
                "anosexperiencia": {"type": "integer"},
                "gradorampa": {"type": "number"},
                "nombreEscuadra": {"type": "string"},
                "nombreEspecialidad": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "squad": {
            "type": "object",
            "properties": {"idescuadra": {"type": "integer"}, "desescuadra": {"type": "string"}}
        },
        "specialty": {
            "type": "object",
            "properties": {"idespecialidad": {"type": "integer"}, "desespecialidad": {"type": "string"}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
    Version:          "1.0",
    Host:             "",
    BasePath:         "/",
    Schemes:          []string{},
    Title:            "ISUCI API",
    Description:      "Sessions, registration and profiles for the ISUCI cycling club.",
    InfoInstanceName: "swagger",
    SwaggerTemplate:  docTemplate,
    LeftDelim:        "{{",
    RightDelim:       "}}",
}

func init() {
    swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
