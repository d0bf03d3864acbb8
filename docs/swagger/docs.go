// Package swagger holds the OpenAPI description served at /swagger.
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
    "securityDefinitions": {
        "ApiKeyAuth": {
            "type": "apiKey",
            "name": "X-API-Key",
            "in": "header"
        }
    },
    "security": [{"ApiKeyAuth": []}],
    "paths": {
        "/document": {
            "post": {
                "description": "Creates or overwrites a document. The key is the uploaded file name.",
                "consumes": ["multipart/form-data"],
                "produces": ["text/plain"],
                "tags": ["documents"],
                "summary": "Upload Document",
                "parameters": [
                    {"type": "file", "description": "File to upload", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "File uploaded", "schema": {"type": "string"}},
                    "400": {"description": "Missing file", "schema": {"$ref": "#/definitions/server.ErrorBody"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/server.ErrorBody"}}
                }
            }
        },
        "/document/{key}": {
            "get": {
                "description": "Returns the raw bytes of a stored document with the content type recorded at upload.",
                "produces": ["application/octet-stream"],
                "tags": ["documents"],
                "summary": "Get Document",
                "parameters": [
                    {"type": "string", "description": "Document key", "name": "key", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Document content", "schema": {"type": "file"}},
                    "404": {"description": "Document not found", "schema": {"$ref": "#/definitions/server.ErrorBody"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/server.ErrorBody"}}
                }
            },
            "delete": {
                "description": "Deletes a document by key.",
                "produces": ["text/plain"],
                "tags": ["documents"],
                "summary": "Delete Document",
                "parameters": [
                    {"type": "string", "description": "Document key", "name": "key", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "File deleted", "schema": {"type": "string"}},
                    "404": {"description": "Document not found", "schema": {"$ref": "#/definitions/server.ErrorBody"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/server.ErrorBody"}}
                }
            }
        },
        "/results": {
            "post": {
                "description": "Renders the appointment result as a PDF and stores it under <resultId>.pdf, exactly as the queue consumer does.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["results"],
                "summary": "Process Appointment Result",
                "parameters": [
                    {"description": "Appointment result event", "name": "event", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.AppointmentResult"}}
                ],
                "responses": {
                    "201": {"description": "Stored report key", "schema": {"$ref": "#/definitions/results.ProcessResponse"}},
                    "400": {"description": "Invalid event", "schema": {"$ref": "#/definitions/server.ErrorBody"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/server.ErrorBody"}}
                }
            }
        }
    },
    "definitions": {
        "models.AppointmentResult": {
            "type": "object",
            "required": ["resultId", "date", "serviceName", "specializationName", "patientFullName", "patientBirthDate", "doctorFullName"],
            "properties": {
                "resultId": {"type": "string", "format": "uuid"},
                "date": {"type": "string", "format": "date-time"},
                "serviceName": {"type": "string"},
                "specializationName": {"type": "string"},
                "patientFullName": {"type": "string"},
                "patientBirthDate": {"type": "string", "format": "date-time"},
                "doctorFullName": {"type": "string"},
                "complaints": {"type": "string"},
                "conclusion": {"type": "string"},
                "recommendations": {"type": "string"},
                "patientEmail": {"type": "string"}
            }
        },
        "results.ProcessResponse": {
            "type": "object",
            "properties": {
                "key": {"type": "string"}
            }
        },
        "server.ErrorBody": {
            "type": "object",
            "properties": {
                "statusCode": {"type": "integer"},
                "message": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Document Manager API",
	Description:      "Stores clinic documents and renders appointment result reports.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
