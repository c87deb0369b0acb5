package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Seatwise API",
        "description": "Classroom seating chart optimizer with constraint-document validation",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Charts", "description": "Seating chart generation and retrieval"},
        {"name": "CDL", "description": "Constraint document validation"},
        {"name": "Ops", "description": "Health, readiness and metrics"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Ops"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "tags": ["Ops"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Degraded"}
                }
            }
        },
        "/metrics": {
            "get": {
                "tags": ["Ops"],
                "summary": "Prometheus scrape endpoint",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/charts/generate": {
            "post": {
                "tags": ["Charts"],
                "summary": "Generate a seating chart",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateChartRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Constraint document rejected", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/charts/{id}": {
            "get": {
                "tags": ["Charts"],
                "summary": "Fetch a chart proposal",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Charts"],
                "summary": "Discard a chart proposal",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/charts/{id}/export": {
            "get": {
                "tags": ["Charts"],
                "summary": "Export a chart proposal as CSV or PDF",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"}
                ],
                "responses": {
                    "200": {"description": "Exported document"},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/cdl/validate": {
            "post": {
                "tags": ["CDL"],
                "summary": "Validate a constraint document",
                "parameters": [
                    {"name": "document", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "Validation report", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "GenerateChartRequest": {
            "type": "object",
            "properties": {
                "roster": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/Student"}
                },
                "rosterImport": {"$ref": "#/definitions/RosterImport"},
                "layout": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/DeskInput"}
                },
                "cdl": {"type": "object"},
                "options": {"$ref": "#/definitions/ChartOptions"}
            },
            "required": ["layout"]
        },
        "Student": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "tags": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["id"]
        },
        "RosterImport": {
            "type": "object",
            "properties": {
                "students": {"type": "array", "items": {"type": "string"}},
                "tags": {"type": "object"},
                "notes": {"type": "object"},
                "customTags": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["students"]
        },
        "DeskInput": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "position": {"type": "array", "items": {"type": "number"}},
                "seats": {"type": "array", "items": {"type": "object"}},
                "shape": {"type": "object"}
            },
            "required": ["position"]
        },
        "ChartOptions": {
            "type": "object",
            "properties": {
                "iterations": {"type": "integer"},
                "randomSeed": {"type": "integer"},
                "rowBucketSize": {"type": "number"},
                "weights": {"type": "object"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
