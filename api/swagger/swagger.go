package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Gym Class API",
        "description": "Recurring class series and their generated class instances.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "tags": [
        {"name": "Series", "description": "Weekly recurring class templates"},
        {"name": "Instances", "description": "Dated class occurrences"},
        {"name": "Recurrence", "description": "Instance generation and scoped cancellation"}
    ],
    "paths": {
        "/series": {
            "get": {
                "tags": ["Series"],
                "summary": "List class series",
                "parameters": [
                    {"name": "weekday", "in": "query", "type": "integer", "minimum": 0, "maximum": 6},
                    {"name": "category", "in": "query", "type": "string", "enum": ["child", "adult", "all"]},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Series"],
                "summary": "Create class series",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSeriesRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/series/{id}": {
            "get": {
                "tags": ["Series"],
                "summary": "Get class series",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Series"],
                "summary": "Update class series",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateSeriesRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/series/{id}/deactivate": {
            "post": {
                "tags": ["Series"],
                "summary": "Deactivate class series",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/instances": {
            "get": {
                "tags": ["Instances"],
                "summary": "List class instances",
                "parameters": [
                    {"name": "from", "in": "query", "type": "string", "format": "date"},
                    {"name": "to", "in": "query", "type": "string", "format": "date"},
                    {"name": "series_id", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string", "enum": ["scheduled", "held", "canceled"]},
                    {"name": "category", "in": "query", "type": "string", "enum": ["child", "adult", "all"]},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Instances"],
                "summary": "Create an ad-hoc class instance",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateInstanceRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/instances/{id}": {
            "get": {
                "tags": ["Instances"],
                "summary": "Get class instance",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Recurrence"],
                "summary": "Cancel a class instance",
                "description": "scope=single cancels one instance; scope=future also cancels later instances of the series and ends the series the day before.",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "scope", "in": "query", "type": "string", "enum": ["single", "future"]},
                    {"name": "payload", "in": "body", "required": false, "schema": {"$ref": "#/definitions/CancelInstanceRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/recurrence/generate": {
            "post": {
                "tags": ["Recurrence"],
                "summary": "Generate class instances from active series",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateInstancesRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid window", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "CreateSeriesRequest": {
            "type": "object",
            "required": ["title", "weekday", "start_time", "end_time", "max_capacity", "period_start"],
            "properties": {
                "title": {"type": "string"},
                "weekday": {"type": "integer", "minimum": 0, "maximum": 6},
                "start_time": {"type": "string", "example": "18:00"},
                "end_time": {"type": "string", "example": "19:00"},
                "category": {"type": "string", "enum": ["child", "adult", "all"]},
                "class_type": {"type": "string", "enum": ["group", "individual"]},
                "instructor": {"type": "string"},
                "max_capacity": {"type": "integer", "minimum": 1},
                "period_start": {"type": "string", "format": "date"},
                "period_end": {"type": "string", "format": "date"}
            }
        },
        "UpdateSeriesRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "weekday": {"type": "integer", "minimum": 0, "maximum": 6},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"},
                "category": {"type": "string", "enum": ["child", "adult", "all"]},
                "class_type": {"type": "string", "enum": ["group", "individual"]},
                "instructor": {"type": "string"},
                "max_capacity": {"type": "integer", "minimum": 1},
                "active": {"type": "boolean"},
                "period_start": {"type": "string", "format": "date"},
                "period_end": {"type": "string", "format": "date"},
                "clear_period_end": {"type": "boolean"}
            }
        },
        "CreateInstanceRequest": {
            "type": "object",
            "required": ["title", "date", "start_time", "end_time", "max_capacity"],
            "properties": {
                "title": {"type": "string"},
                "date": {"type": "string", "format": "date"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"},
                "instructor": {"type": "string"},
                "max_capacity": {"type": "integer", "minimum": 1},
                "category": {"type": "string", "enum": ["child", "adult", "all"]},
                "class_type": {"type": "string", "enum": ["group", "individual"]}
            }
        },
        "GenerateInstancesRequest": {
            "type": "object",
            "required": ["window_start", "window_end"],
            "properties": {
                "window_start": {"type": "string", "format": "date"},
                "window_end": {"type": "string", "format": "date"},
                "series_id": {"type": "string"}
            }
        },
        "CancelInstanceRequest": {
            "type": "object",
            "properties": {
                "scope": {"type": "string", "enum": ["single", "future"]}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
                "pagination": {"$ref": "#/definitions/Pagination"},
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
