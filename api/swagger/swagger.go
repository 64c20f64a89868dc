// Package swagger registers the static OpenAPI document served at /docs.
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Timetable Solver API",
        "description": "Upload a timetable workbook, delegate scheduling to an external solver with a greedy fallback, and manage the resulting class schedule.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": ["http"],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Auth", "description": "Authentication"},
        {"name": "Upload", "description": "Workbook import"},
        {"name": "Solver", "description": "Solve jobs"},
        {"name": "Classes", "description": "Persisted placements"},
        {"name": "Entities", "description": "Derived scheduling entities"},
        {"name": "Export", "description": "Schedule downloads"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate and receive a bearer token",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid credentials"}}
            }
        },
        "/upload": {
            "post": {
                "tags": ["Upload"],
                "summary": "Upload a timetable workbook and start solving",
                "consumes": ["multipart/form-data"],
                "parameters": [{"name": "file", "in": "formData", "type": "file", "required": true}],
                "security": [{"BearerAuth": []}],
                "responses": {"202": {"description": "Accepted, solving in background"}, "400": {"description": "Structural or validation error"}}
            }
        },
        "/clear": {
            "post": {
                "tags": ["Upload"],
                "summary": "Delete every scheduling entity",
                "security": [{"BearerAuth": []}],
                "responses": {"204": {"description": "Cleared"}}
            }
        },
        "/solve": {
            "post": {
                "tags": ["Solver"],
                "summary": "Submit a raw canonical timetable for solving",
                "security": [{"BearerAuth": []}],
                "responses": {"202": {"description": "Accepted"}, "502": {"description": "Solver unavailable"}}
            }
        },
        "/solution": {
            "get": {
                "tags": ["Solver"],
                "summary": "Fetch the solved timetable for a job",
                "parameters": [{"name": "jobId", "in": "query", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}, "502": {"description": "Solver error"}}
            }
        },
        "/solution/status": {
            "get": {
                "tags": ["Solver"],
                "summary": "Poll the state of a solve job",
                "parameters": [{"name": "jobId", "in": "query", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Unknown job"}}
            }
        },
        "/solution/result": {
            "get": {
                "tags": ["Solver"],
                "summary": "Fetch the terminal outcome and persistence report",
                "parameters": [{"name": "jobId", "in": "query", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Unknown job"}}
            }
        },
        "/classes": {
            "get": {
                "tags": ["Classes"],
                "summary": "List all classes",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Classes"],
                "summary": "Add a class manually",
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Created, with conflict info"}}
            }
        },
        "/classes/enriched": {
            "get": {
                "tags": ["Classes"],
                "summary": "List classes joined with display names",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/classes/suggestions": {
            "get": {
                "tags": ["Classes"],
                "summary": "Ranked candidate slots for a teacher/group pair",
                "parameters": [
                    {"name": "teacherId", "in": "query", "type": "string", "required": true},
                    {"name": "studentGroupId", "in": "query", "type": "string", "required": true},
                    {"name": "excludeClassId", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "At most ten slots, available first"}}
            }
        },
        "/classes/check-conflicts": {
            "post": {
                "tags": ["Classes"],
                "summary": "Validate a candidate placement without persisting",
                "responses": {"200": {"description": "Conflict report"}}
            }
        },
        "/classes/{id}": {
            "get": {
                "tags": ["Classes"],
                "summary": "Fetch one class",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "patch": {
                "tags": ["Classes"],
                "summary": "Partially update a class, re-running conflict detection",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Updated, with conflict info"}, "404": {"description": "Not found"}}
            },
            "delete": {
                "tags": ["Classes"],
                "summary": "Delete a class",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "security": [{"BearerAuth": []}],
                "responses": {"204": {"description": "Deleted"}, "404": {"description": "Not found"}}
            }
        },
        "/teachers": {
            "get": {"tags": ["Entities"], "summary": "List teachers", "responses": {"200": {"description": "OK"}}}
        },
        "/student-groups": {
            "get": {"tags": ["Entities"], "summary": "List student groups", "responses": {"200": {"description": "OK"}}}
        },
        "/courses": {
            "get": {"tags": ["Entities"], "summary": "List courses", "responses": {"200": {"description": "OK"}}}
        },
        "/availabilities": {
            "get": {"tags": ["Entities"], "summary": "List teacher availability windows", "responses": {"200": {"description": "OK"}}}
        },
        "/export/csv": {
            "get": {"tags": ["Export"], "summary": "Download the schedule as CSV", "produces": ["text/csv"], "responses": {"200": {"description": "CSV payload"}}}
        },
        "/export/pdf": {
            "get": {"tags": ["Export"], "summary": "Download the schedule as PDF", "produces": ["application/pdf"], "responses": {"200": {"description": "PDF payload"}}}
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
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
