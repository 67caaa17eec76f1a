package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Noor Academy Curriculum API",
        "description": "Curriculum scheduling and progress tracking for academy programs",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Programs", "description": "Curriculum catalogue and milestone plans"},
        {"name": "Slots", "description": "Booking grid and utilization"},
        {"name": "Schedules", "description": "Calendar generation and per-class booking"},
        {"name": "Progress", "description": "Derived progress views and exports"}
    ],
    "paths": {
        "/programs": {
            "get": {
                "tags": ["Programs"],
                "summary": "List curriculum programs",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/programs/{id}": {
            "get": {
                "tags": ["Programs"],
                "summary": "Get one program with its milestone plan",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown program"}
                }
            }
        },
        "/slots": {
            "get": {
                "tags": ["Slots"],
                "summary": "List the bookable time slots",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/slots/utilization": {
            "get": {
                "tags": ["Slots"],
                "summary": "Get booked/free hour partition for a weekday",
                "parameters": [
                    {"name": "day", "in": "query", "required": true, "type": "string"},
                    {"name": "slot", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/generate": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Generate the full recurring calendar for a student's program",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateScheduleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Schedule already exists"}
                }
            }
        },
        "/schedules/regenerate": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Rebuild a student's program calendar from scratch",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateScheduleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/makeup": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Book an ad-hoc makeup class in a free slot hour",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BookMakeupRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "No free capacity in the slot"}
                }
            }
        },
        "/schedules/{id}/reschedule": {
            "patch": {
                "tags": ["Schedules"],
                "summary": "Move one class occurrence to a new day and time",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RescheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Occurrence not found"}
                }
            }
        },
        "/schedules/{id}/complete": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Mark a class occurrence completed",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already completed"}
                }
            }
        },
        "/students/{id}/schedules": {
            "get": {
                "tags": ["Schedules"],
                "summary": "List a student's class occurrences",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "program", "in": "query", "type": "string"},
                    {"name": "day", "in": "query", "type": "string"},
                    {"name": "classType", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{id}/availability": {
            "get": {
                "tags": ["Programs"],
                "summary": "Get a student's booking availability preferences",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Student not found"}
                }
            }
        },
        "/students/{id}/progress": {
            "get": {
                "tags": ["Progress"],
                "summary": "Get the full progress snapshot for a student's program",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "program", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{id}/progress/week": {
            "get": {
                "tags": ["Progress"],
                "summary": "Get the active teaching week for a student's program",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "program", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{id}/progress/export": {
            "get": {
                "tags": ["Progress"],
                "summary": "Download a student's progress timeline as CSV or PDF",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "program", "in": "query", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        }
    },
    "definitions": {
        "GenerateScheduleRequest": {
            "type": "object",
            "required": ["studentId", "program", "mainDayOfWeek", "mainClassTime", "shortDayOfWeek", "shortClassTime"],
            "properties": {
                "studentId": {"type": "string"},
                "program": {"type": "string"},
                "mainDayOfWeek": {"type": "string"},
                "mainClassTime": {"type": "string"},
                "shortDayOfWeek": {"type": "string"},
                "shortClassTime": {"type": "string"},
                "meetingLink": {"type": "string"}
            }
        },
        "BookMakeupRequest": {
            "type": "object",
            "required": ["studentId", "program", "academicYear", "weekNumber", "dayOfWeek", "slot"],
            "properties": {
                "studentId": {"type": "string"},
                "program": {"type": "string"},
                "academicYear": {"type": "integer"},
                "weekNumber": {"type": "integer"},
                "dayOfWeek": {"type": "string"},
                "slot": {"type": "string"},
                "classTime": {"type": "string"},
                "meetingLink": {"type": "string"}
            }
        },
        "RescheduleRequest": {
            "type": "object",
            "required": ["dayOfWeek", "classTime"],
            "properties": {
                "dayOfWeek": {"type": "string"},
                "classTime": {"type": "string"},
                "meetingLink": {"type": "string"}
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
