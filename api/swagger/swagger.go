package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Campus Records API",
        "description": "Student accounts, shared course notes and faculty consultation booking.",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Accounts", "description": "Registration, login and role lookup"},
        {"name": "Notes", "description": "Shared course notes and saved bookmarks"},
        {"name": "Consultations", "description": "Faculty consultation ledger"},
        {"name": "Roster", "description": "Faculty and tutor availability"},
        {"name": "Ops", "description": "Probes and metrics"}
    ],
    "paths": {
        "/health": {
            "get": {"tags": ["Ops"], "summary": "Health check", "responses": {"200": {"description": "OK"}}}
        },
        "/ready": {
            "get": {"tags": ["Ops"], "summary": "Readiness check", "responses": {"200": {"description": "Ready"}, "503": {"description": "Database unavailable", "schema": {"$ref": "#/definitions/ErrorBody"}}}}
        },
        "/metrics/summary": {
            "get": {"tags": ["Ops"], "summary": "In-process counters", "responses": {"200": {"description": "OK"}}}
        },
        "/register": {
            "post": {
                "tags": ["Accounts"],
                "summary": "Register a user",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "409": {"description": "Duplicate email or user id", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/login": {
            "post": {
                "tags": ["Accounts"],
                "summary": "Log in",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Incorrect password", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "404": {"description": "Unknown email", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/role/{user_id}": {
            "get": {
                "tags": ["Accounts"],
                "summary": "Resolve the role of a user id",
                "parameters": [{"name": "user_id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/notes/upload": {
            "post": {
                "tags": ["Notes"],
                "summary": "Upload a note",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "title", "in": "formData", "required": true, "type": "string"},
                    {"name": "description", "in": "formData", "type": "string"},
                    {"name": "course", "in": "formData", "required": true, "type": "string"},
                    {"name": "uploader_id", "in": "formData", "required": true, "type": "string"},
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "404": {"description": "Unknown uploader", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/api/notes/user/{user_id}": {
            "get": {"tags": ["Notes"], "summary": "List notes uploaded by a user", "parameters": [{"name": "user_id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/notes/all": {
            "get": {"tags": ["Notes"], "summary": "List every note with its uploader", "responses": {"200": {"description": "OK"}}}
        },
        "/api/notes/download/{filename}": {
            "get": {
                "tags": ["Notes"],
                "summary": "Download a note file",
                "produces": ["application/octet-stream"],
                "parameters": [{"name": "filename", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "File"}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}}
            }
        },
        "/api/notes/save": {
            "post": {
                "tags": ["Notes"],
                "summary": "Bookmark a note",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaveNoteRequest"}}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Already saved", "schema": {"$ref": "#/definitions/ErrorBody"}}}
            }
        },
        "/api/notes/unsave/{user_id}/{note_id}": {
            "delete": {
                "tags": ["Notes"],
                "summary": "Remove a bookmark",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "user_id", "in": "path", "required": true, "type": "string"},
                    {"name": "note_id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/notes/saved/{user_id}": {
            "get": {"tags": ["Notes"], "summary": "List saved notes", "parameters": [{"name": "user_id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/notes/delete/{user_id}/{note_id}": {
            "delete": {
                "tags": ["Notes"],
                "summary": "Delete an owned note",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "user_id", "in": "path", "required": true, "type": "string"},
                    {"name": "note_id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Not the uploader", "schema": {"$ref": "#/definitions/ErrorBody"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}}
            }
        },
        "/consultations": {
            "post": {
                "tags": ["Consultations"],
                "summary": "Book a consultation",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BookConsultationRequest"}}],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/consultations/update_status": {
            "put": {
                "tags": ["Consultations"],
                "summary": "Change a consultation status",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateConsultationStatusRequest"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Unknown status", "schema": {"$ref": "#/definitions/ErrorBody"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}}
            }
        },
        "/consultations/faculty/{f_initial}": {
            "get": {"tags": ["Consultations"], "summary": "List consultations for a faculty", "parameters": [{"name": "f_initial", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/consultations/{student_id}": {
            "get": {"tags": ["Consultations"], "summary": "List consultations for a student", "parameters": [{"name": "student_id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/consultations/{student_id}/export": {
            "get": {
                "tags": ["Consultations"],
                "summary": "Export a student's consultations",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "student_id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {"200": {"description": "File"}}
            }
        },
        "/consultations/{consultation_id}": {
            "delete": {"tags": ["Consultations"], "summary": "Delete a consultation", "parameters": [{"name": "consultation_id", "in": "path", "required": true, "type": "integer"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}}}
        },
        "/faculty/{f_id}": {
            "get": {"tags": ["Roster"], "summary": "Get a faculty record", "parameters": [{"name": "f_id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}}}
        },
        "/faculties": {
            "get": {"tags": ["Roster"], "summary": "List available faculties", "responses": {"200": {"description": "OK"}}}
        },
        "/consultation-managers": {
            "get": {"tags": ["Roster"], "summary": "List initials of available faculties and tutors", "responses": {"200": {"description": "OK"}}}
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "required": ["user_id", "name", "email", "password"],
            "properties": {
                "user_id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "SaveNoteRequest": {
            "type": "object",
            "required": ["user_id", "note_id"],
            "properties": {
                "user_id": {"type": "string"},
                "note_id": {"type": "integer"}
            }
        },
        "BookConsultationRequest": {
            "type": "object",
            "required": ["student_id", "course_name", "faculty_name", "day", "time_slot"],
            "properties": {
                "student_id": {"type": "string"},
                "course_name": {"type": "string"},
                "faculty_name": {"type": "string"},
                "day": {"type": "string"},
                "time_slot": {"type": "string"}
            }
        },
        "UpdateConsultationStatusRequest": {
            "type": "object",
            "required": ["consultation_id", "status"],
            "properties": {
                "consultation_id": {"type": "integer"},
                "status": {"type": "string", "enum": ["pending", "approved", "rejected", "completed"]}
            }
        },
        "ErrorBody": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "error": {"type": "string"}
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
