package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Student Admin Console API",
        "description": "Cached student/course administration over a remote backend",
        "version": "1.0.0"
    },
    "basePath": "/console",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Students", "description": "Cached student collection"},
        {"name": "Courses", "description": "Cached course collection"},
        {"name": "Enrollments", "description": "Derived student/course pairs"},
        {"name": "Dashboard", "description": "Overview counts"},
        {"name": "Exports", "description": "CSV, PDF, XLSX and ICS downloads"},
        {"name": "Home", "description": "Backend diagnostics"}
    ],
    "paths": {
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "parameters": [{"name": "q", "in": "query", "type": "string", "description": "Free-text search"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Students"],
                "summary": "Create student",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentForm"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/search": {
            "get": {
                "tags": ["Students"],
                "summary": "Search students",
                "parameters": [{"name": "q", "in": "query", "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/students/stream": {
            "get": {
                "tags": ["Students"],
                "summary": "Stream the cached student collection",
                "produces": ["text/event-stream"],
                "responses": {"200": {"description": "snapshot events"}}
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get student detail",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Students"],
                "summary": "Update student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentForm"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Concurrent modification", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Delete student",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/students/{id}/courses": {
            "post": {
                "tags": ["Students"],
                "summary": "Associate courses with a student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/IDs"}}
                ],
                "responses": {"204": {"description": "Associated"}}
            }
        },
        "/courses": {
            "get": {
                "tags": ["Courses"],
                "summary": "List courses",
                "parameters": [{"name": "q", "in": "query", "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Courses"],
                "summary": "Create course",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CourseForm"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/courses/active": {
            "get": {
                "tags": ["Courses"],
                "summary": "List active courses",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/courses/search": {
            "get": {
                "tags": ["Courses"],
                "summary": "Search courses",
                "parameters": [{"name": "q", "in": "query", "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/courses/stream": {
            "get": {
                "tags": ["Courses"],
                "summary": "Stream the cached course collection",
                "produces": ["text/event-stream"],
                "responses": {"200": {"description": "snapshot events"}}
            }
        },
        "/courses/calendar.ics": {
            "get": {
                "tags": ["Exports"],
                "summary": "Course calendar feed",
                "produces": ["text/calendar"],
                "responses": {"200": {"description": "iCalendar file"}}
            }
        },
        "/courses/{id}": {
            "get": {
                "tags": ["Courses"],
                "summary": "Get course detail",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "put": {
                "tags": ["Courses"],
                "summary": "Update course",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CourseForm"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["Courses"],
                "summary": "Delete course",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/courses/{id}/students": {
            "post": {
                "tags": ["Courses"],
                "summary": "Associate students with a course",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/IDs"}}
                ],
                "responses": {"204": {"description": "Associated"}}
            }
        },
        "/enrollments": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "List enrollments with course names",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Enrollments"],
                "summary": "Enroll a student in a course",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EnrollRequest"}}],
                "responses": {
                    "200": {"description": "Already enrolled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "201": {"description": "Enrolled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollments/student/{id}": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "List enrollments of a student",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/enrollments/course/{id}": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "List enrollments of a course",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/enrollments/{studentId}/{courseId}": {
            "delete": {
                "tags": ["Enrollments"],
                "summary": "Remove a student from a course",
                "parameters": [
                    {"name": "studentId", "in": "path", "required": true, "type": "integer"},
                    {"name": "courseId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Updated student", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Concurrent modification", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Dashboard counts",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/exports/{dataset}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a dataset",
                "parameters": [
                    {"name": "dataset", "in": "path", "required": true, "type": "string", "enum": ["students", "courses", "enrollments"]},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf", "xlsx"]}
                ],
                "responses": {"200": {"description": "File download"}}
            }
        },
        "/home/hello": {
            "get": {"tags": ["Home"], "summary": "Check the backend greeting endpoint", "responses": {"200": {"description": "OK"}}}
        },
        "/home/health": {
            "get": {"tags": ["Home"], "summary": "Check the backend health endpoint", "responses": {"200": {"description": "OK"}}}
        },
        "/home/version": {
            "get": {"tags": ["Home"], "summary": "Backend version information", "responses": {"200": {"description": "OK"}}}
        },
        "/home/metrics": {
            "get": {"tags": ["Home"], "summary": "Console instrumentation summary", "responses": {"200": {"description": "OK"}}}
        },
        "/home/snapshots": {
            "delete": {
                "tags": ["Home"],
                "summary": "Drop the mirrored store snapshots",
                "responses": {"204": {"description": "Cleared"}, "503": {"description": "Snapshots disabled"}}
            }
        }
    },
    "definitions": {
        "StudentForm": {
            "type": "object",
            "required": ["firstName", "lastName", "email", "dateOfBirth"],
            "properties": {
                "firstName": {"type": "string", "maxLength": 50},
                "lastName": {"type": "string", "maxLength": 50},
                "email": {"type": "string", "format": "email"},
                "dateOfBirth": {"type": "string", "format": "date"},
                "phoneNumber": {"type": "string", "maxLength": 20},
                "courseIds": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "CourseForm": {
            "type": "object",
            "required": ["courseCode", "courseName", "credits", "price"],
            "properties": {
                "courseCode": {"type": "string", "minLength": 3, "maxLength": 10},
                "courseName": {"type": "string", "minLength": 5, "maxLength": 100},
                "description": {"type": "string", "maxLength": 500},
                "credits": {"type": "integer", "minimum": 1, "maximum": 6},
                "price": {"type": "number"},
                "startDate": {"type": "string", "format": "date"},
                "endDate": {"type": "string", "format": "date"},
                "isActive": {"type": "boolean"},
                "studentIds": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "EnrollRequest": {
            "type": "object",
            "required": ["studentId", "courseId"],
            "properties": {
                "studentId": {"type": "integer"},
                "courseId": {"type": "integer"}
            }
        },
        "IDs": {
            "type": "object",
            "properties": {
                "ids": {"type": "array", "items": {"type": "integer"}}
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
