// Package docs holds the Swagger document served at /swagger/doc.json. Keep it in
// step with the handler annotations.
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
        "/api/segments": {
            "get": {
                "produces": ["application/json"],
                "tags": ["segment"],
                "summary": "List segments",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Segment"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/model.ErrorDTO"}}
                }
            },
            "post": {
                "description": "Creates a segment. With auto_assign_percent the segment is given to that share of all users at random.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["segment"],
                "summary": "Create segment",
                "parameters": [
                    {"description": "Segment parameters", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.SegmentCreateDTO"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.SegmentCreatedDTO"}},
                    "400": {"description": "Missing slug or percentage out of range", "schema": {"$ref": "#/definitions/model.ErrorDTO"}},
                    "409": {"description": "Slug already exists", "schema": {"$ref": "#/definitions/model.ErrorDTO"}},
                    "422": {"description": "Slug format", "schema": {"$ref": "#/definitions/model.ErrorDTO"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/model.ErrorDTO"}}
                }
            }
        },
        "/api/segments/{slug}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["segment"],
                "summary": "Get segment",
                "parameters": [
                    {"type": "string", "description": "Segment slug", "name": "slug", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.SegmentDetailsDTO"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/model.ErrorDTO"}}
                }
            },
            "put": {
                "description": "Updates name/description. With auto_assign_percent all memberships are dropped and re-drawn for the new share.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["segment"],
                "summary": "Update segment",
                "parameters": [
                    {"type": "string", "description": "Segment slug", "name": "slug", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.SegmentUpdateDTO"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.SegmentUpdatedDTO"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/model.ErrorDTO"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/model.ErrorDTO"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/model.ErrorDTO"}}
                }
            },
            "delete": {
                "tags": ["segment"],
                "summary": "Delete segment",
                "parameters": [
                    {"type": "string", "description": "Segment slug", "name": "slug", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/model.ErrorDTO"}}
                }
            }
        },
        "/api/segments/{slug}/users": {
            "get": {
                "produces": ["application/json"],
                "tags": ["segment"],
                "summary": "List segment members",
                "parameters": [
                    {"type": "string", "description": "Segment slug", "name": "slug", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.SegmentMembersDTO"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/model.ErrorDTO"}}
                }
            }
        },
        "/api/users": {
            "get": {
                "produces": ["application/json"],
                "tags": ["user"],
                "summary": "List users",
                "parameters": [
                    {"type": "integer", "description": "Maximum number of users (default 100)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.User"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/model.ErrorDTO"}}
                }
            },
            "post": {
                "produces": ["application/json"],
                "tags": ["user"],
                "summary": "Register user",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.UserCreatedDTO"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/model.ErrorDTO"}}
                }
            }
        },
        "/api/users/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["user"],
                "summary": "User statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.UserStatsDTO"}}
                }
            }
        },
        "/api/users/{id}/segments": {
            "get": {
                "produces": ["application/json"],
                "tags": ["user"],
                "summary": "Get user segments",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.UserSegmentsDTO"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/model.ErrorDTO"}}
                }
            },
            "post": {
                "description": "Adds every listed segment. Unknown segments and segments the user already has are reported in errors; the rest are still added.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["user"],
                "summary": "Add segments to user",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "id", "in": "path", "required": true},
                    {"description": "Segment slugs", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.SegmentSlugsDTO"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.AddedReportDTO"}},
                    "400": {"description": "No segments provided", "schema": {"$ref": "#/definitions/model.ErrorDTO"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/model.ErrorDTO"}}
                }
            },
            "delete": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["user"],
                "summary": "Remove segments from user",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "id", "in": "path", "required": true},
                    {"description": "Segment slugs", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.SegmentSlugsDTO"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.RemovedReportDTO"}},
                    "400": {"description": "No segments provided", "schema": {"$ref": "#/definitions/model.ErrorDTO"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/model.ErrorDTO"}}
                }
            }
        }
    },
    "definitions": {
        "model.AddedReportDTO": {
            "type": "object",
            "properties": {
                "added": {"type": "array", "items": {"type": "string"}},
                "errors": {"type": "array", "items": {"type": "string"}}
            }
        },
        "model.ErrorDTO": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "model.RemovedReportDTO": {
            "type": "object",
            "properties": {
                "errors": {"type": "array", "items": {"type": "string"}},
                "removed": {"type": "array", "items": {"type": "string"}}
            }
        },
        "model.Segment": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "description": {"type": "string"},
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "slug": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "model.SegmentCreateDTO": {
            "type": "object",
            "properties": {
                "auto_assign_percent": {"type": "integer"},
                "description": {"type": "string"},
                "name": {"type": "string"},
                "slug": {"type": "string"}
            }
        },
        "model.SegmentCreatedDTO": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "description": {"type": "string"},
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "slug": {"type": "string"}
            }
        },
        "model.SegmentDetailsDTO": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "description": {"type": "string"},
                "id": {"type": "integer"},
                "member_count": {"type": "integer"},
                "name": {"type": "string"},
                "slug": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "model.Membership": {
            "type": "object",
            "properties": {
                "assigned_at": {"type": "string"},
                "segment_id": {"type": "integer"},
                "user_id": {"type": "integer"}
            }
        },
        "model.SegmentMembersDTO": {
            "type": "object",
            "properties": {
                "members": {"type": "array", "items": {"$ref": "#/definitions/model.Membership"}},
                "slug": {"type": "string"},
                "user_ids": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "model.SegmentShortDTO": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "name": {"type": "string"},
                "slug": {"type": "string"}
            }
        },
        "model.SegmentSlugsDTO": {
            "type": "object",
            "properties": {
                "segments": {"type": "array", "items": {"type": "string"}}
            }
        },
        "model.SegmentUpdateDTO": {
            "type": "object",
            "properties": {
                "auto_assign_percent": {"type": "integer"},
                "description": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "model.SegmentUpdatedDTO": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "slug": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "model.User": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "id": {"type": "integer"}
            }
        },
        "model.UserCreatedDTO": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "id": {"type": "integer"}
            }
        },
        "model.UserSegmentsDTO": {
            "type": "object",
            "properties": {
                "segments": {"type": "array", "items": {"$ref": "#/definitions/model.SegmentShortDTO"}},
                "user_id": {"type": "integer"}
            }
        },
        "model.UserStatsDTO": {
            "type": "object",
            "properties": {
                "total_users": {"type": "integer"}
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
	Title:            "User segmentation service",
	Description:      "",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
