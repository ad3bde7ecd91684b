// Package docs registers the OpenAPI description served under /swagger.
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
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new account",
                "parameters": [
                    {"description": "Account details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.UserProfileResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log in with email and password",
                "parameters": [
                    {"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.UserProfileResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user's profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.UserProfileResponse"}}
                }
            }
        },
        "/posts": {
            "get": {
                "description": "Filters combine; every one that is set must match.",
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "List published posts",
                "parameters": [
                    {"type": "string", "description": "Category slug", "name": "category", "in": "query"},
                    {"type": "string", "description": "Tag slug", "name": "tag", "in": "query"},
                    {"type": "integer", "description": "Author ID", "name": "author", "in": "query"},
                    {"type": "string", "description": "Substring of title, content or excerpt", "name": "search", "in": "query"},
                    {"type": "boolean", "description": "Only featured posts", "name": "featured", "in": "query"},
                    {"type": "integer", "description": "Page number (1-based)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size (<=100)", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.PostListResponse"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Create a post",
                "parameters": [
                    {"description": "Post", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.CreatePostRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.PostListResponse"}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/posts/{slug}": {
            "get": {
                "description": "Counts a view, then returns the post with approved comments and related posts.",
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Post detail",
                "parameters": [
                    {"type": "string", "description": "Post slug", "name": "slug", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.PostDetailResponse"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/posts/popular": {
            "get": {
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Most viewed posts",
                "parameters": [
                    {"type": "integer", "description": "Maximum number of posts (default 10)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.PostListResponse"}}}
                }
            }
        },
        "/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["stats"],
                "summary": "Site-wide totals over published posts",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.BlogStats"}}
                }
            }
        }
    },
    "definitions": {
        "models.RegisterRequest": {
            "type": "object",
            "required": ["email", "first_name", "last_name", "password", "password_confirm", "username"],
            "properties": {
                "email": {"type": "string"},
                "username": {"type": "string", "maxLength": 150, "minLength": 3},
                "first_name": {"type": "string", "maxLength": 150},
                "last_name": {"type": "string", "maxLength": 150},
                "password": {"type": "string", "minLength": 8},
                "password_confirm": {"type": "string"}
            }
        },
        "models.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "models.UserProfileResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "email": {"type": "string"},
                "username": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "full_name": {"type": "string"},
                "bio": {"type": "string"},
                "date_of_birth": {"type": "string"},
                "avatar": {"type": "string"},
                "is_verified": {"type": "boolean"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "models.CreatePostRequest": {
            "type": "object",
            "required": ["content", "title"],
            "properties": {
                "title": {"type": "string", "maxLength": 200},
                "category": {"type": "integer"},
                "content": {"type": "string"},
                "excerpt": {"type": "string", "maxLength": 500},
                "featured_image": {"type": "string"},
                "status": {"type": "string", "enum": ["draft", "published"]},
                "is_featured": {"type": "boolean"},
                "tags": {"type": "array", "items": {"type": "string"}}
            }
        },
        "models.PostListResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "slug": {"type": "string"},
                "author_name": {"type": "string"},
                "author_username": {"type": "string"},
                "category_name": {"type": "string"},
                "excerpt": {"type": "string"},
                "featured_image": {"type": "string"},
                "status": {"type": "string"},
                "is_featured": {"type": "boolean"},
                "views_count": {"type": "integer"},
                "comments_count": {"type": "integer"},
                "reading_time": {"type": "integer"},
                "created_at": {"type": "string"},
                "published_at": {"type": "string"}
            }
        },
        "models.PostDetailResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "slug": {"type": "string"},
                "content": {"type": "string"},
                "views_count": {"type": "integer"},
                "reading_time": {"type": "integer"},
                "comments": {"type": "array", "items": {"type": "object"}},
                "related_posts": {"type": "array", "items": {"$ref": "#/definitions/models.PostListResponse"}}
            }
        },
        "services.BlogStats": {
            "type": "object",
            "properties": {
                "total_posts": {"type": "integer"},
                "total_categories": {"type": "integer"},
                "total_tags": {"type": "integer"},
                "total_views": {"type": "integer"},
                "total_comments": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Blog API",
	Description:      "Blog backend: posts, categories, tags, comments, analytics and recommendations.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
