// Package docs registers the OpenAPI description served at /swagger/.
// Regenerate with `swag init -g cmd/server/main.go` after changing handler annotations.
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
        "/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["帖子"],
                "summary": "全部帖子",
                "parameters": [
                    {"type": "integer", "default": 1, "description": "页码", "name": "page", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/group/{slug}/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["帖子"],
                "summary": "社区帖子",
                "parameters": [
                    {"type": "string", "description": "社区 slug", "name": "slug", "in": "path", "required": true},
                    {"type": "integer", "default": 1, "description": "页码", "name": "page", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/new/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["帖子"],
                "summary": "发帖表单",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}, "302": {"description": "未登录跳转登录页"}}
            },
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["帖子"],
                "summary": "发帖",
                "parameters": [
                    {"type": "string", "description": "正文", "name": "text", "in": "formData", "required": true},
                    {"type": "integer", "description": "社区ID", "name": "group", "in": "formData"},
                    {"type": "file", "description": "图片", "name": "image", "in": "formData"}
                ],
                "responses": {"302": {"description": "跳转首页"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/follow/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["关系链"],
                "summary": "关注流",
                "parameters": [
                    {"type": "integer", "default": 1, "description": "页码", "name": "page", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}, "302": {"description": "未登录跳转登录页"}}
            }
        },
        "/{username}/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["帖子"],
                "summary": "用户主页",
                "parameters": [
                    {"type": "string", "description": "用户名", "name": "username", "in": "path", "required": true},
                    {"type": "integer", "default": 1, "description": "页码", "name": "page", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/{username}/{post_id}/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["帖子"],
                "summary": "帖子详情",
                "parameters": [
                    {"type": "string", "description": "作者", "name": "username", "in": "path", "required": true},
                    {"type": "integer", "description": "帖子ID", "name": "post_id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/{username}/{post_id}/edit/": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["帖子"],
                "summary": "编辑帖子",
                "parameters": [
                    {"type": "string", "description": "作者", "name": "username", "in": "path", "required": true},
                    {"type": "integer", "description": "帖子ID", "name": "post_id", "in": "path", "required": true},
                    {"type": "string", "description": "正文", "name": "text", "in": "formData", "required": true},
                    {"type": "integer", "description": "社区ID", "name": "group", "in": "formData"},
                    {"type": "file", "description": "图片", "name": "image", "in": "formData"}
                ],
                "responses": {"302": {"description": "跳转详情页"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/{username}/{post_id}/comment/": {
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["评论"],
                "summary": "发表评论",
                "parameters": [
                    {"type": "string", "description": "作者", "name": "username", "in": "path", "required": true},
                    {"type": "integer", "description": "帖子ID", "name": "post_id", "in": "path", "required": true},
                    {"type": "string", "description": "评论内容", "name": "text", "in": "formData", "required": true}
                ],
                "responses": {"302": {"description": "跳转详情页"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/{username}/follow/": {
            "post": {
                "produces": ["application/json"],
                "tags": ["关系链"],
                "summary": "关注作者",
                "parameters": [{"type": "string", "description": "作者用户名", "name": "username", "in": "path", "required": true}],
                "responses": {"302": {"description": "跳转作者主页"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/{username}/unfollow/": {
            "post": {
                "produces": ["application/json"],
                "tags": ["关系链"],
                "summary": "取消关注",
                "parameters": [{"type": "string", "description": "作者用户名", "name": "username", "in": "path", "required": true}],
                "responses": {"302": {"description": "跳转作者主页"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/auth/login/": {
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["用户"],
                "summary": "登录",
                "parameters": [
                    {"type": "string", "description": "用户名", "name": "username", "in": "formData", "required": true},
                    {"type": "string", "description": "密码", "name": "password", "in": "formData", "required": true},
                    {"type": "string", "description": "登录后跳转地址", "name": "next", "in": "query"}
                ],
                "responses": {"302": {"description": "跳转 next"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/about/author/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["静态页"],
                "summary": "关于作者",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/about/tech/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["静态页"],
                "summary": "技术栈",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/healthz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["系统"],
                "summary": "健康检查",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        }
    },
    "definitions": {
        "response.Response": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "data": {},
                "message": {"type": "string"},
                "template": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "yatube API",
	Description:      "Posts, groups, comments and follows.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
