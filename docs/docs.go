// Package docs holds the OpenAPI document served at /swagger/ in development.
// Keep it in step with the handlers' @Router annotations.
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
        "/auth/forgot-password": {
            "post": {
                "description": "Email a single-use reset link valid for one hour",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Request password reset",
                "parameters": [
                    {"description": "Account email", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/auth.ForgotPasswordRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/httputil.MessageResponse"}},
                    "404": {"description": "User does not exist", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "429": {"description": "Too many requests", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "500": {"description": "Email could not be sent", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "description": "Authenticate with email and password and receive an access token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "User login",
                "parameters": [
                    {"description": "Login credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/auth.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/auth.AuthTokens"}},
                    "400": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Return the profile of the authenticated user without credentials",
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/user.User"}},
                    "401": {"description": "Missing or invalid token", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "404": {"description": "User does not exist", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            }
        },
        "/auth/register": {
            "post": {
                "description": "Create a new account and receive an access token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [
                    {"description": "Registration details", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/auth.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/auth.Registration"}},
                    "400": {"description": "Invalid request or user already exists", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            }
        },
        "/auth/reset-password/{token}": {
            "post": {
                "description": "Set a new password using the emailed token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Reset password",
                "parameters": [
                    {"type": "string", "description": "Reset token", "name": "token", "in": "path", "required": true},
                    {"description": "New password", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/auth.ResetPasswordRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/httputil.MessageResponse"}},
                    "400": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            }
        },
        "/expenses": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Page through the caller's expenses, newest first",
                "produces": ["application/json"],
                "tags": ["expenses"],
                "summary": "List expenses",
                "parameters": [
                    {"type": "integer", "default": 1, "description": "Page number", "name": "page", "in": "query"},
                    {"type": "integer", "default": 5, "description": "Page size (max 100)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/expense.Page"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["expenses"],
                "summary": "Add expense",
                "parameters": [
                    {"description": "Expense", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/expense.CreateExpenseRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/expense.Expense"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            }
        },
        "/expenses/download": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Premium members only",
                "produces": ["text/csv"],
                "tags": ["expenses"],
                "summary": "Download expenses as CSV",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "403": {"description": "Premium membership required", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "404": {"description": "No expenses found", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            }
        },
        "/expenses/{id}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["expenses"],
                "summary": "Update expense",
                "parameters": [
                    {"type": "string", "description": "Expense ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/expense.UpdateExpenseRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/expense.Expense"}},
                    "403": {"description": "Not the owner", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "404": {"description": "Expense not found", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["expenses"],
                "summary": "Delete expense",
                "parameters": [
                    {"type": "string", "description": "Expense ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/httputil.MessageResponse"}},
                    "403": {"description": "Not the owner", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "404": {"description": "Expense not found", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            }
        },
        "/payment/create-order": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Open a premium membership order; the gateway's order descriptor is returned unchanged",
                "produces": ["application/json"],
                "tags": ["payment"],
                "summary": "Create payment order",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/payment.GatewayOrder"}},
                    "500": {"description": "Error creating order", "schema": {"$ref": "#/definitions/httputil.UpstreamErrorResponse"}}
                }
            }
        },
        "/payment/verify": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Check the gateway signature and upgrade the caller to premium",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["payment"],
                "summary": "Verify payment",
                "parameters": [
                    {"description": "Gateway callback fields", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/payment.VerifyRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/payment.VerifyResponse"}},
                    "400": {"description": "Invalid signature", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "403": {"description": "Order belongs to another user", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "404": {"description": "Order not found", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "409": {"description": "Order already settled", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "auth.AuthTokens": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "token_type": {"type": "string"},
                "expires_in": {"type": "integer"}
            }
        },
        "auth.ForgotPasswordRequest": {
            "type": "object",
            "required": ["email"],
            "properties": {"email": {"type": "string"}}
        },
        "auth.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "auth.RegisterRequest": {
            "type": "object",
            "required": ["email", "name", "password"],
            "properties": {"name": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string", "minLength": 8}}
        },
        "auth.Registration": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "token_type": {"type": "string"},
                "expires_in": {"type": "integer"},
                "user": {"$ref": "#/definitions/user.User"}
            }
        },
        "auth.ResetPasswordRequest": {
            "type": "object",
            "required": ["password"],
            "properties": {"password": {"type": "string", "minLength": 8}}
        },
        "expense.CreateExpenseRequest": {
            "type": "object",
            "required": ["amount", "category", "description"],
            "properties": {
                "description": {"type": "string"},
                "amount": {"type": "number"},
                "category": {"type": "string"},
                "date": {"type": "string"}
            }
        },
        "expense.Expense": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "user": {"type": "string"},
                "description": {"type": "string"},
                "amount": {"type": "number"},
                "category": {"type": "string"},
                "date": {"type": "string"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "expense.Page": {
            "type": "object",
            "properties": {
                "expenses": {"type": "array", "items": {"$ref": "#/definitions/expense.Expense"}},
                "currentPage": {"type": "integer"},
                "totalPages": {"type": "integer"},
                "totalExpenses": {"type": "integer"}
            }
        },
        "expense.UpdateExpenseRequest": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "amount": {"type": "number"},
                "category": {"type": "string"},
                "date": {"type": "string"}
            }
        },
        "httputil.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}, "code": {"type": "string"}}
        },
        "httputil.MessageResponse": {
            "type": "object",
            "properties": {"msg": {"type": "string"}}
        },
        "httputil.UpstreamErrorResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}, "error": {"type": "string"}, "code": {"type": "string"}}
        },
        "payment.GatewayOrder": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "amount": {"type": "integer"},
                "currency": {"type": "string"},
                "receipt": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "payment.VerifyRequest": {
            "type": "object",
            "required": ["razorpay_order_id", "razorpay_payment_id", "razorpay_signature"],
            "properties": {
                "razorpay_order_id": {"type": "string"},
                "razorpay_payment_id": {"type": "string"},
                "razorpay_signature": {"type": "string"}
            }
        },
        "payment.VerifyResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}, "upgraded": {"type": "boolean"}}
        },
        "user.User": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "isPremium": {"type": "boolean"},
                "date": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the access token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:5000",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Expense API",
	Description:      "Expense tracking backend with premium membership, CSV export and password reset.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
