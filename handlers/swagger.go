package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>jobscout API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// OpenAPI document of the public routes.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "jobscout", "version": "v0.2.0" },
  "components": {
    "schemas": {
      "CV": { "type": "object", "properties": {
        "personalInfo": { "type": "object", "properties": { "fullName": {"type":"string"}, "email": {"type":"string"}, "phone": {"type":"string"}, "address": {"type":"string"} } },
        "summary": { "type": "string", "maxLength": 500 },
        "experience": { "type": "array", "items": { "type": "object", "properties": { "id": {"type":"string"}, "jobTitle": {"type":"string"}, "company": {"type":"string"}, "startDate": {"type":"string"}, "endDate": {"type":"string"}, "description": {"type":"string"} } } },
        "education": { "type": "array", "items": { "type": "object", "properties": { "id": {"type":"string"}, "degree": {"type":"string"}, "institution": {"type":"string"}, "graduationYear": {"type":"string"} } } },
        "skills": { "type": "string" }
      } },
      "Credentials": { "type": "object", "properties": { "email": {"type":"string"}, "password": {"type":"string"}, "name": {"type":"string"} } },
      "Refresh": { "type": "object", "properties": { "refresh_token": {"type":"string"} } }
    }
  },
  "paths": {
    "/auth/register": { "post": { "summary": "Create a password account", "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Credentials"} } } }, "responses": { "201": { "description": "tokens returned" }, "409": { "description": "email taken" } } } },
    "/auth/login": { "post": { "summary": "Password login", "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Credentials"} } } }, "responses": { "200": { "description": "tokens returned" }, "401": { "description": "invalid credentials" } } } },
    "/auth/google": { "post": { "summary": "Sign in with a Google ID token", "responses": { "200": { "description": "tokens returned" } } } },
    "/auth/google/start": { "get": { "summary": "Redirect to Google consent", "responses": { "302": { "description": "redirect" } } } },
    "/auth/google/callback": { "get": { "summary": "Google OAuth callback", "responses": { "302": { "description": "redirect to UI with token" } } } },
    "/auth/refresh": { "post": { "summary": "Rotate refresh token", "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Refresh"} } } }, "responses": { "200": { "description": "new tokens" }, "401": { "description": "invalid refresh" } } } },
    "/auth/logout": { "post": { "summary": "Logout and invalidate refresh token", "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Refresh"} } } }, "responses": { "200": { "description": "logged out" } } } },
    "/api/v1/me": { "get": { "summary": "Signed-in account", "responses": { "200": { "description": "user" } } } },
    "/api/cv": { "get": { "summary": "Load the editing session (X-CV-Session or bearer)", "responses": { "200": { "description": "document" } } } },
    "/api/cv/fields": { "patch": { "summary": "Set one field", "responses": { "200": { "description": "document and notice" }, "400": { "description": "unknown field" } } } },
    "/api/cv/experience": { "post": { "summary": "Append an experience entry", "responses": { "200": { "description": "document and entry" } } } },
    "/api/cv/experience/{id}": { "delete": { "summary": "Remove an experience entry", "responses": { "200": { "description": "removed" }, "409": { "description": "last entry" } } } },
    "/api/cv/education": { "post": { "summary": "Append an education entry", "responses": { "200": { "description": "document and entry" } } } },
    "/api/cv/education/{id}": { "delete": { "summary": "Remove an education entry", "responses": { "200": { "description": "removed" }, "409": { "description": "last entry" } } } },
    "/api/cv/reset": { "post": { "summary": "Restore defaults", "responses": { "200": { "description": "document" } } } },
    "/api/cv/export": { "get": { "summary": "Download the snapshot", "responses": { "200": { "description": "application/json attachment" } } } },
    "/api/cv/import": { "post": { "summary": "Replace the document with a snapshot", "responses": { "200": { "description": "document" }, "400": { "description": "invalid data file" } } } },
    "/api/cv/generate": { "post": { "summary": "Render a PDF", "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/CV"} } } }, "responses": { "200": { "description": "application/pdf attachment" }, "400": { "description": "missing fields" }, "500": { "description": "render failure" } } } },
    "/api/cv/send": { "post": { "summary": "Email the rendered PDF", "responses": { "200": { "description": "sent" }, "400": { "description": "invalid request" }, "502": { "description": "mail failure" } } } },
    "/api/cv/archive": { "post": { "summary": "Render and archive a PDF", "responses": { "201": { "description": "archive entry with link" }, "503": { "description": "storage not configured" } } } },
    "/api/cv/archives": { "get": { "summary": "List archived PDFs", "responses": { "200": { "description": "entries" } } } },
    "/api/search": { "post": { "summary": "Search jobs through the scraper", "responses": { "200": { "description": "results" }, "502": { "description": "scraper failure" } } } },
    "/api/scraper": { "post": { "summary": "Alias of /api/search", "responses": { "200": { "description": "results" } } } },
    "/api/notifications": { "get": { "summary": "New job notifications", "responses": { "200": { "description": "count and jobs" } } } },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "text exposition" } } } }
  }
}`
