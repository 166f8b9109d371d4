// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - database.Querier: sqlx reads on the request connection (internal/database/conn.go)
//   - auth.DB: account persistence (internal/auth/service.go)
//   - catalog.DB: public catalog, bookings and contact form (internal/catalog/service.go)
//   - backoffice.DB: admin console queries and package CRUD (internal/backoffice/service.go)
//
// All four are satisfied by *database.Conn, which a handler obtains with
// database.ConnFrom after the RequestScope middleware has run. Services are
// built per request around that connection and never outlive it.
//
// ## Presentation Interfaces
//
//   - auth.Renderer: renders a page with the shared layout data (internal/auth/handlers.go)
//   - http.Datastore: readiness probe for /health (internal/http/health.go)
//
// # Adding a New Database Backend
//
//  1. Implement database.Backend in internal/database/backend.go: the gorm
//     dialector, the scs session store and the duplicate-key check.
//
//  2. Add its URL scheme to SelectBackend.
//
//  3. Services need no change; they only see *database.Conn.
//
// # Adding a New Page
//
//  1. Add the template to internal/http/templates/ and start it with
//     {{template "header" .}}.
//
//  2. Add a handler on the matching controller and render through
//     Views.HTML so flashes and the CSRF token are present.
//
//  3. Wrap the route in auth.RequireUser or auth.RequireAdmin when it is
//     not public.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// This pattern is used throughout the codebase. See checks.go for examples.
package interfaces
