// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into an adapter plus domain-specific
// sub-packages:
//
//	database/
//	├── backend.go       # Backend interface: sqlite (local), postgres and mysql (cloud)
//	├── store.go         # Pool ownership, backend selection, Acquire
//	├── conn.go          # Request-scoped Conn and the RequestScope middleware
//	├── schema.go        # Idempotent migrations and seed rows
//	├── users/           # Customer accounts
//	├── admins/          # Back-office accounts
//	├── packages/        # Tour package CRUD and search
//	├── bookings/        # Booking and payment persistence
//	├── feedback/        # Contact form submissions
//	├── activity/        # Audit trail tables
//	└── reports/         # Join and aggregate queries (sqlx)
//
// # Request-scoped connections
//
// Handlers never touch the pool. RequestScope attaches a lazy Conn to the
// gin context; the first ConnFrom call checks one connection out and the
// middleware returns it when the request ends:
//
//	conn, err := database.ConnFrom(c)
//	if err != nil { ... }
//	repo := packages.NewRepository(conn.Gorm())
//	rows, err := reports.NewRepository(conn).UserBookings(ctx, userID)
//
// # Backend selection
//
// DATABASE_URL picks the backend once, in Open. An empty value selects the
// SQLite file at DATABASE_PATH; postgres:// and mysql:// URLs select the
// networked engines. Report queries are written with ? placeholders and
// rebound per backend by Conn.
package database
