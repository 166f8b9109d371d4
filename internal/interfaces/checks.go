package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/tourism/internal/auth"
	"github.com/mrlokans/tourism/internal/backoffice"
	"github.com/mrlokans/tourism/internal/catalog"
	"github.com/mrlokans/tourism/internal/database"
	"github.com/mrlokans/tourism/internal/http"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// Request-scoped connection
var _ database.Querier = (*database.Conn)(nil)
var _ auth.DB = (*database.Conn)(nil)
var _ catalog.DB = (*database.Conn)(nil)
var _ backoffice.DB = (*database.Conn)(nil)

// Health probe
var _ http.Datastore = (*database.Store)(nil)

// =============================================================================
// Presentation
// =============================================================================

// Page rendering shared by the account and site controllers
var _ auth.Renderer = (*http.Views)(nil)
