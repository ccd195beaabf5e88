// Package app composes the storefront services into a running application.
//
// It is a wiring layer, not a business logic layer: the rules live in
// internal/app/services/, the data shapes in internal/app/domain/, and the
// persistence contracts in internal/app/storage/.
//
//	internal/app/
//	├── application.go      # Application struct, wiring, and lifecycle
//	├── domain/             # Domain models (pure data structures)
//	│   ├── cart/           # Cart lines and totals
//	│   ├── catalog/        # Products and categories
//	│   ├── customer/       # Customer profiles
//	│   ├── order/          # Orders and their lines
//	│   ├── param/          # System parameters
//	│   └── user/           # Sign-in accounts
//	├── storage/            # Store interfaces and implementations
//	│   ├── interfaces.go   # ProductStore, OrderStore, KV, ...
//	│   ├── memory/         # In-memory implementation for tests and dev
//	│   ├── postgres/       # PostgreSQL implementation for production
//	│   └── rediskv/        # Redis-backed cart persistence
//	├── services/           # Business logic (cart, params, catalog, ...)
//	├── httpapi/            # HTTP handlers and routing
//	├── system/             # Service lifecycle management
//	└── metrics/            # Prometheus collectors
//
// When adding a new domain: model in domain/, interface in
// storage/interfaces.go, implementations in storage/memory and
// storage/postgres, service in services/, wiring in application.go, handlers
// in httpapi/.
package app
