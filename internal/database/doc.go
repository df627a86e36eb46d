// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup (sqlite or postgres) and migrations
//	├── errors.go        # Driver error translation (not found, unique violation)
//	├── accounts/        # Credential store: accounts by email or public id
//	├── profiles/        # Archaeologist and company profiles, search
//	├── excavations/     # Excavation listings
//	├── thumbnails/      # Uploaded image metadata
//	└── audit/           # Audit events
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./freearch.db")
//
//	accountsRepo := accounts.NewRepository(db.DB)
//	account, err := accountsRepo.GetByEmail(ctx, "a@b.com")
//
// Repositories return ErrNotFound and ErrDuplicate from this package so that
// callers never need to inspect gorm or driver errors. Uniqueness of account
// emails is enforced by the index, not by a lookup before insert.
package database
