// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

// Package testinfra starts throwaway containers for integration tests.
//
// Everything here is behind the integration build tag:
//
//	go test -tags integration ./internal/database/...
//
// A test typically looks like:
//
//	func TestInteractions(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    mongo, err := testinfra.NewMongoContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, mongo)
//
//	    db, err := database.Connect(ctx, &config.MongoConfig{URI: mongo.URI, Database: "test"})
//	    ...
//	}
//
// Tests are skipped when Docker is not reachable. The first run pulls the
// image; later runs use the local cache.
package testinfra
