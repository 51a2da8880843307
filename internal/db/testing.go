// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package db

import (
	"context"
	"database/sql"
	"sync/atomic"
	"testing"

	"github.com/hashicorp/go-dbw"
	"github.com/hashicorp/stronghold/internal/db/schema"
	"github.com/kelseyhightower/envconfig"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	// Dialect selects the database dialect for tests. Defaults to an
	// in-memory sqlite database so the suite runs without infrastructure.
	Dialect string `envconfig:"DB_DIALECT" default:"sqlite"`

	// DbUrl overrides the connection url for tests, for running the suite
	// against a real postgres.
	DbUrl string `envconfig:"DB_DSN"`
}

// TestSetup initializes a test database with the schema applied and returns
// the connection. The test cleanup closes the connection.
func TestSetup(t *testing.T) *DB {
	t.Helper()
	require := require.New(t)

	var config testConfig
	require.NoError(envconfig.Process("", &config))

	opts := []dbw.TestOption{
		dbw.WithTestDialect(config.Dialect),
		dbw.WithTestMigrationUsingDB(func(ctx context.Context, sqlDb *sql.DB) error {
			return schema.Apply(ctx, config.Dialect, sqlDb)
		}),
	}
	if config.DbUrl != "" {
		opts = append(opts, dbw.WithTestDatabaseUrl(config.DbUrl))
	}

	// dbw's test setup registers its own cleanup to close the connection.
	conn, _ := dbw.TestSetup(t, opts...)
	require.NotNil(conn)

	db := &DB{wrapped: new(atomic.Pointer[dbw.DB])}
	db.wrapped.Store(conn)
	return db
}
