// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

// Package schema is used to apply the database schema to a fresh database.
// The schema is maintained per supported dialect.
package schema

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/hashicorp/stronghold/internal/errors"
)

//go:embed postgres.sql
var postgresSchema string

//go:embed sqlite.sql
var sqliteSchema string

// Apply creates the schema for the given dialect on an empty database.
func Apply(ctx context.Context, dialect string, db *sql.DB) error {
	const op = "schema.Apply"
	if db == nil {
		return errors.New(ctx, errors.InvalidParameter, op, "missing database")
	}
	var ddl string
	switch dialect {
	case "postgres":
		ddl = postgresSchema
	case "sqlite":
		ddl = sqliteSchema
	default:
		return errors.New(ctx, errors.InvalidParameter, op, fmt.Sprintf("%s is an unsupported dialect", dialect))
	}
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return errors.Wrap(ctx, err, op, errors.WithMsg(fmt.Sprintf("unable to apply %s schema", dialect)))
	}
	return nil
}
