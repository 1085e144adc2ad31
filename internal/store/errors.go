// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"

	"portfolio/internal/models"
)

// dbError wraps err with op. A database that cannot be reached is reported
// as ErrUnavailable so write paths can tell an outage from a failed query.
func dbError(op string, err error) error {
	wrapped := fmt.Errorf("%s: %w", op, err)
	if unreachable(err) {
		return models.WrapError(models.ErrUnavailable, "The database is unavailable. Try again later.", wrapped)
	}
	return wrapped
}

func unreachable(err error) bool {
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) || errors.Is(err, driver.ErrBadConn)
}
