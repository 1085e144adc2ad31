// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
)

// EnsureReady calls ensure before each request. Its error is not reported:
// read paths degrade and write paths surface their own failures while a
// dependency is down.
func EnsureReady(ensure func(context.Context) error) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = ensure(r.Context())
			next.ServeHTTP(w, r)
		})
	}
}
