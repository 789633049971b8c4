// Package middleware decorates a SessionStore with cross-cutting
// persistence concerns such as encryption at rest and PII masking.
package middleware

import "github.com/aretw0/convoy/pkg/ports"

// Middleware allows wrapping a SessionStore to add behavior.
type Middleware func(ports.SessionStore) ports.SessionStore
