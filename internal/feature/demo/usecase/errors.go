// Package usecase implements demo mode: classification without an account or any relational write.
package usecase

import "errors"

// ErrDemoNotFound is returned for unknown, expired or exited demo ids.
var ErrDemoNotFound = errors.New("demo session not found")
