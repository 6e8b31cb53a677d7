package utils

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// Database error taxonomy. Low-level driver errors are mapped into one of
// these buckets, and each bucket has a single user-safe message.
type DBErrorClass string

const (
	DBErrorConnection DBErrorClass = "connection"
	DBErrorValidation DBErrorClass = "validation"
	DBErrorConstraint DBErrorClass = "constraint"
	DBErrorPermission DBErrorClass = "permission"
	DBErrorResource   DBErrorClass = "resource"
	DBErrorUnknown    DBErrorClass = "unknown"
)

var dbErrorMessages = map[DBErrorClass]string{
	DBErrorConnection: "Service temporarily unavailable. Please try again.",
	DBErrorValidation: "The request contains invalid data.",
	DBErrorConstraint: "A record with these details already exists.",
	DBErrorPermission: "You do not have permission to perform this action.",
	DBErrorResource:   "The requested record was not found.",
	DBErrorUnknown:    "An unexpected error occurred. Please try again later.",
}

// Mongo server error codes by class. Kept as a table rather than scattered
// switches so new codes land in exactly one place.
var mongoCodeClasses = map[int]DBErrorClass{
	11000: DBErrorConstraint, // duplicate key
	11001: DBErrorConstraint,
	121:   DBErrorValidation, // document failed schema validation
	2:     DBErrorValidation, // bad value
	13:    DBErrorPermission, // unauthorized
	18:    DBErrorPermission, // authentication failed
	6:     DBErrorConnection, // host unreachable
	7:     DBErrorConnection, // host not found
	89:    DBErrorConnection, // network timeout
	91:    DBErrorConnection, // shutdown in progress
	26:    DBErrorResource,   // namespace not found
}

// ClassifyDBError buckets a driver error into the taxonomy.
func ClassifyDBError(err error) DBErrorClass {
	if err == nil {
		return DBErrorUnknown
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return DBErrorResource
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return DBErrorConnection
	}
	var srvErr mongo.ServerError
	if errors.As(err, &srvErr) {
		for code, class := range mongoCodeClasses {
			if srvErr.HasErrorCode(code) {
				return class
			}
		}
	}
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return DBErrorConnection
	}
	if mongo.IsDuplicateKeyError(err) {
		return DBErrorConstraint
	}
	return DBErrorUnknown
}

// SafeDBErrorMessage returns the user-facing string for a driver error.
func SafeDBErrorMessage(err error) string {
	return dbErrorMessages[ClassifyDBError(err)]
}

// IsNotFound reports whether an error is the benign no-documents case, which
// several read paths treat as an expected first-time state rather than a
// failure.
func IsNotFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
