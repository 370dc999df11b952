package port

import "errors"

// ErrNotFound is returned by repository lookups that miss. Adapters translate
// their driver-specific miss (sql.ErrNoRows, redis.Nil) into this sentinel so
// services can match it with errors.Is.
var ErrNotFound = errors.New("record not found")
