package utils

import "time"

// RevokedTokenPrefix is the Redis key prefix of logged-out tokens.
const RevokedTokenPrefix = "revoked:"

// SessionKeyPrefix is the Redis key prefix of persisted console sessions.
const SessionKeyPrefix = "session:"

// SessionTTL bounds how long a persisted session survives without a new sign-in.
const SessionTTL = 7 * 24 * time.Hour
