package common

// ActorHeaderName is the HTTP header carrying the acting user identity.
const ActorHeaderName = "X-Avisos-User"

// MillisPerDay is the number of epoch milliseconds in one day.
const MillisPerDay int64 = 24 * 60 * 60 * 1000
