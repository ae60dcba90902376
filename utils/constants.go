// File: utils/constants.go
package utils

import "time"

// CatalogCachePrefix is the prefix used for Redis catalog cache keys.
const CatalogCachePrefix = "experiences:"

// CatalogCacheJitter bounds the random extra TTL added to catalog entries.
const CatalogCacheJitter = 2 * time.Minute

// HealthCheckInterval is how often Mongo and Redis are pinged.
const HealthCheckInterval = 60 * time.Second
