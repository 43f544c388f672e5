package redisx

import "time"

const (
	// Cart demo: list of images in insertion order, and image -> quantity.
	KeyCartImages     = "cart:images"
	KeyCartQuantities = "cart:quantities"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var TTLDedup = 48 * time.Hour
