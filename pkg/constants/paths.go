package constants

// Fixed service paths; resource routes are registered in internal/router.
const (
	PathHealth  = "/health"
	PathReady   = "/ready"
	PathMetrics = "/metrics"
)
