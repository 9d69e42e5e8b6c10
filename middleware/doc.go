// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging and Metrics

Both are plain func(http.Handler) http.Handler and plug into chi:

	r.Use(middleware.WithLogging)
	r.Use(middleware.WithMetrics)

WithLogging logs request start (method, path, remote, request_id) and
completion (status, duration_ms). WithMetrics records the counters and
histograms in package metrics, labelled by the chi route pattern so that
room IDs do not explode label cardinality.

# CORS Middleware

	r.Use(middleware.CORS(cfg.CORSOrigins))

Allows GET, POST and OPTIONS with headers Authorization, Content-Type and
X-Request-Id. With an explicit origin list credentials are allowed, so the
voter cookie travels with cross-origin requests. An empty list allows any
origin without credentials.

# Rate Limiting

	r.With(middleware.RateLimit(30, time.Minute, fingerprints.ClientIP)).
		Post("/polls/{roomId}/vote", handler)

Requests over the limit get a JSON 429.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies:

	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
*/
package middleware
