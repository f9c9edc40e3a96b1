// Package health reports whether snipfmt and its dependencies are usable.
//
// A Checker reports Healthy, Degraded or Unhealthy. The Aggregator runs a
// set of named checkers in parallel and folds them into one status, and
// RegisterHandlers exposes them over HTTP:
//
//	agg := health.NewAggregator()
//	agg.Register("cache", health.NewPingChecker("cache", redisCache, health.StatusDegraded))
//	agg.Register("snippets", health.NewDirChecker("snippets", "./snippets"))
//	agg.Register("memory", health.NewMemoryChecker(health.MemoryCheckerConfig{}))
//
//	health.RegisterHandlers(mux, agg)
//
// The cache is registered as Degraded on failure: conversions keep working
// without it, only slower.
package health
