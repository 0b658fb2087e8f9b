// Package server serves the dashboard pages, the JSON API and the combined chart report over HTTP.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] is applied in the order it is added, so the first middleware registered is the outermost.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns, which answer requests
// with the wrong method with 405.
//
// # Handlers
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
//
//   - [PageHandler] renders /overview, /genres, /features and /explore with html/template and ECharts snippets.
//   - [APIHandler] serves /api/{page} as JSON with an xxh3 ETag.
//   - [ReportHandler] renders every chart on a single go-echarts page at /report.
//   - [AudioHandler] streams the optional background track at /audio.
//
// The explorer reads its filters from the query string: genre (repeated), year_min, year_max,
// pop_min and pop_max. Omitted filters keep their defaults.
//
// # Middleware
//
// [Recoverer], [RequestID], [RequestLogger] and [RateLimit] wrap every route.
package server
