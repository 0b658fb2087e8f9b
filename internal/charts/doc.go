// Package charts builds the dashboard's ECharts visualisations with go-echarts.
//
// Builders take page results from [dashboard] and return go-echarts chart values. Charts are
// either embedded into the web pages as option objects ([Embed]) or rendered together as a
// standalone HTML document ([ReportPage]).
package charts
