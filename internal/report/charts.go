// Airscope - Air Pollution Clustering and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/airscope

// Package report renders a clustering result as charts and downloadable
// tables.
package report

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/tomtom215/airscope/internal/cluster"
	"github.com/tomtom215/airscope/internal/dataset"
	"github.com/tomtom215/airscope/internal/pipeline"
)

const (
	chartWidth      = "900px"
	chartHeight     = "500px"
	smallChartWidth = "440px"
)

// ClusterName is the legend name of label.
func ClusterName(label int) string {
	if label == cluster.Noise {
		return "Noise"
	}
	return fmt.Sprintf("Cluster %d", label)
}

// Dashboard assembles every chart of a result into one page.
func Dashboard(res *pipeline.Result) *components.Page {
	page := components.NewPage()
	page.PageTitle = "Air Pollution Clustering"
	page.SetLayout(components.PageFlexLayout)

	page.AddCharts(DistributionChart(res.Records))
	for _, c := range ScatterMatrix(res) {
		page.AddCharts(c)
	}
	page.AddCharts(
		CorrelationChart(res.Records),
		ClusterScatter(res, dataset.NO2, dataset.PM25),
		ClusterMeansChart(res.Summary),
	)
	return page
}

// RenderDashboard writes the dashboard page as HTML.
func RenderDashboard(w io.Writer, res *pipeline.Result) error {
	return Dashboard(res).Render(w)
}

func pollutantNames() []string {
	names := make([]string, 0, dataset.NumPollutants)
	for _, p := range dataset.Pollutants {
		names = append(names, p.Short())
	}
	return names
}

// DistributionChart is a box plot of every pollutant.
func DistributionChart(records []pipeline.Record) *charts.BoxPlot {
	bp := charts.NewBoxPlot()
	bp.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Pollutant Distribution", Subtitle: "AQI values"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	data := make([]opts.BoxPlotData, 0, dataset.NumPollutants)
	for _, b := range Distribution(records) {
		data = append(data, opts.BoxPlotData{Name: b.Pollutant.Short(), Value: b.Values()})
	}
	bp.SetXAxis(pollutantNames()).AddSeries("AQI", data)
	return bp
}

// labelOrder returns the labels present in res, sorted.
func labelOrder(res *pipeline.Result) []int {
	seen := make(map[int]struct{})
	for _, l := range res.Labels {
		seen[l] = struct{}{}
	}
	out := make([]int, 0, len(seen))
	for l := range seen {
		out = append(out, l)
	}
	sort.Ints(out)
	return out
}

// scatterSeries splits the clustered records into one series per label.
func scatterSeries(res *pipeline.Result, x, y dataset.Pollutant, named bool) map[int][]opts.ScatterData {
	series := make(map[int][]opts.ScatterData)
	for i := range res.Records {
		r := &res.Records[i]
		label, ok := res.Label(r.ID)
		if !ok {
			continue
		}
		point := opts.ScatterData{Value: []interface{}{r.Value(x).Float64, r.Value(y).Float64}}
		if named {
			point.Name = r.City + ", " + r.Country
		}
		series[label] = append(series[label], point)
	}
	return series
}

func newClusterScatter(res *pipeline.Result, x, y dataset.Pollutant, title, width string, named bool) *charts.Scatter {
	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: width, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Name: x.Column(), Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: y.Column(), Type: "value"}),
	)
	series := scatterSeries(res, x, y, named)
	for _, label := range labelOrder(res) {
		sc.AddSeries(ClusterName(label), series[label])
	}
	return sc
}

// ScatterMatrix returns one scatter per pollutant pair, coloured by cluster.
func ScatterMatrix(res *pipeline.Result) []*charts.Scatter {
	var out []*charts.Scatter
	for i, x := range dataset.Pollutants {
		for _, y := range dataset.Pollutants[i+1:] {
			title := fmt.Sprintf("%s vs %s", x.Short(), y.Short())
			out = append(out, newClusterScatter(res, x, y, title, smallChartWidth, false))
		}
	}
	return out
}

// CorrelationChart is a heatmap of the pollutant correlation matrix.
func CorrelationChart(records []pipeline.Record) *charts.HeatMap {
	names := pollutantNames()
	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Correlation Heatmap"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: names}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: names}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        -1,
			Max:        1,
			InRange:    &opts.VisualMapInRange{Color: []string{"#053061", "#f7f7f7", "#67001f"}},
		}),
	)

	corr := Correlation(records)
	data := make([]opts.HeatMapData, 0, dataset.NumPollutants*dataset.NumPollutants)
	for _, a := range dataset.Pollutants {
		for _, b := range dataset.Pollutants {
			v := corr[a][b]
			if math.IsNaN(v) {
				continue
			}
			data = append(data, opts.HeatMapData{Value: [3]interface{}{int(a), int(b), math.Round(v*100) / 100}})
		}
	}
	hm.SetXAxis(names).AddSeries("correlation", data)
	return hm
}

// ClusterScatter plots two pollutants coloured by cluster with each point
// named after its city.
func ClusterScatter(res *pipeline.Result, x, y dataset.Pollutant) *charts.Scatter {
	return newClusterScatter(res, x, y, "Clusters", chartWidth, true)
}

// ClusterMeansChart is a grouped bar chart of the per-cluster means.
func ClusterMeansChart(summary []pipeline.ClusterSummary) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Average Pollution per Cluster"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
	)

	clusters := make([]string, 0, len(summary))
	for _, s := range summary {
		clusters = append(clusters, ClusterName(s.Label))
	}
	bar.SetXAxis(clusters)
	for _, p := range dataset.Pollutants {
		data := make([]opts.BarData, 0, len(summary))
		for _, s := range summary {
			data = append(data, opts.BarData{Value: s.Means[p]})
		}
		bar.AddSeries(p.Short(), data)
	}
	return bar
}
