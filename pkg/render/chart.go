package render

import (
	"bytes"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/matzehuels/cartpile/pkg/cart"
)

// RenderChart returns a standalone HTML page with an ECharts scatter plot of
// item centers, one series per tag.
func RenderChart(l Layout) ([]byte, error) {
	scatter := charts.NewScatter()
	title := "Pile"
	if l.CartID != "" {
		title = "Pile " + l.CartID
	}
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("%d items", len(l.Entries)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "x", Type: "value", Min: l.Region.Left, Max: l.Region.Right}),
		charts.WithYAxisOpts(opts.YAxis{Name: "y", Type: "value"}),
	)

	series := map[cart.Tag][]opts.ScatterData{}
	var order []cart.Tag
	for _, e := range l.Entries {
		tag := e.Item.Tag
		if tag == "" {
			tag = "other"
		}
		if _, ok := series[tag]; !ok {
			order = append(order, tag)
		}
		series[tag] = append(series[tag], opts.ScatterData{
			Name:         e.Item.Name,
			Value:        []any{e.Placement.X, e.Placement.Y},
			SymbolSize:   max(int(e.Placement.Width/4), 6),
			SymbolRotate: int(e.Placement.Rotation),
		})
	}
	for _, tag := range order {
		scatter.AddSeries(string(tag), series[tag],
			charts.WithItemStyleOpts(opts.ItemStyle{Color: tagColor(tag)}))
	}

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}
