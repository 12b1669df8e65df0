package charts

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"investor_dashboard/pkg/core/content"
	"investor_dashboard/pkg/core/projection"
)

func sampleForecast() projection.Forecast {
	return projection.Project(projection.Drivers{
		WorkingDays: 26, Price: 25, StartUnitsPerDay: 30, MonthlyGrowth: 0.10,
		VariableCostPerUnit: 11, FixedCostsPerMonth: 8000,
	})
}

var axes = content.Axes{X: "Mes", Y: "Bs."}

func TestFromForecast(t *testing.T) {
	f := sampleForecast()

	op, err := FromForecast(f, content.SeriesOperating, content.Chart{Title: "Utilidad Operativa por Mes"}, axes)
	require.NoError(t, err)
	assert.Equal(t, f.OperatingProfitSeries(), op.Values)
	assert.Len(t, op.Months, 12)
	assert.Equal(t, "Mes", op.XLabel)
	assert.Equal(t, "Bs.", op.YLabel)

	cum, err := FromForecast(f, content.SeriesCumulative, content.Chart{Title: "Utilidad Acumulada"}, axes)
	require.NoError(t, err)
	assert.Equal(t, f.Rows[11].CumulativeProfit, cum.Values[11])

	_, err = FromForecast(f, "revenue", content.Chart{}, axes)
	assert.ErrorIs(t, err, ErrUnknownSeries)
}

func TestRenderHTML(t *testing.T) {
	spec, err := FromForecast(sampleForecast(), content.SeriesOperating, content.Chart{Title: "Utilidad Operativa por Mes"}, axes)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, spec))

	out := buf.String()
	assert.Contains(t, out, "<html")
	assert.Contains(t, out, "echarts")
	assert.Contains(t, out, "Utilidad Operativa por Mes")
}

func TestRenderPNG(t *testing.T) {
	spec, err := FromForecast(sampleForecast(), content.SeriesCumulative, content.Chart{Title: "Utilidad Acumulada"}, axes)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderPNG(&buf, spec))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dx(), 0)
}

func TestRenderPNG_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderPNG(&buf, Spec{Title: "vacío"}))
	assert.NotZero(t, buf.Len())
}
