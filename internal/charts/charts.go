package charts

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"financas-bot/internal/model"
)

// RenderMonthly desenha o gráfico de barras do relatório mensal: uma
// barra de despesa por categoria. Sem despesas no mês, devolve nil sem
// erro e o relatório segue só em texto.
func RenderMonthly(report *model.MonthlyReport) ([]byte, error) {
	bars := make([]chart.Value, 0, len(report.Categories))
	maxExpense := 0.0
	for _, cat := range report.Categories {
		if cat.Expense.IsZero() {
			continue
		}
		amount, _ := cat.Expense.Float64()
		if amount > maxExpense {
			maxExpense = amount
		}
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%s: %s", cat.Name, cat.Expense.StringFixed(2)),
			Value: amount,
			Style: chart.Style{
				StrokeColor: chart.ColorRed,
				FillColor:   chart.ColorRed.WithAlpha(100),
				FontSize:    12,
				FontColor:   chart.ColorBlack,
			},
		})
	}
	if len(bars) == 0 {
		return nil, nil
	}

	graph := chart.BarChart{
		Title: fmt.Sprintf("Despesas por categoria (%s)", report.Month.Format("01/2006")),
		TitleStyle: chart.Style{
			FontSize:  14,
			FontColor: chart.ColorBlack,
		},
		Width:    800,
		Height:   400,
		BarWidth: 60,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   50,
				Right:  50,
				Bottom: 50,
			},
			FillColor: chart.ColorWhite,
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.0f", v.(float64))
			},
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
			// Sem faixa explícita, barras de valor único (uma categoria
			// ou totais iguais) derrubam o render com "invalid data
			// range; cannot be zero".
			Range: &chart.ContinuousRange{Min: 0, Max: maxExpense * 1.1},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render monthly chart: %w", err)
	}
	return buffer.Bytes(), nil
}
