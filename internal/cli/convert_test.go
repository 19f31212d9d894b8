package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/stockroom/internal/currency"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want Conversion
	}{
		{"cny to kzt", []string{"100"}, Conversion{Amount: 100, From: currency.CNY, To: currency.KZT, Result: 6500, Rate: 65}},
		{"kzt to cny", []string{"6500", "--to", "cny"}, Conversion{Amount: 6500, From: currency.KZT, To: currency.CNY, Result: 100, Rate: 65}},
		{"upper case target", []string{"1", "--to", "CNY"}, Conversion{Amount: 1, From: currency.KZT, To: currency.CNY, Result: 0.02, Rate: 65}},
		{"fraction", []string{".5"}, Conversion{Amount: 0.5, From: currency.CNY, To: currency.KZT, Result: 32.5, Rate: 65}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Conversion
			executeJSON(t, newDBPath(t), &got, append([]string{"convert"}, tt.args...)...)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConvertText(t *testing.T) {
	run := execute(t, newDBPath(t), "convert", "12.5")
	require.NoError(t, run.err)
	assert.Equal(t, "12.50 CNY = 812.50 KZT\n", run.stdout)
}

func TestConvertUsesConfiguredRate(t *testing.T) {
	t.Setenv("STOCKROOM_CURRENCY_RATE", "70")

	var got Conversion
	executeJSON(t, newDBPath(t), &got, "convert", "10")
	assert.Equal(t, 700.0, got.Result)
	assert.Equal(t, 70.0, got.Rate)
}

func TestConvertErrors(t *testing.T) {
	cliErr, err := executeJSONError(t, newDBPath(t), "convert", "12,5")
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, ErrCodeInvalidInput, cliErr.Code)
	assert.Contains(t, cliErr.Message, "invalid amount")

	run := execute(t, newDBPath(t), "convert", "1", "--to", "usd")
	require.Error(t, run.err)
	assert.Equal(t, ExitCommandError, GetExitCode(run.err))
}
