package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChart(t *testing.T) {
	body := []byte(`{"chart":{"result":[{
		"timestamp":[1736150400,1736236800,1736323200],
		"indicators":{"quote":[{
			"open":[100,null,102],
			"high":[101,null,103],
			"low":[99,null,101],
			"close":[100.5,null,102.5],
			"volume":[1000,null,1200]}]}}]}}`)

	bars, err := parseChart(body, "AAPL")
	require.NoError(t, err)
	require.Len(t, bars, 2, "null bar is skipped")
	assert.Equal(t, 100.5, bars[0].Close)
	assert.Equal(t, 102.5, bars[1].Close)
	assert.Equal(t, 1200.0, bars[1].Volume)
}

func TestParseChart_QuoteShorterThanTimestamps(t *testing.T) {
	body := []byte(`{"chart":{"result":[{
		"timestamp":[1736150400,1736236800,1736323200],
		"indicators":{"quote":[{
			"open":[100],
			"high":[101],
			"low":[99],
			"close":[100.5],
			"volume":[]}]}}]}}`)

	bars, err := parseChart(body, "AAPL")
	require.NoError(t, err)
	require.Len(t, bars, 1, "entries past the quote arrays read as null")
	assert.Equal(t, 100.5, bars[0].Close)
	assert.Equal(t, 0.0, bars[0].Volume)
}

func TestParseChart_EmptyQuoteBlock(t *testing.T) {
	body := []byte(`{"chart":{"result":[{
		"timestamp":[1736150400],
		"indicators":{"quote":[]}}]}}`)

	_, err := parseChart(body, "AAPL")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no quote data")
}

func TestParseChart_APIError(t *testing.T) {
	body := []byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)

	_, err := parseChart(body, "NOPE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delisted")
}

func TestParseChart_NoResult(t *testing.T) {
	_, err := parseChart([]byte(`{"chart":{"result":[]}}`), "AAPL")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data returned")
}
