package parsers

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetParser_SelectsByExtension(t *testing.T) {
	p, err := GetParser("ledger.csv")
	require.NoError(t, err)
	assert.IsType(t, &CSVParser{}, p)

	p, err = GetParser("LEDGER.JSON")
	require.NoError(t, err)
	assert.IsType(t, &JSONParser{}, p)

	_, err = GetParser("ledger.xlsx")
	assert.Error(t, err)
}

func TestCSVParser_ParsesLedger(t *testing.T) {
	ledger := strings.Join([]string{
		"Asset,Date,Type,Amount,Price,Fees,buy_id",
		"BTC,2023-01-15,buy,1.5,20000,10,",
		"BTC,2023-06-01,sell,0.5,30000,5,0",
	}, "\n")

	txs, err := NewCSVParser().Parse(strings.NewReader(ledger))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, "BTC", txs[0].Asset)
	assert.Equal(t, time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC), txs[0].Date)
	assert.Equal(t, "buy", txs[0].Type)
	assert.Equal(t, 1.5, txs[0].Amount)
	assert.Equal(t, 20000.0, txs[0].Price)
	assert.Equal(t, 10.0, txs[0].Fees)
	assert.Nil(t, txs[0].LinkedBuyID)

	require.NotNil(t, txs[1].LinkedBuyID)
	assert.Equal(t, 0, *txs[1].LinkedBuyID)
}

func TestCSVParser_HeaderIsCaseInsensitiveAndReorderable(t *testing.T) {
	ledger := strings.Join([]string{
		"date,TYPE,asset,price,amount",
		"2023-01-15,Sell,ETH,1800,2",
	}, "\n")

	txs, err := NewCSVParser().Parse(strings.NewReader(ledger))
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "ETH", txs[0].Asset)
	assert.Equal(t, "Sell", txs[0].Type)
	assert.Equal(t, 2.0, txs[0].Amount)
	assert.Equal(t, 0.0, txs[0].Fees) // missing column coerces to 0
}

func TestCSVParser_GarbageNumericsCoerceToZero(t *testing.T) {
	ledger := strings.Join([]string{
		"Asset,Date,Type,Amount,Price,Fees",
		"BTC,2023-01-15,buy,not-a-number,,abc",
	}, "\n")

	txs, err := NewCSVParser().Parse(strings.NewReader(ledger))
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Zero(t, txs[0].Amount)
	assert.Zero(t, txs[0].Price)
	assert.Zero(t, txs[0].Fees)
}

func TestCSVParser_BadDateRejectsRow(t *testing.T) {
	ledger := strings.Join([]string{
		"Asset,Date,Type,Amount,Price,Fees",
		"BTC,someday,buy,1,10,0",
	}, "\n")

	_, err := NewCSVParser().Parse(strings.NewReader(ledger))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unparseable date")
}

func TestCSVParser_MissingRequiredColumn(t *testing.T) {
	ledger := "Date,Type,Amount\n2023-01-15,buy,1"

	_, err := NewCSVParser().Parse(strings.NewReader(ledger))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"asset"`)
}

func TestJSONParser_ParsesMixedValueTypes(t *testing.T) {
	ledger := `[
		{"Asset":"BTC","Date":"2023-01-15","Type":"buy","Amount":1.5,"Price":"20000","Fees":null},
		{"Asset":"ETH","Date":"2023-02-01","Type":"sell","Amount":"2","Price":1800,"buy_id":0}
	]`

	txs, err := NewJSONParser().Parse(strings.NewReader(ledger))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, 1.5, txs[0].Amount)
	assert.Equal(t, 20000.0, txs[0].Price) // quoted number coerced
	assert.Zero(t, txs[0].Fees)            // null coerced to 0
	assert.Nil(t, txs[0].LinkedBuyID)

	assert.Equal(t, 2.0, txs[1].Amount)
	require.NotNil(t, txs[1].LinkedBuyID)
	assert.Equal(t, 0, *txs[1].LinkedBuyID)
}

func TestJSONParser_BadDateRejectsRow(t *testing.T) {
	ledger := `[{"Asset":"BTC","Date":"garbage","Type":"buy","Amount":1}]`

	_, err := NewJSONParser().Parse(strings.NewReader(ledger))
	assert.Error(t, err)
}

func TestJSONParser_MalformedDocument(t *testing.T) {
	_, err := NewJSONParser().Parse(strings.NewReader(`{"not":"an array"}`))
	assert.Error(t, err)
}

func TestParseDate_AcceptedLayouts(t *testing.T) {
	for _, raw := range []string{
		"2023-01-15",
		"2023-01-15T10:30:00Z",
		"2023-01-15 10:30:00",
		"2023/01/15",
		"15-01-2023",
	} {
		parsed, err := parseDate(raw)
		require.NoError(t, err, "layout %q", raw)
		assert.Equal(t, 2023, parsed.Year())
		assert.Equal(t, time.January, parsed.Month())
		assert.Equal(t, 15, parsed.Day())
	}
}

func TestCoerceOptionalInt_SpreadsheetFloats(t *testing.T) {
	v := coerceOptionalInt("3.0")
	require.NotNil(t, v)
	assert.Equal(t, 3, *v)

	assert.Nil(t, coerceOptionalInt(""))
	assert.Nil(t, coerceOptionalInt("abc"))
}
