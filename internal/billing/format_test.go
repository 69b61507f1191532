package billing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	cases := map[float64]string{
		0:          "0.00",
		9.9:        "9.90",
		135.54:     "135.54",
		1000:       "1,000.00",
		1234567.8:  "1,234,567.80",
		-54321.005: "-54,321.00",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatAmount(in), "input %v", in)
	}
	assert.Equal(t, "0.00", FormatAmount(math.NaN()))
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "MVR 1,250.00", FormatMoney("MVR", 1250))
	assert.Equal(t, "USD 0.99", FormatMoney("USD", 0.99))
}

func TestFormatDisplayDate(t *testing.T) {
	assert.Equal(t, "31-01-2026", FormatDisplayDate("2026-01-31"))
	assert.Equal(t, "", FormatDisplayDate(""))
	assert.Equal(t, "not-a-date-at-all", FormatDisplayDate("not-a-date-at-all"))
	assert.Equal(t, "whatever", FormatDisplayDate("whatever"))
}
