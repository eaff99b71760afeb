package moneytext_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Nastya870/smetalab-sub001/internal/moneytext"
)

func TestFormatAmount_GroupsThousands(t *testing.T) {
	cases := []struct {
		value    string
		decimals int32
		want     string
	}{
		{"1432500.00", 2, "1 432 500,00"},
		{"0", 2, "0,00"},
		{"999", 2, "999,00"},
		{"1000", 2, "1 000,00"},
		{"12345678.9", 2, "12 345 678,90"},
		{"1234567.891", 2, "1 234 567,89"},
		{"-54321.5", 2, "-54 321,50"},
		{"1500", 0, "1 500"},
	}
	for _, tc := range cases {
		v, err := decimal.NewFromString(tc.value)
		assert.NoError(t, err)
		assert.Equal(t, tc.want, moneytext.FormatAmount(v, tc.decimals), "value %s", tc.value)
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "05.03.2024", moneytext.FormatDate(time.Date(2024, time.March, 5, 10, 30, 0, 0, time.UTC)))
	assert.Equal(t, "", moneytext.FormatDate(time.Time{}))
}

func TestAmountInWords(t *testing.T) {
	cases := []struct {
		value string
		want  string
	}{
		{"0", "Ноль рублей 00 копеек"},
		{"1", "Один рубль 00 копеек"},
		{"2", "Два рубля 00 копеек"},
		{"5", "Пять рублей 00 копеек"},
		{"11", "Одиннадцать рублей 00 копеек"},
		{"21", "Двадцать один рубль 00 копеек"},
		{"100", "Сто рублей 00 копеек"},
		{"1000", "Одна тысяча рублей 00 копеек"},
		{"2000", "Две тысячи рублей 00 копеек"},
		{"5000", "Пять тысяч рублей 00 копеек"},
		{"12000", "Двенадцать тысяч рублей 00 копеек"},
		{"1000000", "Один миллион рублей 00 копеек"},
		{"2000000", "Два миллиона рублей 00 копеек"},
		{"0.45", "Ноль рублей 45 копеек"},
		{"1432500.50", "Один миллион четыреста тридцать две тысячи пятьсот рублей 50 копеек"},
		{"301021.01", "Триста одна тысяча двадцать один рубль 01 копейка"},
		{"742.22", "Семьсот сорок два рубля 22 копейки"},
	}
	for _, tc := range cases {
		v, err := decimal.NewFromString(tc.value)
		assert.NoError(t, err)
		assert.Equal(t, tc.want, moneytext.AmountInWords(v), "value %s", tc.value)
	}
}
