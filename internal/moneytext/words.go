package moneytext

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var (
	wordOnes = []string{
		"", "один", "два", "три", "четыре", "пять", "шесть", "семь", "восемь", "девять",
		"десять", "одиннадцать", "двенадцать", "тринадцать", "четырнадцать", "пятнадцать",
		"шестнадцать", "семнадцать", "восемнадцать", "девятнадцать",
	}
	wordTens = []string{
		"", "", "двадцать", "тридцать", "сорок", "пятьдесят",
		"шестьдесят", "семьдесят", "восемьдесят", "девяносто",
	}
	wordHundreds = []string{
		"", "сто", "двести", "триста", "четыреста", "пятьсот",
		"шестьсот", "семьсот", "восемьсот", "девятьсот",
	}
)

// magnitude groups above units; thousands take the feminine count words.
var wordGroups = []struct {
	one, few, many string
	feminine       bool
}{
	{"тысяча", "тысячи", "тысяч", true},
	{"миллион", "миллиона", "миллионов", false},
	{"миллиард", "миллиарда", "миллиардов", false},
}

// AmountInWords spells a ruble amount the way the regulated forms require:
// the whole part in words with declension, kopecks as two digits.
// 2000.00 → "Две тысячи рублей 00 копеек".
func AmountInWords(value decimal.Decimal) string {
	rounded := value.Abs().Round(2)
	rubles := rounded.IntPart()
	kopecks := rounded.Sub(decimal.NewFromInt(rubles)).Mul(decimal.NewFromInt(100)).IntPart()

	words := wholeInWords(rubles)
	phrase := fmt.Sprintf("%s %s %02d %s",
		words,
		pluralForm(rubles, "рубль", "рубля", "рублей"),
		kopecks,
		pluralForm(kopecks, "копейка", "копейки", "копеек"),
	)
	return capitalize(phrase)
}

func wholeInWords(n int64) string {
	if n == 0 {
		return "ноль"
	}

	// split into 3-digit groups, lowest first
	var triplets []int64
	for rest := n; rest > 0; rest /= 1000 {
		triplets = append(triplets, rest%1000)
	}

	var parts []string
	for i := len(triplets) - 1; i >= 0; i-- {
		t := triplets[i]
		if t == 0 {
			continue
		}
		feminine := false
		if i > 0 {
			feminine = wordGroups[i-1].feminine
		}
		parts = append(parts, tripletInWords(t, feminine)...)
		if i > 0 {
			g := wordGroups[i-1]
			parts = append(parts, pluralForm(t, g.one, g.few, g.many))
		}
	}
	return strings.Join(parts, " ")
}

func tripletInWords(n int64, feminine bool) []string {
	var parts []string
	if h := n / 100; h > 0 {
		parts = append(parts, wordHundreds[h])
	}
	rest := n % 100
	switch {
	case rest == 0:
	case rest < 20:
		parts = append(parts, unitWord(rest, feminine))
	default:
		parts = append(parts, wordTens[rest/10])
		if rest%10 > 0 {
			parts = append(parts, unitWord(rest%10, feminine))
		}
	}
	return parts
}

func unitWord(n int64, feminine bool) string {
	if feminine {
		switch n {
		case 1:
			return "одна"
		case 2:
			return "две"
		}
	}
	return wordOnes[n]
}

// pluralForm picks the count-word form by the standard last-digit /
// last-two-digit agreement rules.
func pluralForm(n int64, one, few, many string) string {
	n = n % 100
	if n >= 11 && n <= 14 {
		return many
	}
	switch n % 10 {
	case 1:
		return one
	case 2, 3, 4:
		return few
	}
	return many
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
