package domain

import "github.com/shopspring/decimal"

// Tranche split percentages. Fixed business rule: the upfront payment covers
// 60% of the product price, the remainder is collected at 30 and 60 days.
var (
	upfrontShare = decimal.NewFromFloat(0.60)
	secondShare  = decimal.NewFromFloat(0.25)
	thirdShare   = decimal.NewFromFloat(0.15)
)

// TrancheAmounts is the financial breakdown of an installment application,
// computed once from the product price at apply time.
type TrancheAmounts struct {
	First  decimal.Decimal
	Second decimal.Decimal
	Third  decimal.Decimal
}

// SplitPrice computes the 60/25/15 tranche amounts, each rounded to 2
// decimals.
func SplitPrice(price decimal.Decimal) TrancheAmounts {
	return TrancheAmounts{
		First:  price.Mul(upfrontShare).Round(2),
		Second: price.Mul(secondShare).Round(2),
		Third:  price.Mul(thirdShare).Round(2),
	}
}

// Due-date labels shown on the employee plan view. The clock for the second
// and third tranche starts when the upfront payment lands.
const (
	DueLabelUpfront = "Today"
	DueLabelSecond  = "In 30 days"
	DueLabelThird   = "In 60 days"
)

// Days after the upfront payment at which the later tranches fall due.
const (
	SecondDueDays = 30
	ThirdDueDays  = 60
)
