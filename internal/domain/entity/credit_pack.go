package entity

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	errs "github.com/zazzles-app/credit-ledger/internal/domain/error"
)

// DefaultPackID is charged when auto-top-up has no pack configured
const DefaultPackID = "pack_9"

// CreditPack is a priced bundle of credits
type CreditPack struct {
	ID      string
	Credits int
	Price   decimal.Decimal // in major currency units, e.g. dollars
}

// PriceInCents returns the pack price in the currency's minor unit
func (p CreditPack) PriceInCents() int64 {
	return p.Price.Shift(2).Round(0).IntPart()
}

// FormattedPrice returns the price with exactly 2 decimal places
func (p CreditPack) FormattedPrice() string {
	return p.Price.StringFixed(2)
}

var creditPacks = map[string]CreditPack{
	"pack_9":   {ID: "pack_9", Credits: 9, Price: decimal.NewFromInt(10)},
	"pack_25":  {ID: "pack_25", Credits: 25, Price: decimal.NewFromInt(25)},
	"pack_60":  {ID: "pack_60", Credits: 60, Price: decimal.NewFromInt(50)},
	"pack_150": {ID: "pack_150", Credits: 150, Price: decimal.NewFromInt(100)},
}

// ResolvePack maps a pack ID to its credit count and price
func ResolvePack(id string) (CreditPack, error) {
	pack, ok := creditPacks[id]
	if !ok {
		return CreditPack{}, fmt.Errorf("%w: %q", errs.ErrInvalidPack, id)
	}
	return pack, nil
}

// CreditPacks returns the catalogue ordered by credit count
func CreditPacks() []CreditPack {
	packs := make([]CreditPack, 0, len(creditPacks))
	for _, p := range creditPacks {
		packs = append(packs, p)
	}
	sort.Slice(packs, func(i, j int) bool { return packs[i].Credits < packs[j].Credits })
	return packs
}
