package engine

import (
	"math"
	"math/rand"
)

// slotSymbols is the fixed 10-symbol reel alphabet; each of the three
// reels draws from it uniformly and independently.
var slotSymbols = [...]string{"🍒", "🍋", "🍊", "🍉", "🔔", "🍀", "⭐", "7️⃣", "💎", "💥"}

// slotPaytable maps a three-of-a-kind symbol to its profit multiplier.
// 💥 is absent: three bombs wipe the balance instead of paying.
var slotPaytable = map[string]float64{
	"🍒":  3,
	"🍋":  3,
	"🍊":  4,
	"🍉":  4,
	"🔔":  5,
	"🍀":  6,
	"⭐":  8,
	"7️⃣": 10,
	"💎":  12,
}

// slotPairMultiplier is the flat profit multiplier for any matching pair.
const slotPairMultiplier = 1.5

// SlotsResult is one resolved pull. Payout is stake plus profit, already
// floored to whole credits; Wipe means the balance goes to zero.
type SlotsResult struct {
	Reels      [3]string `json:"reels"`
	Multiplier float64   `json:"multiplier"`
	Payout     int       `json:"payout"`
	Wipe       bool      `json:"wipe"`
}

// SpinSlots draws three reels and settles against the paytable.
func SpinSlots(bet int, rng *rand.Rand) SlotsResult {
	var reels [3]string
	for i := range reels {
		reels[i] = slotSymbols[rng.Intn(len(slotSymbols))]
	}
	return ResolveSlots(reels, bet)
}

// ResolveSlots computes the payout for known reels; split out so tests can
// pin the symbols.
func ResolveSlots(reels [3]string, bet int) SlotsResult {
	res := SlotsResult{Reels: reels}
	switch {
	case reels[0] == reels[1] && reels[1] == reels[2]:
		if reels[0] == "💥" {
			res.Wipe = true
			return res
		}
		res.Multiplier = slotPaytable[reels[0]]
	case reels[0] == reels[1] || reels[1] == reels[2] || reels[0] == reels[2]:
		res.Multiplier = slotPairMultiplier
	default:
		return res
	}
	res.Payout = int(math.Floor(float64(bet) * (res.Multiplier + 1)))
	return res
}
