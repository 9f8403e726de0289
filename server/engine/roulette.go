package engine

import (
	"math/rand"
	"strconv"
)

// RouletteSlotCap is the most that can ride on any single bet slot.
const RouletteSlotCap = 50

// rouletteWheel is the American double-zero wheel: 38 slots.
var rouletteWheel = func() []string {
	slots := []string{"0", "00"}
	for n := 1; n <= 36; n++ {
		slots = append(slots, strconv.Itoa(n))
	}
	return slots
}()

var redNumbers = map[string]bool{
	"1": true, "3": true, "5": true, "7": true, "9": true,
	"12": true, "14": true, "16": true, "18": true, "19": true,
	"21": true, "23": true, "25": true, "27": true, "30": true,
	"32": true, "34": true, "36": true,
}

// RouletteBets is one spin's worth of wagers across the three bucket
// types. Keys: numbers "0".."36" and "00"; colors "red"/"black";
// parities "odd"/"even".
type RouletteBets struct {
	Numbers  map[string]int `json:"numbers"`
	Colors   map[string]int `json:"colors"`
	Parities map[string]int `json:"parities"`
}

// Total sums every wager on the layout.
func (b RouletteBets) Total() int {
	total := 0
	for _, amt := range b.Numbers {
		total += amt
	}
	for _, amt := range b.Colors {
		total += amt
	}
	for _, amt := range b.Parities {
		total += amt
	}
	return total
}

// Validate checks slot keys, amounts, and the per-slot cap.
func (b RouletteBets) Validate() error {
	for slot, amt := range b.Numbers {
		if !validPocket(slot) {
			return validationf("unknown number slot %q", slot)
		}
		if err := checkSlotAmount(amt); err != nil {
			return err
		}
	}
	for slot, amt := range b.Colors {
		if slot != "red" && slot != "black" {
			return validationf("unknown color slot %q", slot)
		}
		if err := checkSlotAmount(amt); err != nil {
			return err
		}
	}
	for slot, amt := range b.Parities {
		if slot != "odd" && slot != "even" {
			return validationf("unknown parity slot %q", slot)
		}
		if err := checkSlotAmount(amt); err != nil {
			return err
		}
	}
	if b.Total() == 0 {
		return validationf("no bets placed")
	}
	return nil
}

func checkSlotAmount(amt int) error {
	if amt < 0 {
		return validationf("bet cannot be negative")
	}
	if amt > RouletteSlotCap {
		return validationf("slot bets are capped at $%d", RouletteSlotCap)
	}
	return nil
}

func validPocket(slot string) bool {
	if slot == "00" {
		return true
	}
	n, err := strconv.Atoi(slot)
	return err == nil && n >= 0 && n <= 36 && slot == strconv.Itoa(n)
}

// PocketColor returns red/black, or green for the zeros.
func PocketColor(pocket string) string {
	if pocket == "0" || pocket == "00" {
		return "green"
	}
	if redNumbers[pocket] {
		return "red"
	}
	return "black"
}

// pocketParity returns odd/even, or "" for the zeros (which match neither).
func pocketParity(pocket string) string {
	if pocket == "0" || pocket == "00" {
		return ""
	}
	n, _ := strconv.Atoi(pocket)
	if n%2 == 0 {
		return "even"
	}
	return "odd"
}

// RouletteResult is one resolved spin. Payout is the total returned to the
// balance (matched stakes plus profit); losing stakes are already gone.
type RouletteResult struct {
	Pocket string `json:"pocket"`
	Color  string `json:"color"`
	Profit int    `json:"profit"`
	Payout int    `json:"payout"`
}

// SpinRoulette draws a pocket uniformly from the 38-slot wheel and settles
// every bucket: numbers pay 35:1, colors and parities pay even money.
func SpinRoulette(bets RouletteBets, rng *rand.Rand) RouletteResult {
	pocket := rouletteWheel[rng.Intn(len(rouletteWheel))]
	return ResolveRoulette(bets, pocket)
}

// ResolveRoulette computes the payout for a known pocket; split out so
// tests can pin the wheel.
func ResolveRoulette(bets RouletteBets, pocket string) RouletteResult {
	res := RouletteResult{Pocket: pocket, Color: PocketColor(pocket)}
	if stake := bets.Numbers[pocket]; stake > 0 {
		res.Profit += stake * 35
		res.Payout += stake * 36
	}
	if stake := bets.Colors[res.Color]; stake > 0 {
		res.Profit += stake
		res.Payout += stake * 2
	}
	if parity := pocketParity(pocket); parity != "" {
		if stake := bets.Parities[parity]; stake > 0 {
			res.Profit += stake
			res.Payout += stake * 2
		}
	}
	return res
}

// ChaosBets scatters a budget across random slots, honoring the per-slot
// cap and never exceeding the budget. Purely a convenience for the "bet
// for me" button.
func ChaosBets(budget int, rng *rand.Rand) RouletteBets {
	bets := RouletteBets{
		Numbers:  map[string]int{},
		Colors:   map[string]int{},
		Parities: map[string]int{},
	}
	remaining := budget
	placements := 3 + rng.Intn(5)
	for i := 0; i < placements && remaining > 0; i++ {
		amt := 5 * (1 + rng.Intn(RouletteSlotCap/5))
		if amt > remaining {
			amt = remaining
		}
		switch rng.Intn(3) {
		case 0:
			slot := rouletteWheel[rng.Intn(len(rouletteWheel))]
			amt = capSlot(bets.Numbers[slot], amt)
			bets.Numbers[slot] += amt
		case 1:
			slot := []string{"red", "black"}[rng.Intn(2)]
			amt = capSlot(bets.Colors[slot], amt)
			bets.Colors[slot] += amt
		default:
			slot := []string{"odd", "even"}[rng.Intn(2)]
			amt = capSlot(bets.Parities[slot], amt)
			bets.Parities[slot] += amt
		}
		remaining -= amt
	}
	return bets
}

func capSlot(existing, add int) int {
	if existing+add > RouletteSlotCap {
		return RouletteSlotCap - existing
	}
	return add
}
