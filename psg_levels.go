// psg_levels.go - Logarithmic DAC level tables for the AY/YM family.

package main

import "math"

// The chips attenuate in fixed dB steps down from full scale. The AY types
// step at 1.5 dB per level over 16 levels; the YM types halve that to
// 0.75 dB, and the AY8930 runs the finer 0.75 dB curve over 32 levels.
const (
	PSG_DB_PER_STEP_AY = 1.5
	PSG_DB_PER_STEP_YM = 0.75
)

var (
	levelTableAY     [16]uint16
	levelTableYM     [16]uint16
	levelTableAY8930 [32]uint16
)

func buildLevelTable(table []uint16, dbPerStep float64) {
	top := len(table) - 1
	for i := range table {
		table[i] = uint16(math.Round(65535.0 * math.Pow(10, -float64(top-i)*dbPerStep/10)))
	}
}

func init() {
	buildLevelTable(levelTableAY[:], PSG_DB_PER_STEP_AY)
	buildLevelTable(levelTableYM[:], PSG_DB_PER_STEP_YM)
	buildLevelTable(levelTableAY8930[:], PSG_DB_PER_STEP_YM)
}

// levelTableFor selects the DAC curve for a chip variant.
func levelTableFor(chipType uint8) []uint16 {
	switch {
	case chipType == CHIP_TYPE_AY8930:
		return levelTableAY8930[:]
	case chipType >= CHIP_TYPE_YM2149:
		return levelTableYM[:]
	default:
		return levelTableAY[:]
	}
}
