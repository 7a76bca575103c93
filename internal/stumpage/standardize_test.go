package stumpage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStandardizeProduct(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Sawtimber", "sawtimber"},
		{"Pine Sawtimber - Large", "sawtimber_large"},
		{"small sawlogs", "sawtimber_small"},
		{"Sawlogs", "sawtimber"},
		{"logs", "sawtimber"},
		{"mbf", "sawtimber"},
		{"Pulpwood", "pulpwood"},
		{"pine pulp", "pulpwood"},
		{"Chip-n-Saw", "chip-n-saw"},
		{"chip and saw", "chip-n-saw"},
		{"Veneer Logs", "veneer"},
		{"Poles", "poles"},
		{"Firewood", "firewood"},
		{"fuelwood", "firewood"},
		{"fuelchips", "fuelchips"},
		{"fuel", "firewood"},
		{"fiber", "fiber_fuel"},
		{"Biomass", "biomass"},
		{"boltwood", "boltwood"},
		{"studwood", "studwood"},
		{"cordwood", "cordwood"},
		{"posts", "posts"},
		{"crossties", "crossties"},
		{"tie logs", "crossties"},
		{"plylogs", "plylogs"},
		{"topwood", "topwood"},
		{"t-wood", "topwood"},
		{"Stumpage", "sawtimber"},
		{"Total", "total_index"},
		{"price index", "total_index"},
		{"Something Odd", "something odd"},
		{"", ""},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, StandardizeProduct(tc.in))
		})
	}
}

func TestStandardizeUnit(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"$/MBF", "$/mbf"},
		{"dollars per thousand board feet", "$/mbf"},
		{"$/Cord", "$/cord"},
		{"per cord", "$/cord"},
		{"$/ton", "$/ton"},
		{"dollars/ton", "$/ton"},
		{"index", "index"},
		{"Index (base=100)", "index"},
		{"bushels", "bushels"},
		{"", ""},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, StandardizeUnit(tc.in))
		})
	}
}
