package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "mbale", Normalize(" Mbale "))
	assert.Equal(t, "", Normalize("   "))
	assert.Equal(t, "kampala central", Normalize("\tKAMPALA Central\n"))
}

func TestNormalizePtr(t *testing.T) {
	assert.Equal(t, "", NormalizePtr(nil))
	v := " Female "
	assert.Equal(t, "female", NormalizePtr(&v))
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"mbale", "Mbale"},
		{"", ""},
		{"  KAMPALA central ", "Kampala Central"},
		{"o'brien", "O'Brien"},
		{"post-harvest handling", "Post-Harvest Handling"},
		{"coffee, tea", "Coffee, Tea"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, TitleCase(tt.in))
		})
	}
}

func TestTitleCase_RoundTripsThroughNormalize(t *testing.T) {
	for _, s := range []string{"Mbale", " mUKONO ", "Sub County A"} {
		assert.Equal(t, Normalize(s), Normalize(TitleCase(s)))
	}
}

func TestOrDefault(t *testing.T) {
	assert.Equal(t, Unknown, OrDefault("", Unknown))
	assert.Equal(t, Unknown, OrDefault("  ", Unknown))
	assert.Equal(t, "male", OrDefault("male", Unknown))
	assert.Equal(t, "Unknown", DisplayOrUnknown(""))
	assert.Equal(t, "Female", DisplayOrUnknown("female"))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"Coffee", "Tea"}, SplitList("Coffee, Tea"))
	assert.Nil(t, SplitList(" , ,"))
	assert.Equal(t, []string{"a", "b"}, NormalizeAll([]string{" A", "", "b "}))
}
