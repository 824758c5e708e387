package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCategory(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"motor", "Motor"},
		{"MOTOR", "Motor"},
		{"  kaporta ", "Kaporta"},
		{"bodywork", "Kaporta"},
		{"elektrik", "Elektrik"},
		{"Lastik", "Lastik"},
		{"tires", "Lastik"},
		{"bakim", "Bakım"},
		{"Bakım", "Bakım"},
		{"maintenance", "Bakım"},
		{"Cam Filmi", "Cam Filmi"},
		{"  Egzoz  ", "Egzoz"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizeCategory(tc.input))
		})
	}
}

func TestNormalizeCategory_CanonicalLabelsAreFixedPoints(t *testing.T) {
	for _, label := range CanonicalCategories {
		assert.Equal(t, label, NormalizeCategory(label))
	}
}

func TestNormalizeCategories_DedupesAndDropsEmpty(t *testing.T) {
	got := NormalizeCategories([]string{"motor", "Motor", " ", "bakim", "Egzoz", "maintenance"})

	assert.Equal(t, []string{"Motor", "Bakım", "Egzoz"}, got)
}

func TestNormalizeCategories_Empty(t *testing.T) {
	assert.Empty(t, NormalizeCategories(nil))
}
