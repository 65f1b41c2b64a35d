package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRisk(t *testing.T) {
	cases := []struct {
		value, cutoff float64
		want          RiskLevel
	}{
		{10, 10, RiskHigh},
		{12, 10, RiskHigh},
		{8, 10, RiskModerate},
		{9.99, 10, RiskModerate},
		{7.9, 10, RiskLow},
		{0, 10, RiskLow},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyRisk(tc.value, tc.cutoff), "value=%v cutoff=%v", tc.value, tc.cutoff)
	}
}
