package validator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions(t *testing.T) {
	testCases := []struct {
		name          string
		option        Option
		expectedError string
		check         func(t *testing.T, v *Validator)
	}{
		{
			name:   "WithAlgorithms restricts the algorithm set",
			option: WithAlgorithms(HS256, HS384),
			check: func(t *testing.T, v *Validator) {
				assert.Equal(t, map[SignatureAlgorithm]bool{HS256: true, HS384: true}, v.algorithms)
			},
		},
		{
			name:          "WithAlgorithms rejects an empty set",
			option:        WithAlgorithms(),
			expectedError: "algorithms cannot be empty",
		},
		{
			name:          "WithAlgorithms rejects asymmetric algorithms",
			option:        WithAlgorithms(HS256, SignatureAlgorithm("RS256")),
			expectedError: "unsupported signature algorithm: RS256",
		},
		{
			name:   "WithAllowedClockSkew sets the skew",
			option: WithAllowedClockSkew(30 * time.Second),
			check: func(t *testing.T, v *Validator) {
				assert.Equal(t, 30*time.Second, v.allowedClockSkew)
			},
		},
		{
			name:          "WithAllowedClockSkew rejects a negative skew",
			option:        WithAllowedClockSkew(-time.Second),
			expectedError: "clock skew cannot be negative",
		},
		{
			name:   "WithClock replaces the clock",
			option: WithClock(fixedClock),
			check: func(t *testing.T, v *Validator) {
				assert.Equal(t, now, v.now())
			},
		},
		{
			name:          "WithClock rejects nil",
			option:        WithClock(nil),
			expectedError: "clock cannot be nil",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			v := &Validator{}
			err := testCase.option(v)

			if testCase.expectedError != "" {
				assert.EqualError(t, err, testCase.expectedError)
				return
			}

			require.NoError(t, err)
			testCase.check(t, v)
		})
	}
}
