package exbo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_Bands(t *testing.T) {
	assert.True(t, Status(0).OK())
	assert.False(t, Status(0).IsError())
	assert.False(t, Status(0).IsWarning())

	assert.True(t, ErrNoInstance.IsError())
	assert.False(t, ErrNoInstance.OK())

	assert.True(t, WarnExcessCostLimitBreach.IsWarning())
	assert.False(t, WarnExcessCostLimitBreach.IsError())
}

func TestErrorMessage_StableCodes(t *testing.T) {
	for code := Status(1); code <= 16; code++ {
		if msg := ErrorMessage(code); msg == "" || msg == "undefined error" {
			t.Errorf("code %d: expected a stable message, got %q", code, msg)
		}
	}
}

func TestErrorMessage_ReservedUndefinedBand(t *testing.T) {
	for code := Status(17); code < errMaximum; code++ {
		if msg := ErrorMessage(code); msg != "undefined error" {
			t.Errorf("code %d: expected undefined error, got %q", code, msg)
		}
	}
}

func TestErrorMessage_Warnings(t *testing.T) {
	assert.NotEmpty(t, ErrorMessage(WarnAttemptIsEarlierThanRecommended))
	assert.NotEmpty(t, ErrorMessage(WarnExcessCostLimitBreach))
	assert.NotEmpty(t, ErrorMessage(WarnExcessCostLimitBreachWithDebtOverflow))
}

func TestEncodeDecodeTimeError_RoundTrip(t *testing.T) {
	for code := Status(0); code < errMaximum; code++ {
		encoded := EncodeTimeError(code)
		got, ok := DecodeTimeError(encoded)
		if code == 0 {
			// code 0 shares its bit pattern with the "never recorded" sentinel;
			// it round-trips, but is not itself a failure signal.
			assert.True(t, ok)
			assert.Equal(t, Status(0), got)
			continue
		}
		if !assert.True(t, ok, "code %d", code) {
			continue
		}
		assert.Equal(t, code, got)
	}
}

func TestDecodeTimeError_LegalValue(t *testing.T) {
	_, ok := DecodeTimeError(MinimumTime)
	assert.False(t, ok)

	_, ok = DecodeTimeError(0)
	assert.False(t, ok)

	_, ok = DecodeTimeError(math.MaxInt64)
	assert.False(t, ok)
}

func TestEncodeDecodeNaNError_RoundTrip(t *testing.T) {
	for code := Status(0); code < errMaximum; code++ {
		v := EncodeNaNError(code)
		if !math.IsNaN(v) {
			t.Fatalf("code %d: expected NaN, got %v", code, v)
		}
		got, ok := DecodeNaNError(v)
		assert.True(t, ok)
		assert.Equal(t, code, got)
	}
}

func TestDecodeNaNError_NotNaN(t *testing.T) {
	_, ok := DecodeNaNError(1.5)
	assert.False(t, ok)
}
