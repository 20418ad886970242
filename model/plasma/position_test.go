package plasma_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plasmanet/plasma-go/model/plasma"
)

func TestVerifiedPositionBefore(t *testing.T) {
	assert.True(t, plasma.VerifiedPosition{BlockNumber: 1}.Before(plasma.VerifiedPosition{BlockNumber: 2}))
	assert.True(t, plasma.VerifiedPosition{BlockNumber: 1, TransitionIndex: 3}.Before(plasma.VerifiedPosition{BlockNumber: 1, TransitionIndex: 4}))
	assert.False(t, plasma.VerifiedPosition{BlockNumber: 2}.Before(plasma.VerifiedPosition{BlockNumber: 1, TransitionIndex: 9}))
	assert.False(t, plasma.VerifiedPosition{BlockNumber: 1, TransitionIndex: 4}.Before(plasma.VerifiedPosition{BlockNumber: 1, TransitionIndex: 4}))
}
