package coupon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapCouponSet(t *testing.T) {
	set := NewMapCouponSet(4).(*mapCouponSet)

	assert.Equal(t, 0, set.Size())
	assert.False(t, set.Contains("SAVEBIG25"))

	set.Add("SAVEBIG25")
	set.Add("FESTIVE10")
	set.Add("SAVEBIG25") // duplicate

	assert.Equal(t, 2, set.Size())
	assert.True(t, set.Contains("SAVEBIG25"))
	assert.True(t, set.Contains("FESTIVE10"))
	assert.False(t, set.Contains("savebig25"), "lookups are case sensitive")
}
