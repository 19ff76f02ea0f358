package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "kopi-susu", Slugify("Kopi Susu"))
	assert.Equal(t, "size-xl-2", Slugify("  Size/XL (2) "))
	assert.Equal(t, "", Slugify("!!!"))
}
