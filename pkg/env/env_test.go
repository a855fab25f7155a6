package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	t.Setenv("SC_TEST_VALUE", "  console ")
	assert.Equal(t, "console", Get("SC_TEST_VALUE", "json"))

	t.Setenv("SC_TEST_VALUE", "   ")
	assert.Equal(t, "json", Get("SC_TEST_VALUE", "json"))
}

func TestInt(t *testing.T) {
	t.Setenv("SC_TEST_COUNT", "12")
	assert.Equal(t, 12, Int("SC_TEST_COUNT", 3))

	t.Setenv("SC_TEST_COUNT", "twelve")
	assert.Equal(t, 3, Int("SC_TEST_COUNT", 3))
}

func TestList(t *testing.T) {
	t.Setenv("SC_TEST_LIST", "a@x.io, ,b@x.io")
	assert.Equal(t, []string{"a@x.io", "b@x.io"}, List("SC_TEST_LIST", nil))

	t.Setenv("SC_TEST_LIST", " , ")
	assert.Equal(t, []string{"z"}, List("SC_TEST_LIST", []string{"z"}))
}
