package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/sellercenter-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Title string   `json:"title" validate:"notblank,max=10"`
	Price float64  `json:"price" validate:"gte=0"`
	Tags  []string `json:"tags" validate:"max=2"`
}

func TestDecodeJSONBodyNamesFirstFailingField(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"title":"  ","price":-1}`))
	var dest sampleRequest
	err := DecodeJSONBody(req, &dest)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, "title is required", typed.Message())
	details := typed.Details().(map[string]string)
	assert.Equal(t, "must be greater than or equal to 0", details["price"])
}

func TestDecodeJSONBodyRejectsUnknownAndEmpty(t *testing.T) {
	var dest sampleRequest
	err := DecodeJSONBody(httptest.NewRequest("POST", "/", strings.NewReader(`{"title":"ok","bogus":1}`)), &dest)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	err = DecodeJSONBody(httptest.NewRequest("POST", "/", strings.NewReader(``)), &dest)
	assert.Equal(t, "request body is required", pkgerrors.As(err).Message())
}

func TestDecodeJSONBodySuccess(t *testing.T) {
	var dest sampleRequest
	require.NoError(t, DecodeJSONBody(httptest.NewRequest("POST", "/", strings.NewReader(`{"title":"ok","price":2.5,"tags":["a"]}`)), &dest))
	assert.Equal(t, "ok", dest.Title)
}

func TestParseQueryHelpers(t *testing.T) {
	req := httptest.NewRequest("GET", "/?page=3&bad=x&big=1000&id=not-a-uuid&start=2024-02-30&end=2024-03-01", nil)

	page, err := ParseQueryInt(req, "page", 1, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 3, page)

	def, err := ParseQueryInt(req, "missing", 20, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 20, def)

	_, err = ParseQueryInt(req, "bad", 1, 1, 100)
	assert.Error(t, err)
	_, err = ParseQueryInt(req, "big", 1, 1, 100)
	assert.Equal(t, "big must be between 1 and 100", pkgerrors.As(err).Message())

	_, err = ParseQueryUUID(req, "id")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	none, err := ParseQueryUUID(req, "absent")
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = ParseQueryDate(req, "start")
	assert.Error(t, err, "february 30th is not a date")
	end, err := ParseQueryDate(req, "end")
	require.NoError(t, err)
	assert.Equal(t, 3, int(end.Month()))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "连衣裙 red", SanitizeString("  连衣裙\x00 red\t", 0))
	assert.Equal(t, "连衣", SanitizeString("连衣裙", 2))
	assert.Equal(t, "", SanitizeString(" \n ", MaxSearchLength))
	assert.Equal(t, MaxSearchLength, len([]rune(SanitizeString(strings.Repeat("裙", 300), MaxSearchLength))))
}
