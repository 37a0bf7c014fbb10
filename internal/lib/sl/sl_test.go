package sl_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/salon-subscribers/internal/lib/sl"
)

func TestErr(t *testing.T) {
	attr := sl.Err(errors.New("redis is down"))

	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, slog.StringValue("redis is down"), attr.Value)
}

func TestErr_Nil(t *testing.T) {
	assert.NotPanics(t, func() {
		attr := sl.Err(nil)
		assert.Equal(t, "", attr.Value.String())
	})
}

func TestOp(t *testing.T) {
	assert.Equal(t, slog.String("op", "subscriber.Add"), sl.Op("subscriber.Add"))
}
