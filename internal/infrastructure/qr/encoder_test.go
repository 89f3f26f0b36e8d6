package qr_test

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/infrastructure/qr"
)

func TestEncoder_PNG(t *testing.T) {
	out, err := qr.NewEncoder().PNG(`{"id":"p1","code":"B-1","name":"Bolt"}`, 256)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())
	assert.Equal(t, 256, img.Bounds().Dy())
}

func TestEncoder_Vacio(t *testing.T) {
	_, err := qr.NewEncoder().PNG("", 256)
	assert.Error(t, err)
}
