package postgres_adapter

import (
	"strings"
	"testing"

	"plot-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func keyParcel(plotNumber string, lng, lat float64) domain.Parcel {
	return domain.Parcel{
		ID: "1",
		Geometry: domain.Ring{
			{Lng: lng, Lat: lat},
			{Lng: lng + 0.001, Lat: lat},
			{Lng: lng + 0.001, Lat: lat + 0.001},
			{Lng: lng, Lat: lat},
		},
		Properties: domain.PlotProperties{PlotNumber: plotNumber},
	}
}

func TestBuildGeoKeyIsStable(t *testing.T) {
	parcel := keyParcel("TB-12", -1.62, 6.66)

	assert.Equal(t, buildGeoKey(parcel), buildGeoKey(parcel))
}

func TestBuildGeoKeyShape(t *testing.T) {
	key := buildGeoKey(keyParcel(" TB-12 ", -1.62, 6.66))

	parts := strings.SplitN(key, "|", 2)
	assert.Len(t, parts[0], geohashPrecision)
	// Номер участка нормализуется: нижний регистр, без пробелов по краям.
	assert.Equal(t, "tb-12", parts[1])
}

func TestBuildGeoKeyDistinguishesNeighbours(t *testing.T) {
	a := buildGeoKey(keyParcel("TB-12", -1.62, 6.66))
	b := buildGeoKey(keyParcel("TB-13", -1.62, 6.66))
	c := buildGeoKey(keyParcel("TB-12", -1.50, 6.80))

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestBuildGeoKeyEmptyPlotNumber(t *testing.T) {
	key := buildGeoKey(keyParcel("", -1.62, 6.66))

	assert.True(t, strings.HasSuffix(key, "|null"))
}
