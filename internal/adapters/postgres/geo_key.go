package postgres_adapter

import (
	"fmt"
	"strings"

	"plot-service/internal/core/domain"

	"github.com/mmcloughlin/geohash"
)

// Точность ~150x150 метров: достаточно, чтобы различать соседние участки.
const geohashPrecision = 7

// buildGeoKey создает стабильный пространственный ключ участка:
// geohash центра bbox + нормализованный номер участка.
// Ключ хранится в колонке geo_key и используется для группировки участков
// по соседству и для отлова дублей при загрузке данных геодезии.
func buildGeoKey(parcel domain.Parcel) string {
	center := domain.BoundingBox(parcel.Geometry).Center()
	geohsh := geohash.Encode(center.Lat, center.Lng)
	if len(geohsh) > geohashPrecision {
		geohsh = geohsh[:geohashPrecision]
	}

	plotNo := strings.ToLower(strings.TrimSpace(parcel.Properties.PlotNumber))
	if plotNo == "" {
		plotNo = "null"
	}

	return fmt.Sprintf("%s|%s", geohsh, plotNo)
}
