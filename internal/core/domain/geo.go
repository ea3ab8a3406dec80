package domain

// Point - географическая координата (WGS 84).
type Point struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// Ring - замкнутый контур участка: упорядоченная последовательность вершин.
// Валидность контура (замкнутость, >= 3 точек) здесь не проверяется:
// это данные геодезии, деградированный контур даст вырожденный bbox.
type Ring []Point

// Bounds - прямоугольник в географических координатах.
// Используется и как bbox участка, и как viewport карты
// (South=MinLat, West=MinLng, North=MaxLat, East=MaxLng).
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLng float64 `json:"max_lng"`
}

// BoundingBox вычисляет bbox контура за один проход по вершинам.
func BoundingBox(ring Ring) Bounds {
	if len(ring) == 0 {
		return Bounds{}
	}

	b := Bounds{
		MinLat: ring[0].Lat,
		MaxLat: ring[0].Lat,
		MinLng: ring[0].Lng,
		MaxLng: ring[0].Lng,
	}
	for _, pt := range ring[1:] {
		if pt.Lat < b.MinLat {
			b.MinLat = pt.Lat
		}
		if pt.Lat > b.MaxLat {
			b.MaxLat = pt.Lat
		}
		if pt.Lng < b.MinLng {
			b.MinLng = pt.Lng
		}
		if pt.Lng > b.MaxLng {
			b.MaxLng = pt.Lng
		}
	}
	return b
}

// Intersects - стандартный AABB-тест пересечения двух прямоугольников.
// Касание границ считается пересечением.
func (b Bounds) Intersects(viewport Bounds) bool {
	if b.MaxLat < viewport.MinLat || b.MinLat > viewport.MaxLat {
		return false
	}
	if b.MaxLng < viewport.MinLng || b.MinLng > viewport.MaxLng {
		return false
	}
	return true
}

// Center возвращает центр прямоугольника. Нужен для geohash участка.
func (b Bounds) Center() Point {
	return Point{
		Lat: (b.MinLat + b.MaxLat) / 2,
		Lng: (b.MinLng + b.MaxLng) / 2,
	}
}
