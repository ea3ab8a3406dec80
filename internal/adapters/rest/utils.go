package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"plot-service/internal/core/domain"
)

var errPartialViewport = errors.New("viewport requires all of south, west, north, east")

// WriteJSONError отправляет JSON-ответ с полем "error" и заданным статусом
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// RespondWithJSON отправляет JSON-ответ
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// ParseViewport собирает domain.Bounds из query-параметров south/west/north/east.
// Если не задан ни один параметр, возвращается nil (без обрезки по viewport);
// частично заданный viewport - ошибка.
func ParseViewport(r *http.Request) (*domain.Bounds, error) {
	q := r.URL.Query()
	raw := [4]string{q.Get("south"), q.Get("west"), q.Get("north"), q.Get("east")}

	present := 0
	for _, v := range raw {
		if v != "" {
			present++
		}
	}
	if present == 0 {
		return nil, nil
	}
	if present < 4 {
		return nil, errPartialViewport
	}

	var vals [4]float64
	for i, v := range raw {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, err
		}
		vals[i] = f
	}

	return &domain.Bounds{
		MinLat: vals[0],
		MinLng: vals[1],
		MaxLat: vals[2],
		MaxLng: vals[3],
	}, nil
}
