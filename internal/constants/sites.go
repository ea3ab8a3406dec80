package constants

import "fmt"

// Site - описание одного земельного сайта (логической "таблицы" участков).
// Явный реестр вместо ветвления по строкам маршрута: каждый сайт знает
// свою таблицу участков, отображаемую локацию и таблицу интересов.
type Site struct {
	ID            string
	TableName     string
	Location      string
	InterestTable string
}

var sites = map[string]Site{
	"trabuom": {
		ID:            "trabuom",
		TableName:     "trabuom",
		Location:      "Trabuom, Kumasi",
		InterestTable: "trabuom_interests",
	},
	"nthc": {
		ID:            "nthc",
		TableName:     "nthc",
		Location:      "NTHC, Kwadaso",
		InterestTable: "nthc_interests",
	},
	"legon-hills": {
		ID:            "legon-hills",
		TableName:     "legon_hills",
		Location:      "East Legon Hills",
		InterestTable: "legon_hills_interests",
	},
	"dar-es-salaam": {
		ID:            "dar-es-salaam",
		TableName:     "dar_es_salaam",
		Location:      "Dar Es Salaam, Ejisu",
		InterestTable: "dar_es_salaam_interests",
	},
	"berekuso": {
		ID:            "berekuso",
		TableName:     "berekuso",
		Location:      "Berekuso, Eastern Region",
		InterestTable: "berekuso_interests",
	},
}

// SiteByID возвращает описание сайта или ошибку для неизвестного id.
func SiteByID(id string) (Site, error) {
	site, ok := sites[id]
	if !ok {
		return Site{}, fmt.Errorf("unknown site id: %q", id)
	}
	return site, nil
}

// KnownSiteIDs - список зарегистрированных сайтов (для ответов об ошибке и тестов).
func KnownSiteIDs() []string {
	ids := make([]string, 0, len(sites))
	for id := range sites {
		ids = append(ids, id)
	}
	return ids
}
