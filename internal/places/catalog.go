package places

import (
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/samber/lo"

	"example.com/ai-trip-planner/backend/internal/models"
)

const defaultCategory = "tourist_attraction"

// Catalog отдает подборку мест по категории. Источник — встроенный
// справочник: публичный Places API недоступен из клиента, поэтому
// приложение работает на курируемых данных. Результаты кэшируются с TTL.
type Catalog struct {
	cache   *gocache.Cache
	entries map[string][]models.Place
}

// NewCatalog создает каталог мест с кэшем результатов запросов.
func NewCatalog(ttl, cleanupInterval time.Duration) *Catalog {
	return &Catalog{
		cache:   gocache.New(ttl, cleanupInterval),
		entries: seedPlaces(),
	}
}

// Search возвращает места заданной категории. Неизвестная категория
// возвращает подборку достопримечательностей.
func (c *Catalog) Search(location, placeType string) []models.Place {
	category := strings.ToLower(strings.TrimSpace(placeType))
	if category == "" {
		category = defaultCategory
	}

	cacheKey := category + ":" + strings.ToLower(strings.TrimSpace(location))
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached.([]models.Place)
	}

	results, ok := c.entries[category]
	if !ok {
		results = c.entries[defaultCategory]
	}

	c.cache.Set(cacheKey, results, gocache.DefaultExpiration)
	return results
}

// Categories возвращает список категорий каталога.
func (c *Catalog) Categories() []string {
	return lo.Keys(c.entries)
}

// Get возвращает место по идентификатору.
func (c *Catalog) Get(id string) (models.Place, bool) {
	all := lo.Flatten(lo.Values(c.entries))
	return lo.Find(all, func(place models.Place) bool {
		return place.ID == id
	})
}

func seedPlaces() map[string][]models.Place {
	return map[string][]models.Place{
		"tourist_attraction": {
			{ID: "1", Name: "Eiffel Tower", Address: "Champ de Mars, Paris", Rating: 4.6, UserRatingsTotal: 50000, PriceLevel: 2, Types: []string{"tourist_attraction"}, Lat: 48.8584, Lng: 2.2945},
			{ID: "2", Name: "Louvre Museum", Address: "Rue de Rivoli, Paris", Rating: 4.7, UserRatingsTotal: 45000, PriceLevel: 2, Types: []string{"museum"}, Lat: 48.8606, Lng: 2.3376},
			{ID: "3", Name: "Arc de Triomphe", Address: "Place Charles de Gaulle, Paris", Rating: 4.6, UserRatingsTotal: 35000, PriceLevel: 1, Types: []string{"tourist_attraction"}, Lat: 48.8738, Lng: 2.2950},
		},
		"restaurant": {
			{ID: "4", Name: "Le Jules Verne", Address: "Eiffel Tower, Paris", Rating: 4.5, UserRatingsTotal: 2000, PriceLevel: 4, Types: []string{"restaurant"}, Lat: 48.8584, Lng: 2.2945},
			{ID: "5", Name: "L'As du Fallafel", Address: "Le Marais, Paris", Rating: 4.4, UserRatingsTotal: 8000, PriceLevel: 1, Types: []string{"restaurant"}, Lat: 48.8575, Lng: 2.3597},
		},
		"cafe": {
			{ID: "8", Name: "Café de Flore", Address: "Saint-Germain-des-Prés, Paris", Rating: 4.3, UserRatingsTotal: 5000, PriceLevel: 3, Types: []string{"cafe"}, Lat: 48.8542, Lng: 2.3320},
		},
		"lodging": {
			{ID: "6", Name: "Le Bristol Paris", Address: "Rue du Faubourg Saint-Honoré, Paris", Rating: 4.8, UserRatingsTotal: 1500, PriceLevel: 4, Types: []string{"lodging"}, Lat: 48.8708, Lng: 2.3169},
			{ID: "7", Name: "Hotel Plaza Athénée", Address: "Avenue Montaigne, Paris", Rating: 4.7, UserRatingsTotal: 1200, PriceLevel: 4, Types: []string{"lodging"}, Lat: 48.8662, Lng: 2.3044},
		},
		"museum": {
			{ID: "9", Name: "Musée d'Orsay", Address: "Rue de la Légion d'Honneur, Paris", Rating: 4.7, UserRatingsTotal: 40000, PriceLevel: 2, Types: []string{"museum"}, Lat: 48.8600, Lng: 2.3266},
		},
		"park": {
			{ID: "10", Name: "Luxembourg Gardens", Address: "6th arrondissement, Paris", Rating: 4.6, UserRatingsTotal: 25000, PriceLevel: 0, Types: []string{"park"}, Lat: 48.8462, Lng: 2.3372},
		},
	}
}
