package factories

import (
	"math/rand"

	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"
	"github.com/ringmast4r/camtiles/internal/models"
)

var fake = faker.New()

// FeatureFactory produces synthetic camera features for fixtures and load
// testing. Coordinates are drawn from the continental-US bounding box so the
// state aggregation path is exercised by default.
type FeatureFactory struct {
	rng *rand.Rand
}

func NewFeatureFactory(seed int64) *FeatureFactory {
	return &FeatureFactory{rng: rand.New(rand.NewSource(seed))}
}

var manufacturers = []string{
	"Flock Safety",
	"Motorola Solutions",
	"Axis Communications",
	"Hikvision",
	"",
}

var surveillanceTypes = []string{"ALPR", "camera", ""}

func (f *FeatureFactory) CreateCamera() models.Feature {
	lat := 24.0 + f.rng.Float64()*(49.0-24.0)
	lon := -125.0 + f.rng.Float64()*(-66.0-(-125.0))

	properties := map[string]interface{}{
		"source_id": cuid.New(),
		"operator":  fake.Company().Name(),
	}
	if manufacturer := manufacturers[f.rng.Intn(len(manufacturers))]; manufacturer != "" {
		properties["manufacturer"] = manufacturer
	}
	if survType := surveillanceTypes[f.rng.Intn(len(surveillanceTypes))]; survType != "" {
		properties["surveillance:type"] = survType
	}

	return models.NewPointFeature(lon, lat, properties)
}

// CreateNetworkEdge links two existing camera features. Edges anchor at their
// from endpoint, so the generated edge always attaches to from's tile.
func (f *FeatureFactory) CreateNetworkEdge(from, to models.Feature) models.NetworkEdge {
	fromLon, fromLat, _ := from.LonLat()
	toLon, toLat, _ := to.LonLat()
	return models.NetworkEdge{
		"from":     []float64{fromLon, fromLat},
		"to":       []float64{toLon, toLat},
		"strength": f.rng.Float64(),
	}
}
