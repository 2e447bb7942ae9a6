package location

import (
	_ "embed"
	"fmt"
	"math"
	"medmarket-service/internal/app/contracts"
	"medmarket-service/internal/app/models"
	"medmarket-service/internal/pkg/exceptions"
	"strings"
	"sync"

	"github.com/goccy/go-json"
)

// DefaultToleranceDegrees bounds how far a point may sit from the reference centroid.
const DefaultToleranceDegrees = 0.5

//go:embed data/locations.json
var referenceData []byte

type point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type ward struct {
	Name string `json:"name"`
	point
}

type lga struct {
	Name  string `json:"name"`
	Wards []ward `json:"wards"`
	point
}

type state struct {
	Name string `json:"name"`
	LGAs []lga  `json:"lgas"`
	point
}

type dataset struct {
	States []state `json:"states"`
}

type locationService struct {
	states    []state
	tolerance float64
}

var (
	locationServiceInstance contracts.LocationService
	onceLocationService     sync.Once
)

func NewLocationService() (contracts.LocationService, error) {
	var err error
	onceLocationService.Do(func() {
		var svc *locationService
		svc, err = newLocationService(referenceData, DefaultToleranceDegrees)
		if err == nil {
			locationServiceInstance = svc
		}
	})
	return locationServiceInstance, err
}

func newLocationService(raw []byte, tolerance float64) (*locationService, error) {
	var ds dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return nil, err
	}
	return &locationService{states: ds.States, tolerance: tolerance}, nil
}

// ValidateLocation checks the hierarchy and that the point lies near the ward centroid, or the
// LGA centroid when no ward is given. Canonical names are returned.
func (s *locationService) ValidateLocation(stateName, lgaName, wardName string, latitude, longitude float64) (*models.Location, error) {
	st := s.findState(stateName)
	if st == nil {
		return nil, exceptions.ErrInvalidLocation(fmt.Errorf("unknown state %q", stateName))
	}

	lg := st.findLGA(lgaName)
	if lg == nil {
		return nil, exceptions.ErrInvalidLocation(fmt.Errorf("unknown lga %q in state %s", lgaName, st.Name))
	}

	result := &models.Location{
		State:     st.Name,
		LGA:       lg.Name,
		Latitude:  latitude,
		Longitude: longitude,
	}
	reference := lg.point

	if strings.TrimSpace(wardName) != "" {
		wd := lg.findWard(wardName)
		if wd == nil {
			return nil, exceptions.ErrInvalidLocation(fmt.Errorf("unknown ward %q in lga %s", wardName, lg.Name))
		}
		result.Ward = wd.Name
		reference = wd.point
	}

	if !s.withinTolerance(reference, latitude, longitude) {
		return nil, exceptions.ErrInvalidLocation(fmt.Errorf("coordinates (%f, %f) too far from %s", latitude, longitude, lg.Name))
	}
	return result, nil
}

func (s *locationService) withinTolerance(ref point, latitude, longitude float64) bool {
	return math.Abs(ref.Latitude-latitude) <= s.tolerance && math.Abs(ref.Longitude-longitude) <= s.tolerance
}

func (s *locationService) findState(name string) *state {
	key := normalizeName(name)
	for i := range s.states {
		if normalizeName(s.states[i].Name) == key {
			return &s.states[i]
		}
	}
	return nil
}

func (st *state) findLGA(name string) *lga {
	key := normalizeName(name)
	for i := range st.LGAs {
		if normalizeName(st.LGAs[i].Name) == key {
			return &st.LGAs[i]
		}
	}
	return nil
}

func (l *lga) findWard(name string) *ward {
	key := normalizeName(name)
	for i := range l.Wards {
		if normalizeName(l.Wards[i].Name) == key {
			return &l.Wards[i]
		}
	}
	return nil
}

// normalizeName lowercases and drops spaces, dashes and underscores.
func normalizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_', '\t':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(name)))
}
