package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/space2study/ms-go-api/app/cache"
	"github.com/space2study/ms-go-api/config"
)

type Country struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	ISO2 string `json:"iso2"`
}

type City struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// LocationService proxies the countrystatecity.in API. Responses are cached
// with a TTL; cache failures fall through to the upstream call.
type LocationService struct {
	client *http.Client
	cache  cache.Cache
	cfg    config.LocationConfig
}

func NewLocationService(client *http.Client, cache cache.Cache, cfg config.LocationConfig) *LocationService {
	if client == nil {
		client = http.DefaultClient
	}
	return &LocationService{client: client, cache: cache, cfg: cfg}
}

func (s *LocationService) Countries(ctx context.Context) ([]Country, error) {
	var countries []Country
	if err := s.fetch(ctx, "/countries", "location:countries", &countries); err != nil {
		return nil, err
	}
	return countries, nil
}

func (s *LocationService) Cities(ctx context.Context, iso2 string) ([]City, error) {
	var cities []City
	path := fmt.Sprintf("/countries/%s/cities", iso2)
	if err := s.fetch(ctx, path, "location:cities:"+iso2, &cities); err != nil {
		return nil, err
	}
	return cities, nil
}

func (s *LocationService) fetch(ctx context.Context, path, cacheKey string, out any) error {
	if payload, ok := s.cache.Get(ctx, cacheKey); ok {
		return json.Unmarshal([]byte(payload), out)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.BaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-CSCAPI-KEY", s.cfg.APIKey)

	res, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("location api responded with status %d", res.StatusCode)
	}

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	if err = json.Unmarshal(payload, out); err != nil {
		return err
	}

	if err = s.cache.Set(ctx, cacheKey, string(payload), s.cfg.CacheTTL); err != nil {
		logrus.WithError(err).WithField("key", cacheKey).Warn("failed to cache location payload")
	}

	return nil
}
