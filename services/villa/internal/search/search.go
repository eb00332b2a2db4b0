package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/magicvilla/villa-booking/pkg/logging"
	"github.com/magicvilla/villa-booking/services/villa/internal/models"
)

// Index mirrors villas into Elasticsearch for fuzzy name/details search. All
// writes are best-effort: the relational store stays the source of truth and
// an ES outage must not fail a villa mutation.
type Index struct {
	ES   *elasticsearch.Client
	Name string
}

func NewIndex(es *elasticsearch.Client, name string) *Index {
	return &Index{ES: es, Name: name}
}

func (i *Index) Enabled() bool { return i != nil && i.ES != nil }

func (i *Index) IndexVilla(ctx context.Context, villa *models.Villa) {
	if !i.Enabled() {
		return
	}
	l := logging.FromContext(ctx)

	body, err := json.Marshal(villa)
	if err != nil {
		l.Error("villa_index_failed", "villa_id", villa.ID, "error", err)
		return
	}
	res, err := i.ES.Index(
		i.Name,
		bytes.NewReader(body),
		i.ES.Index.WithContext(ctx),
		i.ES.Index.WithDocumentID(strconv.FormatUint(uint64(villa.ID), 10)),
	)
	if err != nil {
		l.Error("villa_index_failed", "villa_id", villa.ID, "error", err)
		return
	}
	defer res.Body.Close()
	if res.IsError() {
		l.Error("villa_index_failed", "villa_id", villa.ID, "status", res.Status())
	}
}

func (i *Index) DeleteVilla(ctx context.Context, id uint) {
	if !i.Enabled() {
		return
	}
	l := logging.FromContext(ctx)

	res, err := i.ES.Delete(
		i.Name,
		strconv.FormatUint(uint64(id), 10),
		i.ES.Delete.WithContext(ctx),
	)
	if err != nil {
		l.Error("villa_index_delete_failed", "villa_id", id, "error", err)
		return
	}
	res.Body.Close()
}

func (i *Index) Search(ctx context.Context, query string, from, size int) (int64, []models.Villa, error) {
	if !i.Enabled() {
		return 0, nil, fmt.Errorf("search index not configured")
	}

	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "details", "amenity"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, err
	}

	res, err := i.ES.Search(
		i.ES.Search.WithContext(ctx),
		i.ES.Search.WithIndex(i.Name),
		i.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search error: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Villa `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	villas := make([]models.Villa, len(r.Hits.Hits))
	for n, hit := range r.Hits.Hits {
		villas[n] = hit.Source
	}
	return r.Hits.Total.Value, villas, nil
}
