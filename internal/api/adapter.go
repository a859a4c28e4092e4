package api

import (
	"encoding/json"

	"github.com/Otwaboy/Agaspay-Capstone-sub004/internal/models"
	appErrors "github.com/Otwaboy/Agaspay-Capstone-sub004/pkg/errors"
)

// ResultSet is the canonical list shape every endpoint response is adapted
// into before it reaches the query cache. Downstream code never sees the
// per-endpoint envelope keys.
type ResultSet[T any] struct {
	Items []T                `json:"items"`
	Meta  *models.Pagination `json:"meta,omitempty"`
}

// idAliases covers the historical id field spellings found across endpoints.
// Canonicalization happens here and nowhere else.
var idAliases = []string{"_id", "connection_id", "water_connection_id"}

// decodeList adapts a list response into a ResultSet. The collection array is
// expected under envelopeKey, with "data" as the generic fallback some
// endpoints use. Pagination metadata is picked up when present.
func decodeList[T any](raw []byte, envelopeKey string) (ResultSet[T], error) {
	var rs ResultSet[T]

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return rs, appErrors.Wrap(err, appErrors.ErrServer.Code, appErrors.ErrServer.Status, "unexpected response shape")
	}

	itemsRaw, ok := envelope[envelopeKey]
	if !ok {
		itemsRaw, ok = envelope["data"]
	}
	if !ok {
		return rs, appErrors.Clone(appErrors.ErrServer, "response missing collection key "+envelopeKey)
	}

	var rawItems []json.RawMessage
	if err := json.Unmarshal(itemsRaw, &rawItems); err != nil {
		return rs, appErrors.Wrap(err, appErrors.ErrServer.Code, appErrors.ErrServer.Status, "collection is not an array")
	}

	rs.Items = make([]T, 0, len(rawItems))
	for _, rawItem := range rawItems {
		item, err := decodeItem[T](rawItem)
		if err != nil {
			return ResultSet[T]{}, err
		}
		rs.Items = append(rs.Items, item)
	}

	if metaRaw, ok := envelope["pagination"]; ok {
		meta := &models.Pagination{}
		if err := json.Unmarshal(metaRaw, meta); err == nil {
			rs.Meta = meta
		}
	}

	return rs, nil
}

// decodeItem decodes one record, canonicalizing its identifier first.
func decodeItem[T any](raw json.RawMessage) (T, error) {
	var zero T

	normalized, err := canonicalizeID(raw)
	if err != nil {
		return zero, err
	}

	var item T
	if err := json.Unmarshal(normalized, &item); err != nil {
		return zero, appErrors.Wrap(err, appErrors.ErrServer.Code, appErrors.ErrServer.Status, "decode record")
	}
	return item, nil
}

// canonicalizeID copies the first non-empty id alias into "id" when the
// canonical field is absent.
func canonicalizeID(raw json.RawMessage) (json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrServer.Code, appErrors.ErrServer.Status, "record is not an object")
	}

	if id, ok := fields["id"]; ok && string(id) != `""` && string(id) != "null" {
		return raw, nil
	}

	for _, alias := range idAliases {
		if id, ok := fields[alias]; ok && string(id) != `""` && string(id) != "null" {
			fields["id"] = id
			return json.Marshal(fields)
		}
	}
	return raw, nil
}

// restorer builds a query.Restorer-compatible decoder for a snapshot of a
// typed ResultSet.
func restorer[T any](raw []byte) (interface{}, error) {
	var rs ResultSet[T]
	if err := json.Unmarshal(raw, &rs); err != nil {
		return nil, err
	}
	return rs, nil
}
