package model

import (
	"bytes"
	"encoding/json"
)

// Line items and shipping options were historically written by some clients
// as JSON and by others as a JSON string containing JSON. These adapters
// normalise both shapes at the data-store boundary so core logic only ever
// sees canonical structs. A payload that parses as neither is a validation
// failure, never a silent default.

// ParseLineItems decodes a raw items column into canonical line items.
func ParseLineItems(raw []byte) ([]LineItem, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var items []LineItem
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, nil
	}

	// Double-encoded: a JSON string whose content is the items array.
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return nil, ErrMalformedItems
	}
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return nil, ErrMalformedItems
	}
	return items, nil
}

// ParseShippingOption decodes a raw shipping_option column into the
// canonical snapshot structure.
func ParseShippingOption(raw []byte) (ShippingOption, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ShippingOption{}, nil
	}

	var opt ShippingOption
	if err := json.Unmarshal(raw, &opt); err == nil {
		return opt, nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return ShippingOption{}, ErrMalformedShippingOption
	}
	if err := json.Unmarshal([]byte(text), &opt); err != nil {
		return ShippingOption{}, ErrMalformedShippingOption
	}
	return opt, nil
}
