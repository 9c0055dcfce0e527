package storage

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/pixil98/go-errors"
)

const assetVersion = 1

var identifierPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]*$`)

type ValidatingSpec interface {
	Validate() error
}

type Identifier string

func (id Identifier) String() string {
	return string(id)
}

// ValidIdentifier reports whether s can be used as a record key.
func ValidIdentifier(s string) bool {
	return s != "" && identifierPattern.MatchString(s)
}

// Asset is the on-disk envelope shared by every store backend.
type Asset[T ValidatingSpec] struct {
	Version    uint       `json:"version"`
	Identifier Identifier `json:"id"`
	Spec       T          `json:"spec"`
}

func (c *Asset[T]) Id() Identifier {
	return c.Identifier
}

func (a *Asset[T]) Validate() error {
	el := errors.NewErrorList()

	if a.Version == 0 {
		el.Add(fmt.Errorf("version must be set"))
	}

	if a.Identifier == "" {
		el.Add(fmt.Errorf("id must be set"))
	}

	if !identifierPattern.MatchString(a.Identifier.String()) {
		el.Add(fmt.Errorf("id must be alphanumeric"))
	}

	el.Add(a.Spec.Validate())

	return el.Err()
}

func encodeAsset[T ValidatingSpec](id string, v T) ([]byte, error) {
	asset := &Asset[T]{
		Version:    assetVersion,
		Identifier: Identifier(id),
		Spec:       v,
	}

	err := asset.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating %s: %w", id, err)
	}

	data, err := json.Marshal(asset)
	if err != nil {
		return nil, fmt.Errorf("marshalling json: %w", err)
	}

	return data, nil
}

func decodeAsset[T ValidatingSpec](data []byte) (*Asset[T], error) {
	asset := &Asset[T]{}
	err := json.Unmarshal(data, asset)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling asset: %w", err)
	}

	return asset, nil
}
