package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

// MarketNode is the node whose subtree holds all store data.
const MarketNode = "Market"

// ErrDataUnavailable is returned when the dataset cannot be read or parsed.
var ErrDataUnavailable = errors.New("store dataset unavailable")

// LoadRaw reads and parses the dataset at path.
func LoadRaw(path string) (RawDataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading dataset: %v", ErrDataUnavailable, err)
	}

	var raw RawDataset
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: parsing dataset %s: %v", ErrDataUnavailable, path, err)
	}

	return raw, nil
}

// FindNode returns the first node in raw named nodeType.
func FindNode(raw RawDataset, nodeType string) (*RawNode, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	for i := range raw[0].Nodes {
		if raw[0].Nodes[i].Name == nodeType {
			return &raw[0].Nodes[i], true
		}
	}
	return nil, false
}

// Flatten produces one Store per child of every subcategory under the node
// named nodeType, in source order. A missing node yields an empty slice.
func Flatten(raw RawDataset, nodeType string) []Store {
	stores := []Store{}

	node, ok := FindNode(raw, nodeType)
	if !ok {
		return stores
	}

	for _, sub := range node.Subcategories {
		for _, child := range sub.Children {
			stores = append(stores, toStore(child, sub.Name))
		}
	}

	return stores
}

// Loader reads and flattens the dataset at most once. The result, including
// any load error, is shared by every caller for the life of the Loader.
type Loader struct {
	path     string
	nodeType string

	once   sync.Once
	stores []Store
	err    error
}

// NewLoader returns a Loader for the Market subtree of the dataset at path.
func NewLoader(path string) *Loader {
	return &Loader{path: path, nodeType: MarketNode}
}

// Path returns the dataset path the Loader reads from.
func (l *Loader) Path() string {
	return l.path
}

// Stores returns the flattened collection, loading it on first call.
// Callers must not modify the returned slice.
func (l *Loader) Stores() ([]Store, error) {
	l.once.Do(func() {
		raw, err := LoadRaw(l.path)
		if err != nil {
			l.err = err
			return
		}
		l.stores = Flatten(raw, l.nodeType)
	})
	return l.stores, l.err
}
