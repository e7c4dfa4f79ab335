// Package catalog - Selectable service options
// Lists what a cart may reference: regions, instance sizes, storage classes, engines.
// Entries are derived from the active rate table so the two never disagree.
package catalog

import "sort"

// Group classifies catalog entries
type Group string

const (
	GroupRegion       Group = "region"
	GroupInstance     Group = "instanceType"
	GroupStorageClass Group = "storageClass"
	GroupRDSInstance  Group = "rdsInstanceType"
	GroupEngine       Group = "engine"
	GroupOS           Group = "os"
	GroupPricingType  Group = "pricingType"
)

// Groups lists every group in display order
var Groups = []Group{
	GroupRegion,
	GroupInstance,
	GroupStorageClass,
	GroupRDSInstance,
	GroupEngine,
	GroupOS,
	GroupPricingType,
}

// Entry is one selectable option
type Entry struct {
	Group       Group   `json:"-"`
	Value       string  `json:"value"`
	Label       string  `json:"label"`
	Description string  `json:"description,omitempty"`
	VCPU        int     `json:"vcpu,omitempty"`
	Memory      float64 `json:"memory,omitempty"`
	Multiplier  float64 `json:"multiplier,omitempty"`
}

// Catalog is an index of entries by group and value
type Catalog struct {
	entries map[string]*Entry
	order   map[Group][]string
}

// NewCatalog creates an empty catalog
func NewCatalog() *Catalog {
	return &Catalog{
		entries: make(map[string]*Entry),
		order:   make(map[Group][]string),
	}
}

func key(g Group, value string) string {
	return string(g) + ":" + value
}

// Register adds or replaces an entry
func (c *Catalog) Register(entry Entry) {
	k := key(entry.Group, entry.Value)
	if _, exists := c.entries[k]; !exists {
		c.order[entry.Group] = append(c.order[entry.Group], entry.Value)
	}
	c.entries[k] = &entry
}

// Get returns an entry
func (c *Catalog) Get(g Group, value string) (*Entry, bool) {
	entry, ok := c.entries[key(g, value)]
	return entry, ok
}

// Has reports whether value is a known option of g
func (c *Catalog) Has(g Group, value string) bool {
	_, ok := c.Get(g, value)
	return ok
}

// List returns the entries of a group sorted by value
func (c *Catalog) List(g Group) []Entry {
	values := append([]string(nil), c.order[g]...)
	sort.Strings(values)

	result := make([]Entry, 0, len(values))
	for _, v := range values {
		result = append(result, *c.entries[key(g, v)])
	}
	return result
}

// All returns every group keyed by its name
func (c *Catalog) All() map[Group][]Entry {
	out := make(map[Group][]Entry, len(Groups))
	for _, g := range Groups {
		out[g] = c.List(g)
	}
	return out
}

// Stats returns catalog statistics
func (c *Catalog) Stats() Stats {
	stats := Stats{ByGroup: make(map[Group]int)}
	for _, entry := range c.entries {
		stats.Total++
		stats.ByGroup[entry.Group]++
	}
	return stats
}

// Stats holds catalog statistics
type Stats struct {
	Total   int
	ByGroup map[Group]int
}
