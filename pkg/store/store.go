package store

import (
	"fmt"
	"sort"
	"sync"
)

// TripleStore is an in-memory RDF triple store with three indexes:
//   - SPO: Subject -> Predicate -> Object (labels and types of a resource)
//   - POS: Predicate -> Object -> Subject (instances of a class, values applicable to a property)
//   - OSP: Object -> Subject -> Predicate (everything pointing at a resource)
//
// Every lookup returns triples in insertion order, so the order in which an
// ontology declares its values is the order in which extraction sees them.
type TripleStore struct {
	mu sync.RWMutex

	spo map[string]map[string]map[string]bool
	pos map[string]map[string]map[string]bool
	osp map[string]map[string]map[string]bool

	// insertion sequence of every stored triple
	order map[Triple]uint64
	next  uint64
}

// NewTripleStore creates an empty store.
func NewTripleStore() *TripleStore {
	return &TripleStore{
		spo:   make(map[string]map[string]map[string]bool),
		pos:   make(map[string]map[string]map[string]bool),
		osp:   make(map[string]map[string]map[string]bool),
		order: make(map[Triple]uint64),
	}
}

// Add inserts a triple. Adding an existing triple is a no-op and keeps its
// original position.
func (ts *TripleStore) Add(subject, predicate, object string) error {
	if subject == "" || predicate == "" || object == "" {
		return fmt.Errorf("triple components cannot be empty")
	}

	ts.mu.Lock()
	defer ts.mu.Unlock()

	ts.addUnsafe(subject, predicate, object)
	return nil
}

// BulkAdd inserts triples under a single write lock. Invalid triples are
// skipped; the number of skipped triples is reported as an error.
func (ts *TripleStore) BulkAdd(triples []Triple) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	skipped := 0
	for _, triple := range triples {
		if !triple.IsValid() {
			skipped++
			continue
		}
		ts.addUnsafe(triple.Subject, triple.Predicate, triple.Object)
	}

	if skipped > 0 {
		return fmt.Errorf("skipped %d triples with empty components", skipped)
	}
	return nil
}

// Find returns triples matching the pattern in insertion order. Use "" as a
// wildcard.
func (ts *TripleStore) Find(subject, predicate, object string) []Triple {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	return ts.findUnsafe(subject, predicate, object)
}

// FindPattern queries using a TriplePattern; empty components are wildcards.
func (ts *TripleStore) FindPattern(pattern TriplePattern) []Triple {
	return ts.Find(pattern.Subject, pattern.Predicate, pattern.Object)
}

// Objects returns the objects of subject/predicate in insertion order.
func (ts *TripleStore) Objects(subject, predicate string) []string {
	triples := ts.Find(subject, predicate, "")
	objects := make([]string, 0, len(triples))
	for _, triple := range triples {
		objects = append(objects, triple.Object)
	}
	return objects
}

// SubjectsOf returns the subjects of predicate/object in insertion order.
func (ts *TripleStore) SubjectsOf(predicate, object string) []string {
	triples := ts.Find("", predicate, object)
	subjects := make([]string, 0, len(triples))
	for _, triple := range triples {
		subjects = append(subjects, triple.Subject)
	}
	return subjects
}

// Count returns the total number of triples in the store.
func (ts *TripleStore) Count() int {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return len(ts.order)
}

// Subjects returns all unique subjects in order of first appearance.
func (ts *TripleStore) Subjects() []string {
	seen := make(map[string]bool)
	var subjects []string
	for _, triple := range ts.All() {
		if !seen[triple.Subject] {
			seen[triple.Subject] = true
			subjects = append(subjects, triple.Subject)
		}
	}
	return subjects
}

// String returns a short summary of the store.
func (ts *TripleStore) String() string {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	return fmt.Sprintf("TripleStore{triples: %d, subjects: %d, predicates: %d, objects: %d}",
		len(ts.order), len(ts.spo), len(ts.pos), len(ts.osp))
}

// All returns all triples in insertion order.
func (ts *TripleStore) All() []Triple {
	return ts.Find("", "", "")
}

func (ts *TripleStore) addUnsafe(subject, predicate, object string) {
	if ts.existsUnsafe(subject, predicate, object) {
		return
	}

	if ts.spo[subject] == nil {
		ts.spo[subject] = make(map[string]map[string]bool)
	}
	if ts.spo[subject][predicate] == nil {
		ts.spo[subject][predicate] = make(map[string]bool)
	}
	ts.spo[subject][predicate][object] = true

	if ts.pos[predicate] == nil {
		ts.pos[predicate] = make(map[string]map[string]bool)
	}
	if ts.pos[predicate][object] == nil {
		ts.pos[predicate][object] = make(map[string]bool)
	}
	ts.pos[predicate][object][subject] = true

	if ts.osp[object] == nil {
		ts.osp[object] = make(map[string]map[string]bool)
	}
	if ts.osp[object][subject] == nil {
		ts.osp[object][subject] = make(map[string]bool)
	}
	ts.osp[object][subject][predicate] = true

	ts.order[Triple{Subject: subject, Predicate: predicate, Object: object}] = ts.next
	ts.next++
}

func (ts *TripleStore) existsUnsafe(subject, predicate, object string) bool {
	if pMap, ok := ts.spo[subject]; ok {
		if oMap, ok := pMap[predicate]; ok {
			return oMap[object]
		}
	}
	return false
}

// findUnsafe picks the most specific index for the bound components and sorts
// the matches by insertion sequence.
func (ts *TripleStore) findUnsafe(subject, predicate, object string) []Triple {
	var results []Triple

	switch {
	case subject == "" && predicate == "" && object == "":
		results = make([]Triple, 0, len(ts.order))
		for triple := range ts.order {
			results = append(results, triple)
		}

	case subject != "":
		for p, oMap := range ts.spo[subject] {
			if predicate != "" && p != predicate {
				continue
			}
			for o := range oMap {
				if object == "" || o == object {
					results = append(results, Triple{Subject: subject, Predicate: p, Object: o})
				}
			}
		}

	case predicate != "":
		for o, sMap := range ts.pos[predicate] {
			if object != "" && o != object {
				continue
			}
			for s := range sMap {
				results = append(results, Triple{Subject: s, Predicate: predicate, Object: o})
			}
		}

	default:
		for s, pMap := range ts.osp[object] {
			for p := range pMap {
				results = append(results, Triple{Subject: s, Predicate: p, Object: object})
			}
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return ts.order[results[i]] < ts.order[results[j]]
	})
	return results
}
