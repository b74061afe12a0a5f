// Package scenario runs scripted store/get sessions against a key-value store
// and checks the values and call transcripts they produce.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: store_and_read
//	description: "Store two values and read them back"
//	flush: true
//	keys: [key-0001, key-0002]
//	steps:
//	  - store: { id: greeting, value: hello }
//	  - store: { id: answer, value: "42", type: int }
//	  - get: { ref: greeting, as: text, expect: hello }
//	  - get: { ref: Cache.Store, as: int, expect: "2" }
//	replay: [Cache.Store]
//
// A get step's ref names the id of an earlier store step; any other ref is
// used as a literal key, which makes counters readable too.
//
// # Deterministic Runs
//
// When keys is set, stored values receive those keys in order instead of
// generated UUIDs, so transcripts are byte-identical across runs and can be
// compared against golden files with RunWithGolden.
package scenario
