/*
 * Capstan - Schema-driven codecs for smart-contract program data
 *
 * Copyright Onsol Labs
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package borsh

import (
	"bytes"
	"sort"
)

// encodedEntry is one dictionary entry or set element, already encoded.
// For dictionary entries, key holds the encoded key and data the full
// key-value encoding. For set elements, key and data are the same bytes.
type encodedEntry struct {
	key  []byte
	data []byte
}

// bytewiseEntrySorter sorts encoded entries in ascending lexicographic
// order of their key bytes, compared as unsigned bytes. The host-side
// order of dictionary pairs and set elements never reaches the wire.
type bytewiseEntrySorter []encodedEntry

var _ sort.Interface = bytewiseEntrySorter(nil)

func (x bytewiseEntrySorter) Len() int {
	return len(x)
}

func (x bytewiseEntrySorter) Swap(i, j int) {
	x[i], x[j] = x[j], x[i]
}

func (x bytewiseEntrySorter) Less(i, j int) bool {
	return bytes.Compare(x[i].key, x[j].key) < 0
}

// duplicateKeyIndex returns the index of the first entry whose key bytes
// repeat the previous entry's key bytes, or -1 if all keys are distinct.
// The entries must already be sorted.
func duplicateKeyIndex(entries []encodedEntry) int {
	for i := 1; i < len(entries); i++ {
		if bytes.Equal(entries[i-1].key, entries[i].key) {
			return i
		}
	}
	return -1
}
