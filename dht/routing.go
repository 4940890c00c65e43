package dht

import (
	"sort"
	"sync"
	"time"

	"github.com/da2ce7/bittorrent-infrastructure-project/wire"
)

// bucketBits is the key size in bits (160 for a 20-byte NodeId), ported
// from the teacher's hashTable.bBits.
const bucketBits = 160

// RoutingTable is a Kademlia routing table of bucketBits buckets, each
// holding up to K contacts sorted from least- to most-recently seen.
// Ported from the teacher's hashTable/shortList (dht/Hash Table.go,
// dht/Node.go), generalized to the fixed 20-byte NodeId of spec §3.
type RoutingTable struct {
	self Node
	k    int

	mu      sync.Mutex
	buckets [bucketBits][]Node
}

// NewRoutingTable returns a routing table centred on self, with k contacts
// per bucket (8 is the conventional Kademlia default).
func NewRoutingTable(self Node, k int) *RoutingTable {
	return &RoutingTable{self: self, k: k}
}

// Self returns the local node this table is centred on.
func (rt *RoutingTable) Self() Node { return rt.self }

func (rt *RoutingTable) bucketFor(id wire.Hash20) int {
	return bucketIndex(bucketBits, rt.self.ID, id)
}

// Insert adds node to the appropriate bucket. If the bucket is full, evict
// reports whether the least-recently-seen occupant should be evicted in
// node's favor (e.g. after a failed ping); if evict is nil the bucket is
// left untouched when full.
func (rt *RoutingTable) Insert(node Node, evict func(oldest Node) bool) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	idx := rt.bucketFor(node.ID)
	bucket := rt.buckets[idx]

	for i, n := range bucket {
		if n.ID == node.ID {
			node.LastSeen = time.Now().UTC()
			bucket = append(bucket[:i], bucket[i+1:]...)
			bucket = append(bucket, node)
			rt.buckets[idx] = bucket
			return
		}
	}

	node.LastSeen = time.Now().UTC()
	if len(bucket) < rt.k {
		rt.buckets[idx] = append(bucket, node)
		return
	}
	if evict != nil && evict(bucket[0]) {
		bucket = append(bucket[1:], node)
		rt.buckets[idx] = bucket
	}
}

// MarkSeen moves id to the most-recently-seen end of its bucket.
func (rt *RoutingTable) MarkSeen(id wire.Hash20) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	idx := rt.bucketFor(id)
	bucket := rt.buckets[idx]
	for i, n := range bucket {
		if n.ID == id {
			n.LastSeen = time.Now().UTC()
			bucket = append(bucket[:i], bucket[i+1:]...)
			rt.buckets[idx] = append(bucket, n)
			return
		}
	}
}

// Remove deletes id from its bucket, if present.
func (rt *RoutingTable) Remove(id wire.Hash20) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	idx := rt.bucketFor(id)
	bucket := rt.buckets[idx]
	for i, n := range bucket {
		if n.ID == id {
			rt.buckets[idx] = append(bucket[:i], bucket[i+1:]...)
			return
		}
	}
}

// ClosestTo returns up to count nodes closest to target by xor distance,
// excluding any id present in ignore.
func (rt *RoutingTable) ClosestTo(count int, target wire.Hash20, ignore ...wire.Hash20) []Node {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	ignored := make(map[wire.Hash20]bool, len(ignore))
	for _, id := range ignore {
		ignored[id] = true
	}

	var candidates []Node
	for _, bucket := range rt.buckets {
		for _, n := range bucket {
			if !ignored[n.ID] {
				candidates = append(candidates, n)
			}
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return Distance(target, candidates[i].ID).Cmp(Distance(target, candidates[j].ID)) < 0
	})

	if len(candidates) > count {
		candidates = candidates[:count]
	}
	return candidates
}

// Len returns the total number of nodes stored across all buckets.
func (rt *RoutingTable) Len() int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	total := 0
	for _, b := range rt.buckets {
		total += len(b)
	}
	return total
}

// Nodes returns every node currently stored in the table.
func (rt *RoutingTable) Nodes() []Node {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	var nodes []Node
	for _, b := range rt.buckets {
		nodes = append(nodes, b...)
	}
	return nodes
}
