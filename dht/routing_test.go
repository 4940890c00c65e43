package dht

import (
	"testing"
	"time"

	"github.com/da2ce7/bittorrent-infrastructure-project/wire"
)

func idWith(b byte) wire.Hash20 {
	var h wire.Hash20
	h[19] = b
	return h
}

func TestRoutingTableInsertAndClosest(t *testing.T) {
	self := Node{ID: idWith(0)}
	rt := NewRoutingTable(self, 8)

	for i := byte(1); i <= 5; i++ {
		rt.Insert(Node{ID: idWith(i), Endpoint: wire.Endpoint{IP: []byte{127, 0, 0, 1}, Port: 6000 + uint16(i)}}, nil)
	}
	if rt.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", rt.Len())
	}

	closest := rt.ClosestTo(2, idWith(1))
	if len(closest) != 2 {
		t.Fatalf("ClosestTo returned %d nodes, want 2", len(closest))
	}
	if closest[0].ID != idWith(1) {
		t.Fatalf("closest[0] = %v, want exact match idWith(1)", closest[0].ID)
	}
}

func TestRoutingTableMarkSeenReordersBucket(t *testing.T) {
	self := Node{ID: idWith(0)}
	rt := NewRoutingTable(self, 2)

	// idWith(2) and idWith(3) share a bucket, so MarkSeen has to reorder it.
	a := idWith(2)
	b := idWith(3)
	rt.Insert(Node{ID: a}, nil)
	rt.Insert(Node{ID: b}, nil)

	rt.MarkSeen(a)

	idx := rt.bucketFor(a)
	bucket := rt.buckets[idx]
	if len(bucket) == 0 || bucket[len(bucket)-1].ID != a {
		t.Fatalf("MarkSeen should move a to the most-recently-seen end")
	}
}

func TestRoutingTableEvictionCallback(t *testing.T) {
	self := Node{ID: idWith(0)}
	rt := NewRoutingTable(self, 1)

	// idWith(2) and idWith(3) share the same highest differing bit relative
	// to self, so they land in the same bucket.
	first := idWith(2)
	second := idWith(3)
	if rt.bucketFor(first) != rt.bucketFor(second) {
		t.Fatalf("test fixture assumption broken: ids do not share a bucket")
	}

	rt.Insert(Node{ID: first}, nil)

	var evictedID wire.Hash20
	rt.Insert(Node{ID: second, LastSeen: time.Now()}, func(oldest Node) bool {
		evictedID = oldest.ID
		return true
	})

	if evictedID != first {
		t.Fatalf("evict callback should have been offered the full bucket's oldest node")
	}
	if rt.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 after eviction", rt.Len())
	}
	nodes := rt.Nodes()
	if len(nodes) != 1 || nodes[0].ID != second {
		t.Fatalf("expected second to have replaced first, got %+v", nodes)
	}
}

func TestRoutingTableRemove(t *testing.T) {
	self := Node{ID: idWith(0)}
	rt := NewRoutingTable(self, 8)
	rt.Insert(Node{ID: idWith(1)}, nil)
	rt.Remove(idWith(1))
	if rt.Len() != 0 {
		t.Fatalf("Remove should delete the node")
	}
}

func TestDistanceSymmetric(t *testing.T) {
	a := idWith(1)
	b := idWith(2)
	if Distance(a, b).Cmp(Distance(b, a)) != 0 {
		t.Fatalf("Distance should be symmetric")
	}
	if Distance(a, a).Sign() != 0 {
		t.Fatalf("Distance(a, a) should be zero")
	}
}
