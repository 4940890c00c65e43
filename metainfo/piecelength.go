package metainfo

// PieceLengthMode selects one of the builder's piece-length heuristics
// (spec §6/§4.7).
type PieceLengthMode int

const (
	// OptBalanced targets at most 40 000 bytes of piece hashes (2 000
	// pieces) unless the 16 MiB cap applies, minimum 512 KiB.
	OptBalanced PieceLengthMode = iota
	// OptFileSize targets at most 20 000 bytes of piece hashes (1 000
	// pieces) unless the 16 MiB cap applies, minimum 1 MiB.
	OptFileSize
	// OptTransfer targets at most 60 000 bytes of piece hashes (3 000
	// pieces) unless the 16 MiB cap applies, minimum 1 KiB.
	OptTransfer
	// Custom uses an explicit, unclamped piece length.
	Custom
)

const (
	kib = 1024
	mib = 1024 * kib

	commonPieceLengthCap = 16 * mib
)

type pieceLengthBounds struct {
	maxHashes int64
	min       int64
}

var pieceLengthPolicies = map[PieceLengthMode]pieceLengthBounds{
	OptBalanced: {maxHashes: 40000, min: 512 * kib},
	OptFileSize: {maxHashes: 20000, min: 1 * mib},
	OptTransfer: {maxHashes: 60000, min: 1 * kib},
}

// PieceLengthPolicy selects how Build computes the torrent's piece length.
// CustomLength is only consulted when Mode == Custom.
type PieceLengthPolicy struct {
	Mode         PieceLengthMode
	CustomLength int64
}

// ResolvePieceLength computes the piece length for a torrent of
// totalLength bytes under policy (spec §6).
func ResolvePieceLength(totalLength int64, policy PieceLengthPolicy) int64 {
	if policy.Mode == Custom {
		return policy.CustomLength
	}

	bounds := pieceLengthPolicies[policy.Mode]
	// maxHashes is a budget of piece-hash bytes; dividing it by the 20-byte
	// digest size gives the largest piece count, which is the divisor (spec §8
	// scenario 6: a 4 GiB file under OptBalanced divides by 2000 = 40000/20).
	divisor := bounds.maxHashes / 20
	if divisor <= 0 {
		divisor = 1
	}

	raw := ceilDiv(totalLength, divisor)
	length := nextPowerOfTwo(raw)

	if length < bounds.min {
		length = bounds.min
	}
	if length > commonPieceLengthCap {
		length = commonPieceLengthCap
	}
	return length
}

func ceilDiv(a, b int64) int64 {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}

func nextPowerOfTwo(n int64) int64 {
	if n <= 1 {
		return 1
	}
	p := int64(1)
	for p < n {
		p <<= 1
	}
	return p
}
