package metainfo

import (
	"testing"

	"github.com/da2ce7/bittorrent-infrastructure-project/bencode"
)

func TestResolvePieceLengthOptBalanced4GiB(t *testing.T) {
	const fourGiB = 4 * 1024 * 1024 * 1024
	got := ResolvePieceLength(fourGiB, PieceLengthPolicy{Mode: OptBalanced})
	want := int64(4 * mib)
	if got != want {
		t.Fatalf("ResolvePieceLength() = %d, want %d", got, want)
	}
}

func TestResolvePieceLengthClampsToMinimum(t *testing.T) {
	got := ResolvePieceLength(1, PieceLengthPolicy{Mode: OptFileSize})
	if got != 1*mib {
		t.Fatalf("ResolvePieceLength(tiny file) = %d, want min 1 MiB", got)
	}
}

func TestResolvePieceLengthClampsToCommonCap(t *testing.T) {
	const huge = 1 << 40 // 1 TiB
	got := ResolvePieceLength(huge, PieceLengthPolicy{Mode: OptTransfer})
	if got != commonPieceLengthCap {
		t.Fatalf("ResolvePieceLength(huge) = %d, want cap %d", got, commonPieceLengthCap)
	}
}

func TestResolvePieceLengthCustomVerbatim(t *testing.T) {
	got := ResolvePieceLength(123, PieceLengthPolicy{Mode: Custom, CustomLength: 777})
	if got != 777 {
		t.Fatalf("ResolvePieceLength(Custom) = %d, want 777 verbatim", got)
	}
}

func TestBuildSingleFile(t *testing.T) {
	b := &Builder{
		Announce: "udp://tracker.example:6969/announce",
		Name:     "example.iso",
		Files:    []FileEntry{{Length: 40}},
	}
	pieceLength := int64(20)
	hashes := [][20]byte{{1}, {2}}

	raw, err := b.Build(pieceLength, hashes)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	v, _, err := bencode.Parse(raw)
	if err != nil {
		t.Fatalf("re-parsing built torrent: %v", err)
	}
	announce, err := v.GetBytes("announce")
	if err != nil || string(announce) != b.Announce {
		t.Fatalf("announce mismatch: %v, err=%v", announce, err)
	}
	info, err := v.GetDict("info")
	if err != nil {
		t.Fatalf("GetDict(info): %v", err)
	}
	length, err := info.GetInt("length")
	if err != nil || length != 40 {
		t.Fatalf("info.length = %d, err=%v", length, err)
	}
	pieces, err := info.GetBytes("pieces")
	if err != nil || len(pieces) != 40 {
		t.Fatalf("info.pieces has wrong length: %d, err=%v", len(pieces), err)
	}
}

func TestBuildMultiFile(t *testing.T) {
	b := &Builder{
		Announce: "udp://tracker.example:6969/announce",
		Name:     "example",
		Files: []FileEntry{
			{Length: 10, Path: []string{"a.txt"}},
			{Length: 10, Path: []string{"sub", "b.txt"}},
		},
	}
	hashes := [][20]byte{{1}}
	raw, err := b.Build(20, hashes)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	v, _, err := bencode.Parse(raw)
	if err != nil {
		t.Fatalf("re-parsing: %v", err)
	}
	info, err := v.GetDict("info")
	if err != nil {
		t.Fatalf("GetDict(info): %v", err)
	}
	files, err := info.GetList("files")
	if err != nil || len(files) != 2 {
		t.Fatalf("info.files: %v, err=%v", files, err)
	}
}

func TestBuildRejectsWrongPieceCount(t *testing.T) {
	b := &Builder{Announce: "x", Name: "y", Files: []FileEntry{{Length: 100}}}
	_, err := b.Build(20, [][20]byte{{1}})
	if _, ok := err.(*PieceCountMismatch); !ok {
		t.Fatalf("expected PieceCountMismatch, got %v", err)
	}
}

func TestBuildRejectsEmptyFileList(t *testing.T) {
	b := &Builder{Announce: "x", Name: "y"}
	_, err := b.Build(20, nil)
	if _, ok := err.(*EmptyFileList); !ok {
		t.Fatalf("expected EmptyFileList, got %v", err)
	}
}
