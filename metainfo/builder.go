// Package metainfo assembles a .torrent file's bencoded dictionary from a
// file list, a piece-length policy, and an externally supplied stream of
// piece hashes (spec §4.7). The builder never hashes data itself.
package metainfo

import (
	"github.com/da2ce7/bittorrent-infrastructure-project/bencode"
)

// FileEntry is one file within a (possibly multi-file) torrent. Path is the
// list of path components relative to the torrent's name; a single-file
// torrent uses one FileEntry with an empty Path.
type FileEntry struct {
	Length int64
	Path   []string
}

// Builder accumulates the inputs to a .torrent file before Build assembles
// the final bencoded dictionary.
type Builder struct {
	Announce     string
	AnnounceList [][]string
	CreationDate int64
	Comment      string
	CreatedBy    string
	Name         string
	Files        []FileEntry
	Private      bool
	PrivateSet   bool
}

// TotalLength returns the sum of every FileEntry's Length.
func (b *Builder) TotalLength() int64 {
	var total int64
	for _, f := range b.Files {
		total += f.Length
	}
	return total
}

// Build assembles the .torrent dictionary. pieceHashes is the externally
// produced stream of 20-byte SHA-1 digests, one per piece, in order; its
// length must equal ceil(TotalLength() / pieceLength) or Build returns
// PieceCountMismatch.
func (b *Builder) Build(pieceLength int64, pieceHashes [][20]byte) ([]byte, error) {
	if len(b.Files) == 0 {
		return nil, &EmptyFileList{}
	}

	total := b.TotalLength()
	wantPieces := int(ceilDiv(total, pieceLength))
	if len(pieceHashes) != wantPieces {
		return nil, &PieceCountMismatch{Want: wantPieces, Got: len(pieceHashes)}
	}

	pieces := make([]byte, 0, 20*len(pieceHashes))
	for _, h := range pieceHashes {
		pieces = append(pieces, h[:]...)
	}

	info := bencode.NewDict().
		SetInt("piece length", pieceLength).
		SetBytes("pieces", pieces).
		SetString("name", b.Name)

	if len(b.Files) == 1 && len(b.Files[0].Path) == 0 {
		info.SetInt("length", b.Files[0].Length)
	} else {
		items := make([]bencode.Builder, 0, len(b.Files))
		for _, f := range b.Files {
			pathItems := make([]bencode.Builder, 0, len(f.Path))
			for _, c := range f.Path {
				pathItems = append(pathItems, bencode.NewString(c))
			}
			items = append(items, bencode.NewDict().
				SetInt("length", f.Length).
				Set("path", bencode.NewList(pathItems...)).
				Build())
		}
		info.Set("files", bencode.NewList(items...))
	}

	if b.PrivateSet {
		private := int64(0)
		if b.Private {
			private = 1
		}
		info.SetInt("private", private)
	}

	root := bencode.NewDict().
		SetString("announce", b.Announce).
		Set("info", info.Build())

	if len(b.AnnounceList) > 0 {
		tiers := make([]bencode.Builder, 0, len(b.AnnounceList))
		for _, tier := range b.AnnounceList {
			urls := make([]bencode.Builder, 0, len(tier))
			for _, u := range tier {
				urls = append(urls, bencode.NewString(u))
			}
			tiers = append(tiers, bencode.NewList(urls...))
		}
		root.Set("announce-list", bencode.NewList(tiers...))
	}
	if b.CreationDate != 0 {
		root.SetInt("creation date", b.CreationDate)
	}
	if b.Comment != "" {
		root.SetString("comment", b.Comment)
	}
	if b.CreatedBy != "" {
		root.SetString("created by", b.CreatedBy)
	}

	return root.Build().Marshal(), nil
}
