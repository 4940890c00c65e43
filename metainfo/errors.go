package metainfo

import "fmt"

// PieceCountMismatch is returned when the supplied piece-hash stream's
// length disagrees with ceil(total_length / piece_length).
type PieceCountMismatch struct {
	Want int
	Got  int
}

func (e *PieceCountMismatch) Error() string {
	return fmt.Sprintf("metainfo: expected %d piece hashes, got %d", e.Want, e.Got)
}

// EmptyFileList is returned when Build is called with no file entries.
type EmptyFileList struct{}

func (e *EmptyFileList) Error() string { return "metainfo: file list is empty" }
