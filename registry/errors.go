package registry

import "fmt"

// InvalidMetainfoExists is raised when registering an info hash that is
// already present in the registry.
type InvalidMetainfoExists struct {
	InfoHash [20]byte
}

func (e *InvalidMetainfoExists) Error() string {
	return fmt.Sprintf("registry: metainfo already exists for info hash %x", e.InfoHash)
}

// InvalidMetainfoNotExists is raised when looking up or removing an info
// hash that is not present in the registry.
type InvalidMetainfoNotExists struct {
	InfoHash [20]byte
}

func (e *InvalidMetainfoNotExists) Error() string {
	return fmt.Sprintf("registry: no metainfo registered for info hash %x", e.InfoHash)
}
