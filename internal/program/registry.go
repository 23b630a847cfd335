package program

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrProgramExists   = errors.New("program already exists")
	ErrProgramNil      = errors.New("program is nil")
	ErrInvalidMetadata = errors.New("invalid program metadata")
	ErrInvalidArgs     = errors.New("invalid program args")
)

// Registry stores programs by stable identifier. Registration happens
// during bootstrap; reads after that need no locking.
type Registry struct {
	items map[string]Program
}

func NewRegistry() *Registry {
	return &Registry{items: make(map[string]Program)}
}

// ValidateMetadata checks required metadata fields and id format.
func ValidateMetadata(meta Metadata) error {
	id := strings.TrimSpace(meta.ID)
	name := strings.TrimSpace(meta.Name)
	desc := strings.TrimSpace(meta.Description)
	if id == "" || name == "" || desc == "" {
		return fmt.Errorf("%w: id, name, and description are required", ErrInvalidMetadata)
	}
	if !isValidID(id) {
		return fmt.Errorf("%w: invalid id format %q", ErrInvalidMetadata, id)
	}
	return nil
}

// Register adds a program to the registry.
func (r *Registry) Register(prog Program) error {
	if prog == nil {
		return ErrProgramNil
	}

	meta := prog.Metadata()
	if err := ValidateMetadata(meta); err != nil {
		return err
	}

	if _, ok := r.items[meta.ID]; ok {
		return ErrProgramExists
	}
	r.items[meta.ID] = prog
	return nil
}

// Resolve returns a program by id.
func (r *Registry) Resolve(id string) (Program, bool) {
	prog, ok := r.items[id]
	return prog, ok
}

// ListMetadata returns deterministic metadata ordering by id.
func (r *Registry) ListMetadata() []Metadata {
	list := make([]Metadata, 0, len(r.items))
	for _, prog := range r.items {
		list = append(list, prog.Metadata())
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ID < list[j].ID
	})
	return list
}

func isValidID(id string) bool {
	if id == "" {
		return false
	}
	lastSep := false
	for i := 0; i < len(id); i++ {
		c := id[i]
		isLower := c >= 'a' && c <= 'z'
		isDigit := c >= '0' && c <= '9'
		isSep := c == '.' || c == '-' || c == '_'
		if !(isLower || isDigit || isSep) {
			return false
		}
		if i == 0 || i == len(id)-1 {
			if isSep {
				return false
			}
		}
		if isSep && lastSep {
			return false
		}
		lastSep = isSep
	}
	return true
}
