package opc

import (
	"errors"
	"fmt"
)

var (
	// ErrCorruptArchive reports a byte source that is not a readable ZIP archive.
	ErrCorruptArchive = errors.New("opc: corrupt archive")
	// ErrInvalidPackageStructure reports a missing or malformed [Content_Types].xml
	// or relationships part.
	ErrInvalidPackageStructure = errors.New("opc: invalid package structure")
	// ErrDuplicatePart reports two part names that normalize to the same part.
	ErrDuplicatePart = errors.New("opc: duplicate part")
	// ErrUnknownContentType reports a part with neither an Override nor a Default.
	ErrUnknownContentType = errors.New("opc: unknown content type")
	// ErrDanglingRelationship reports an internal relationship whose target part does
	// not exist. It is only raised by Validate and Save.
	ErrDanglingRelationship = errors.New("opc: dangling relationship")
	ErrInvalidPartName      = errors.New("opc: invalid part name")
	ErrPartNotFound         = errors.New("opc: part not found")
	ErrPartTooLarge         = errors.New("opc: part too large")
)

// PackageError adds the operation and part to an error from the package layer.
type PackageError struct {
	Operation string
	Part      string
	Cause     error
}

func (e *PackageError) Error() string {
	if e.Part != "" && e.Cause != nil {
		return fmt.Sprintf("package error during %s of '%s': %v", e.Operation, e.Part, e.Cause)
	} else if e.Part != "" {
		return fmt.Sprintf("package error during %s of '%s'", e.Operation, e.Part)
	} else if e.Cause != nil {
		return fmt.Sprintf("package error during %s: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("package error during %s", e.Operation)
}

func (e *PackageError) Unwrap() error {
	return e.Cause
}

func newPackageError(operation, part string, cause error) error {
	return &PackageError{
		Operation: operation,
		Part:      part,
		Cause:     cause,
	}
}

// DanglingRelationshipError names the relationship whose target is missing.
type DanglingRelationshipError struct {
	Source string
	ID     string
	Target string
}

func (e *DanglingRelationshipError) Error() string {
	return fmt.Sprintf("opc: relationship %s of %s targets missing part %s", e.ID, e.Source, e.Target)
}

func (e *DanglingRelationshipError) Unwrap() error {
	return ErrDanglingRelationship
}

// IsDanglingRelationship reports whether err is or wraps a dangling relationship.
func IsDanglingRelationship(err error) bool {
	return errors.Is(err, ErrDanglingRelationship)
}

// IsStructural reports whether err aborts a whole package operation, as opposed to a
// problem scoped to one part.
func IsStructural(err error) bool {
	return errors.Is(err, ErrCorruptArchive) ||
		errors.Is(err, ErrInvalidPackageStructure) ||
		errors.Is(err, ErrDuplicatePart)
}
