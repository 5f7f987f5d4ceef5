// Package errors provides the error taxonomy shared by the document model,
// the relationship resolver and the package serializer.
//
// Every failure kind has a sentinel value so callers can tell kinds apart
// with errors.Is, and a typed error carrying context for errors.As.
package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tribal2/docx/core/ids"
)

// Sentinel errors for common cases
var (
	// ErrInvalidChildKind indicates a node kind that its parent does not permit
	ErrInvalidChildKind = errors.New("invalid child kind")
	// ErrIncompleteComment indicates a comment finalized without author, date or anchor
	ErrIncompleteComment = errors.New("incomplete comment")
	// ErrDanglingAnchor indicates an annotation whose anchor does not resolve
	ErrDanglingAnchor = errors.New("dangling anchor")
	// ErrDuplicateCommentID indicates a comment id that is already attached
	ErrDuplicateCommentID = errors.New("duplicate comment id")
	// ErrUnknownParent indicates a parent id that is not in the content tree
	ErrUnknownParent = errors.New("unknown parent")
	// ErrSerialization indicates a part that could not be emitted as well-formed XML
	ErrSerialization = errors.New("serialization error")

	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates invalid input or validation failure
	ErrInvalidInput = errors.New("invalid input")
	// ErrAlreadyExists indicates a resource already exists
	ErrAlreadyExists = errors.New("already exists")
	// ErrInternal indicates a broken internal invariant
	ErrInternal = errors.New("internal error")
	// ErrUnsupported indicates an operation the receiver was not opened for
	ErrUnsupported = errors.New("unsupported operation")
)

// InvalidChildKindError reports an append that the parent kind does not allow.
type InvalidChildKindError struct {
	Parent   string // Kind name of the parent node
	Child    string // Kind name of the rejected child
	ParentID ids.ID
	ChildID  ids.ID
}

func (e *InvalidChildKindError) Error() string {
	return fmt.Sprintf("%s %d cannot contain %s %d", e.Parent, e.ParentID, e.Child, e.ChildID)
}

func (e *InvalidChildKindError) Unwrap() error {
	return ErrInvalidChildKind
}

// IncompleteCommentError reports the fields missing at finalize time.
type IncompleteCommentError struct {
	CommentID ids.ID
	Missing   []string // Field names in the order author, date, anchor
}

func (e *IncompleteCommentError) Error() string {
	return fmt.Sprintf("comment %d is incomplete: missing %s", e.CommentID, strings.Join(e.Missing, ", "))
}

func (e *IncompleteCommentError) Unwrap() error {
	return ErrIncompleteComment
}

// DanglingAnchorError reports an annotation whose anchor does not resolve
// to a live node of the expected kind.
type DanglingAnchorError struct {
	Resource string // Annotation kind (e.g., "comment", "bookmark", "hyperlink")
	ID       ids.ID // Annotation identifier
	Anchor   ids.ID // Node identifier that failed to resolve
	Reason   string
}

func (e *DanglingAnchorError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s %d: anchor %d %s", e.Resource, e.ID, e.Anchor, e.Reason)
	}
	return fmt.Sprintf("%s %d: anchor %d does not resolve", e.Resource, e.ID, e.Anchor)
}

func (e *DanglingAnchorError) Unwrap() error {
	return ErrDanglingAnchor
}

// DuplicateCommentIDError reports a comment id that is already attached.
type DuplicateCommentIDError struct {
	CommentID ids.ID
}

func (e *DuplicateCommentIDError) Error() string {
	return fmt.Sprintf("comment %d already attached", e.CommentID)
}

func (e *DuplicateCommentIDError) Unwrap() error {
	return ErrDuplicateCommentID
}

// UnknownParentError reports a parent id missing from the content tree.
type UnknownParentError struct {
	ParentID ids.ID
}

func (e *UnknownParentError) Error() string {
	return fmt.Sprintf("parent %d not found in document", e.ParentID)
}

func (e *UnknownParentError) Unwrap() error {
	return ErrUnknownParent
}

// SerializationError names the package part that could not be emitted.
// It matches ErrSerialization and unwraps to its cause.
type SerializationError struct {
	Part string // Part name inside the package (e.g., "word/document.xml")
	Err  error  // Underlying error
}

func (e *SerializationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("serialize %s: %v", e.Part, e.Err)
	}
	return fmt.Sprintf("serialize %s", e.Part)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrSerialization.
func (e *SerializationError) Is(target error) bool {
	return target == ErrSerialization
}

// AlreadyExistsError reports an identifier or name that is already taken.
type AlreadyExistsError struct {
	Resource string // Type of resource (e.g., "node", "bookmark")
	ID       string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s already exists: %s", e.Resource, e.ID)
}

func (e *AlreadyExistsError) Unwrap() error {
	return ErrAlreadyExists
}

// NotFoundError represents a resource not found error with context
type NotFoundError struct {
	Resource string // Type of resource (e.g., "blob", "part")
	ID       string // Identifier of the resource
	Err      error  // Underlying error, if any
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrNotFound
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string // Field name that failed validation
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// ParseError represents a parsing error in scripts or package parts
type ParseError struct {
	Format  string // Format being parsed (e.g., "script", "XML")
	Path    string // File path or part name, if applicable
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, e.Path, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

// Unwrap matches ErrInvalidInput and, when set, the underlying cause.
func (e *ParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidInput, e.Err}
	}
	return []error{ErrInvalidInput}
}

// IOError represents an I/O operation error with context
type IOError struct {
	Operation string // Operation being performed (e.g., "read", "write", "rename")
	Path      string // File/resource path involved
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// InternalError reports a logic defect: an invariant the model should
// have guaranteed did not hold. It is not recoverable by the caller.
type InternalError struct {
	Op      string
	Message string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error in %s: %s", e.Op, e.Message)
}

func (e *InternalError) Unwrap() error {
	return ErrInternal
}

// Helper functions for creating common errors

// NewNotFound creates a NotFoundError
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// NewValidation creates a ValidationError
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewIO creates an IOError
func NewIO(operation, path string, err error) *IOError {
	return &IOError{
		Operation: operation,
		Path:      path,
		Err:       err,
	}
}

// NewParse creates a ParseError
func NewParse(format, path, message string) *ParseError {
	return &ParseError{
		Format:  format,
		Path:    path,
		Message: message,
	}
}

// NewSerialization creates a SerializationError for the named part
func NewSerialization(part string, err error) *SerializationError {
	return &SerializationError{
		Part: part,
		Err:  err,
	}
}

// NewInternal creates an InternalError
func NewInternal(op, format string, args ...interface{}) *InternalError {
	return &InternalError{
		Op:      op,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
